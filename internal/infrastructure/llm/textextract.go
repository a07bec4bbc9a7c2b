package llm

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractText flattens article HTML into whitespace-normalized plain text.
// Only the model prompt is built from it; the stored entry body stays intact.
func ExtractText(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
