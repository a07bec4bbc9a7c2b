package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
)

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	t.Parallel()

	secret := "shared-secret"
	payload := []byte(`{"event_type":"new_entries"}`)

	if !VerifySignature(secret, payload, sign(secret, payload)) {
		t.Fatalf("correct digest must verify")
	}
}

func TestVerifySignatureRejectsMutations(t *testing.T) {
	t.Parallel()

	secret := "shared-secret"
	payload := []byte(`{"event_type":"new_entries"}`)
	digest := sign(secret, payload)

	mutated := []byte(strings.Replace(string(payload), "new", "old", 1))
	if VerifySignature(secret, mutated, digest) {
		t.Fatalf("mutated payload must not verify")
	}

	badDigest := []byte(digest)
	if badDigest[0] == 'a' {
		badDigest[0] = 'b'
	} else {
		badDigest[0] = 'a'
	}
	if VerifySignature(secret, payload, string(badDigest)) {
		t.Fatalf("mutated digest must not verify")
	}

	if upper := strings.ToUpper(digest); upper != digest && VerifySignature(secret, payload, upper) {
		t.Fatalf("digest comparison must be case-sensitive")
	}

	if VerifySignature("other-secret", payload, digest) {
		t.Fatalf("digest under a different secret must not verify")
	}
}
