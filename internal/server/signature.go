package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature recomputes the HMAC-SHA256 hex digest of payload under
// secret and compares it to the supplied signature. The comparison is an
// exact case-sensitive match on the hex encoding.
func VerifySignature(secret string, payload []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	computed := hex.EncodeToString(mac.Sum(nil))
	return computed == signature
}
