package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrInvalidSignature rejects a webhook payload whose signature does not
// match. Nothing about the payload may be trusted after this.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// SignPayload computes the hex HMAC-SHA256 of body under secret. The
// payment processor sends the same value in the signature header.
func SignPayload(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook signature in constant time.
func VerifySignature(secret string, body []byte, signature string) error {
	expected := SignPayload(secret, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
