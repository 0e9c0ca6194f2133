package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// Prefix identifies the signature scheme in the X-Hub-Signature-256 header
const Prefix = "sha256="

/* Sign computes the hex-encoded HMAC-SHA256 of the raw payload bytes
 * using the subscription secret as the key
 */
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Header returns the full header value: sha256=<hex>
func Header(payload []byte, secret string) string {
	return Prefix + Sign(payload, secret)
}

/* Verify recomputes the signature and compares it against the provided
 * header value in constant time. Returns false on mismatch or malformed
 * input - it never fails loudly for attacker-controlled data
 */
func Verify(payload []byte, secret string, provided string) bool {
	if !strings.HasPrefix(provided, Prefix) {
		return false
	}

	providedHex := strings.TrimPrefix(provided, Prefix)
	providedMAC, err := hex.DecodeString(providedHex)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expectedMAC := mac.Sum(nil)

	// Use constant-time comparison to prevent timing attacks
	return subtle.ConstantTimeCompare(providedMAC, expectedMAC) == 1
}
