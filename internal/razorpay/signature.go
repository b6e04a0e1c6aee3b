package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature checks that the gateway signed the
// (providerOrderID, providerPaymentID) pair with the shared key secret.
//
// The canonical message is the two IDs joined by "|", the signature is
// the lowercase hex HMAC-SHA256 of that message. hmac.Equal compares in
// constant time, so an attacker cannot recover signature bytes by timing
// the comparison. The secret must never appear in logs or responses.
func VerifySignature(providerOrderID, providerPaymentID, signature, keySecret string) bool {
	mac := hmac.New(sha256.New, []byte(keySecret))
	mac.Write([]byte(providerOrderID + "|" + providerPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
