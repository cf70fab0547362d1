package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HMACSignatureVerifier verifies checkout signatures of the form
// hex(HMAC-SHA256(secret, orderID + "|" + paymentID)).
type HMACSignatureVerifier struct {
	secret []byte
}

func NewHMACSignatureVerifier(secret string) *HMACSignatureVerifier {
	return &HMACSignatureVerifier{secret: []byte(secret)}
}

// Verify compares in constant time. Empty inputs never verify.
func (v *HMACSignatureVerifier) Verify(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	expected := v.Sign(orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign computes the signature a gateway would send for the pair.
func (v *HMACSignatureVerifier) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
