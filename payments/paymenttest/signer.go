// Package paymenttest signs payment link callbacks the way Razorpay does so
// tests can build valid proofs.
package paymenttest

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/aryanwebd35/food-factory/payments"
)

func Sign(secret string, p payments.PaymentProof) string {
	data := p.PaymentLinkID + "|" + p.ReferenceID + "|" + p.Status + "|" + p.PaymentID
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
