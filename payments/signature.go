package payments

import (
	"github.com/razorpay/razorpay-go/utils"
)

const PaymentLinkPaid = "paid"

// PaymentProof holds the razorpay_* parameters appended to the callback URL.
type PaymentProof struct {
	PaymentLinkID string
	ReferenceID   string
	Status        string
	PaymentID     string
	Signature     string
}

func (p PaymentProof) Present() bool {
	return p.Signature != ""
}

// Paid reports whether the gateway marked the link as settled.
func (p PaymentProof) Paid() bool {
	return p.Status == PaymentLinkPaid
}

// VerifyPaymentLinkSignature checks the signature Razorpay attaches to a
// payment link callback.
func VerifyPaymentLinkSignature(secret string, p PaymentProof) bool {
	if secret == "" || p.Signature == "" {
		return false
	}
	params := map[string]interface{}{
		"payment_link_id":           p.PaymentLinkID,
		"payment_link_reference_id": p.ReferenceID,
		"payment_link_status":       p.Status,
		"razorpay_payment_id":       p.PaymentID,
	}
	return utils.VerifyPaymentLinkSignature(params, p.Signature, secret)
}
