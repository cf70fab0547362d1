package provider

// SignatureVerifier checks the (order id, payment id, signature) triple a
// checkout returns after capture.
type SignatureVerifier interface {
	Verify(orderID, paymentID, signature string) bool
}
