package usecase

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Crockford base32 alphabet
const receiptAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// ReceiptNumberGenerator issues receipt numbers for verified payments.
type ReceiptNumberGenerator interface {
	Next(at time.Time) (string, error)
}

type nanoidReceiptGenerator struct {
	prefix string
}

// NewReceiptNumberGenerator returns numbers like RCPT-20240210-7K3M9Q2XWD.
func NewReceiptNumberGenerator(prefix string) ReceiptNumberGenerator {
	return &nanoidReceiptGenerator{prefix: prefix}
}

func (g *nanoidReceiptGenerator) Next(at time.Time) (string, error) {
	id, err := gonanoid.Generate(receiptAlphabet, 10)
	if err != nil {
		return "", fmt.Errorf("failed to generate receipt number: %w", err)
	}
	return fmt.Sprintf("%s-%s-%s", g.prefix, at.UTC().Format("20060102"), id), nil
}
