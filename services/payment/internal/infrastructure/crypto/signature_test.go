package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHMACSignatureVerifier(t *testing.T) {
	v := NewHMACSignatureVerifier("secret")

	sig := v.Sign("order_1", "pay_1")
	assert.Len(t, sig, 64)
	assert.True(t, v.Verify("order_1", "pay_1", sig))

	t.Run("any tampered character is rejected", func(t *testing.T) {
		for i := range sig {
			b := []byte(sig)
			if b[i] == 'a' {
				b[i] = 'b'
			} else {
				b[i] = 'a'
			}
			assert.False(t, v.Verify("order_1", "pay_1", string(b)), "position %d", i)
		}
	})

	t.Run("swapped or altered ids are rejected", func(t *testing.T) {
		assert.False(t, v.Verify("pay_1", "order_1", sig))
		assert.False(t, v.Verify("order_2", "pay_1", sig))
		assert.False(t, v.Verify("order_1", "pay_2", sig))
	})

	t.Run("empty fields are rejected", func(t *testing.T) {
		assert.False(t, v.Verify("", "pay_1", sig))
		assert.False(t, v.Verify("order_1", "", sig))
		assert.False(t, v.Verify("order_1", "pay_1", ""))
	})

	t.Run("different secret", func(t *testing.T) {
		other := NewHMACSignatureVerifier("other")
		assert.False(t, other.Verify("order_1", "pay_1", sig))
	})
}
