package orders

import (
	"crypto/rand"
	"fmt"
)

const (
	CodePrefix = "K"
	codeLen    = 6
	alphabet   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// CodeGenerator produces order codes. Swapped out in tests.
type CodeGenerator func() (string, error)

// NewOrderCode returns "K" followed by 6 uppercase base36 characters (~2.2e9 codes).
func NewOrderCode() (string, error) {
	var buf [codeLen]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("order code: %w", err)
	}
	out := make([]byte, 0, len(CodePrefix)+codeLen)
	out = append(out, CodePrefix...)
	for _, b := range buf {
		// modulo bias accepted
		out = append(out, alphabet[int(b)%len(alphabet)])
	}
	return string(out), nil
}
