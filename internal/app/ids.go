package app

import (
	"crypto/rand"

	"github.com/google/uuid"
)

func newUUID() string {
	return uuid.NewString()
}

const (
	ticketCodeLength   = 10
	ticketCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// newTicketCode returns a random code of upper-case letters and digits.
// Bytes at or above the largest multiple of the alphabet size are redrawn so
// every character is equally likely.
func newTicketCode() (string, error) {
	const limit = 256 - 256%len(ticketCodeAlphabet)
	code := make([]byte, 0, ticketCodeLength)
	buf := make([]byte, ticketCodeLength)
	for len(code) < ticketCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, c := range buf {
			if int(c) >= limit {
				continue
			}
			code = append(code, ticketCodeAlphabet[int(c)%len(ticketCodeAlphabet)])
			if len(code) == ticketCodeLength {
				break
			}
		}
	}
	return string(code), nil
}
