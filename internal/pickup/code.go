// Package pickup generates the short codes customers present to claim
// a prepared order.
package pickup

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
)

const (
	alphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	CodeLength = 7

	maxAttempts = 5
)

// ErrExhaustedRetries is returned when every candidate collided with an
// existing code. With 36^7 possible codes this only happens if the
// store probe itself is misbehaving.
var ErrExhaustedRetries = errors.New("exhausted pickup code attempts")

type CodeStore interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

type Generator struct {
	Store CodeStore
}

// Generate draws candidates until one is free in the store. The store's
// unique constraint remains the final arbiter: two concurrent calls may
// still race on the same fresh code, and the caller retries the insert.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}
		exists, err := g.Store.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("checking pickup code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrExhaustedRetries
}

func randomCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}
