package payments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripeClientWithoutKey(t *testing.T) {
	c := NewStripeClient("")
	_, err := c.CreateIntent(context.Background(), 1000, "usd")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNilStripeClient(t *testing.T) {
	var c *StripeClient
	_, err := c.CreateIntent(context.Background(), 1000, "usd")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
