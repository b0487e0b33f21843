package validators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmailDomainValid_Malformed(t *testing.T) {
	for _, email := range []string{"no-at-sign", "trailing@", ""} {
		assert.False(t, IsEmailDomainValid(context.Background(), email), email)
	}
}

func TestIsEmailDomainValid_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, IsEmailDomainValid(ctx, "someone@example.invalid"))
}
