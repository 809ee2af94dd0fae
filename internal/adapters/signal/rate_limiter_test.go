package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnRateLimiterBurst(t *testing.T) {
	rl := NewConnRateLimiter(0.001, 2)
	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))

	assert.True(t, rl.Allow("b"), "buckets are per connection")

	rl.Forget("a")
	assert.True(t, rl.Allow("a"))
}

func TestConnRateLimiterDisabled(t *testing.T) {
	rl := NewConnRateLimiter(0, 0)
	for i := 0; i < 100; i++ {
		assert.True(t, rl.Allow("a"))
	}
}
