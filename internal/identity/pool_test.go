package identity

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickIsDeterministicUnderSeededSource(t *testing.T) {
	a := NewPool(rand.New(rand.NewSource(42)))
	b := NewPool(rand.New(rand.NewSource(42)))

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Pick().UserAgent, b.Pick().UserAgent)
	}
}

func TestPickCoversPool(t *testing.T) {
	p := NewPool(rand.New(rand.NewSource(1)))

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		seen[p.Pick().UserAgent] = true
	}
	assert.Len(t, seen, len(defaultIdentities))
}

func TestIdentitiesCarryHeaderSets(t *testing.T) {
	for _, id := range defaultIdentities {
		require.NotEmpty(t, id.UserAgent)
		assert.NotEmpty(t, id.Headers["Accept"])
		assert.NotEmpty(t, id.Headers["Accept-Language"])
	}
}
