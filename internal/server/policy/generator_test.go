package policy

import (
	"testing"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_PassesPolicy(t *testing.T) {
	p := Default()
	for _, n := range []int{8, 12, 16, 64, MaxGenerateLength} {
		for i := 0; i < 50; i++ {
			s, err := p.Generate(n)
			require.NoError(t, err)
			assert.Len(t, s, n)
			require.NoError(t, p.Validate(s), s)
		}
	}
}

func TestGenerate_DefaultLength(t *testing.T) {
	s, err := Default().Generate(0)
	require.NoError(t, err)
	assert.Len(t, s, DefaultGenerateLength)
}

func TestGenerate_Bounds(t *testing.T) {
	p := Default()
	for _, n := range []int{-1, 7, MaxGenerateLength + 1} {
		_, err := p.Generate(n)
		assert.ErrorIs(t, err, common.ErrorInvalidInput, n)
	}
}

func TestGenerate_NotRepeated(t *testing.T) {
	p := Default()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		s, err := p.Generate(16)
		require.NoError(t, err)
		assert.False(t, seen[s])
		seen[s] = true
	}
}
