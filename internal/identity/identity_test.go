package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveDeterministic(t *testing.T) {
	first := Derive("my_secret_seed")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Derive("my_secret_seed"))
	}
}

func TestDeriveShape(t *testing.T) {
	tag := Derive("anything")
	assert.True(t, strings.HasPrefix(tag, TagPrefix))
	assert.Len(t, tag, len(TagPrefix)+tagHexLen)
	assert.Equal(t, strings.ToLower(tag), tag)
}

func TestDeriveDistinctSeeds(t *testing.T) {
	assert.NotEqual(t, Derive("seed-a"), Derive("seed-b"))
}

func TestDeriveKnownValue(t *testing.T) {
	assert.Equal(t, "@0e735dc", Derive("my_admin_seed"))
}
