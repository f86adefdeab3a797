package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryProvider(t *testing.T) {
	p := NewMemory()
	assert.Equal(t, "", p.Get())
	assert.NoError(t, p.Set("hello"))
	assert.Equal(t, "hello", p.Get())
}

func TestSystemFailureFallsBack(t *testing.T) {
	broken := errors.New("no display")
	p := NewFuncs(
		func() (string, error) { return "", broken },
		func(string) error { return broken },
	)

	assert.ErrorIs(t, p.Set("x"), broken)
	assert.Equal(t, "x", p.Get())
}

func TestSystemRoundTrip(t *testing.T) {
	var stored string
	p := &Provider{
		system: true,
		read:   func() (string, error) { return stored, nil },
		write:  func(s string) error { stored = s; return nil },
	}

	assert.NoError(t, p.Set("y"))
	assert.Equal(t, "y", stored)
	assert.Equal(t, "y", p.Get())
}
