package algo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpeed(t *testing.T) {
	s := NewSpeed(DefaultSpeed)
	assert.Equal(t, 300.0, s.Get())

	assert.NoError(t, s.Set(450))
	assert.Equal(t, 450.0, s.Get())

	for _, v := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		assert.ErrorIs(t, s.Set(v), ErrInvalidSpeed)
	}
	assert.Equal(t, 450.0, s.Get())
}

func TestNewSpeed_InvalidFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultSpeed, NewSpeed(-1).Get())
}
