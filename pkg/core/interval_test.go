package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterval_Default(t *testing.T) {
	iv := DefaultInterval()
	assert.Equal(t, DefaultTMin, iv.Min)
	assert.True(t, math.IsInf(iv.Max, 1))
	assert.False(t, iv.IsEmpty())
}

func TestInterval_ContainsIsStrict(t *testing.T) {
	iv := NewInterval(1, 2)

	assert.False(t, iv.Contains(1), "lower bound is excluded")
	assert.False(t, iv.Contains(2), "upper bound is excluded")
	assert.True(t, iv.Contains(1.5))
	assert.False(t, iv.Contains(0.5))
	assert.False(t, iv.Contains(2.5))
}

func TestInterval_NarrowNeverWidens(t *testing.T) {
	iv := NewInterval(0.001, 10)

	iv = iv.Narrow(4)
	assert.Equal(t, 4.0, iv.Max)

	iv = iv.Narrow(7)
	assert.Equal(t, 4.0, iv.Max, "narrowing to a larger value must not widen")

	iv = iv.Narrow(0.0005)
	assert.True(t, iv.IsEmpty())
}
