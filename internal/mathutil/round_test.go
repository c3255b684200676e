package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	tests := []struct {
		in     float64
		places int
		want   float64
	}{
		{33.333333, 1, 33.3},
		{66.666666, 1, 66.7},
		{2.675, 2, 2.67},
		{2.25, 1, 2.2},
		{87.5, 0, 88},
		{100, 1, 100},
		{-1.25, 1, -1.2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round(tt.in, tt.places), "%v/%d", tt.in, tt.places)
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 30.0, Percent(3, 10))
	assert.Equal(t, 100.0, Percent(10, 10))
	assert.Equal(t, 0.0, Percent(1, 0))
}
