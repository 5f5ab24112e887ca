package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"12.50", 1250},
		{"99.99", 9999},
		{"100", 10000},
		{"0.005", 1},
		{"-3.20", -320},
		{"0", 0},
	}
	for _, tt := range tests {
		got, err := ToMinorUnits(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestToMinorUnitsRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "1e3", "12,50", "1.2.3", "NaN"} {
		_, err := ToMinorUnits(in)
		assert.ErrorIs(t, err, errNotANumber, in)
	}
	_, err := ToMinorUnits("92233720368547758.08")
	assert.ErrorIs(t, err, errAmountRange)
}

func TestFormatMinorUnits(t *testing.T) {
	assert.Equal(t, "12.50", FormatMinorUnits(1250))
	assert.Equal(t, "0.07", FormatMinorUnits(7))
}
