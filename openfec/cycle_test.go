package openfec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCycle(t *testing.T) {
	tests := []struct {
		name    string
		cycle   int
		want    int
		wantErr bool
	}{
		{name: "even cycle unchanged", cycle: 2024, want: 2024},
		{name: "odd cycle coerced down", cycle: 2025, want: 2024},
		{name: "first valid cycle", cycle: 1976, want: 1976},
		{name: "first odd cycle", cycle: 1977, want: 1976},
		{name: "before 1976 rejected", cycle: 1974, wantErr: true},
		{name: "zero rejected", cycle: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCycle(tt.cycle)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidCycle)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeCycleIdempotent(t *testing.T) {
	for cycle := 1976; cycle <= 2026; cycle++ {
		once, err := NormalizeCycle(cycle)
		require.NoError(t, err)
		twice, err := NormalizeCycle(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "cycle %d", cycle)
		assert.Zero(t, once%2)
		if cycle%2 != 0 {
			assert.Equal(t, cycle-1, once)
		}
	}
}
