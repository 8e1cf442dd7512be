package loan

import (
	"credit-approval/internal/pkg/apperrors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateEMI(t *testing.T) {
	tests := []struct {
		name      string
		principal Money
		rate      float64
		tenure    int
		expected  Money
	}{
		{name: "standard annuity", principal: 100000, rate: 12, tenure: 12, expected: 8884.88},
		{name: "single month", principal: 50000, rate: 12, tenure: 1, expected: 50500},
		{name: "zero rate splits principal evenly", principal: 120000, rate: 0, tenure: 12, expected: 10000},
		{name: "zero principal", principal: 0, rate: 14, tenure: 24, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emi, err := CalculateEMI(tt.principal, tt.rate, tt.tenure)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, emi, 0.01)
		})
	}
}

func TestCalculateEMIRejectsNonPositiveTenure(t *testing.T) {
	for _, tenure := range []int{0, -3} {
		_, err := CalculateEMI(100000, 12, tenure)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	}
}

func TestCalculateEMIIsNotRounded(t *testing.T) {
	emi, err := CalculateEMI(100000, 12, 12)
	require.NoError(t, err)

	assert.NotEqual(t, RoundMoney(emi), emi)
	assert.Equal(t, 8884.88, RoundMoney(emi))
}

func TestCalculateEMIRejectsOverflow(t *testing.T) {
	emi, err := CalculateEMI(100000, 100000, 200)

	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	assert.Zero(t, emi)
	assert.NotPanics(t, func() { RoundMoney(emi) })
}

func TestCalculateEMIIncreasesWithRate(t *testing.T) {
	for _, tenure := range []int{1, 12, 60, 240} {
		prev, err := CalculateEMI(250000, 0, tenure)
		require.NoError(t, err)

		for rate := 0.5; rate <= 40; rate += 0.5 {
			emi, err := CalculateEMI(250000, rate, tenure)
			require.NoError(t, err)
			assert.Greater(t, emi, prev, "tenure %d rate %.1f", tenure, rate)
			prev = emi
		}
	}
}
