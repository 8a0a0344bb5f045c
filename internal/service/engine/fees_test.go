package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeFee(t *testing.T) {
	tests := []struct {
		name            string
		perRecipientFee int64
		minimumFee      int64
		recipients      int
		want            int64
	}{
		{"floor applies below minimum", 10, 50, 3, 50},
		{"exactly at floor", 10, 50, 5, 50},
		{"linear above floor", 10, 50, 7, 70},
		{"single recipient", 10, 50, 1, 50},
		{"zero per-recipient fee keeps floor", 0, 50, 100, 50},
		{"zero floor is purely linear", 10, 0, 3, 30},
		{"both zero", 0, 0, 10, 0},
		{"large batch", 10, 50, 199, 1990},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeFee(tt.perRecipientFee, tt.minimumFee, tt.recipients)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeFeeEmptyBatch(t *testing.T) {
	_, err := ComputeFee(10, 50, 0)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}
