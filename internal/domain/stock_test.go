package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ServiceCenter/pkg/ptr"
)

func TestResolveDelta(t *testing.T) {
	tests := []struct {
		name         string
		movementType MovementType
		quantity     int
		direction    *AdjustDirection
		want         int
		wantErr      error
	}{
		{name: "in is positive", movementType: MovementIn, quantity: 5, want: 5},
		{name: "out is negative", movementType: MovementOut, quantity: 5, want: -5},
		{name: "adjust in", movementType: MovementAdjust, quantity: 3, direction: ptr.Ptr(AdjustIn), want: 3},
		{name: "adjust out", movementType: MovementAdjust, quantity: 3, direction: ptr.Ptr(AdjustOut), want: -3},
		{name: "adjust without direction", movementType: MovementAdjust, quantity: 3, wantErr: ErrAdjustDirectionRequired},
		{name: "unknown type", movementType: MovementType("TRANSFER"), quantity: 1, wantErr: ErrInvalidMovementType},
		{name: "zero quantity", movementType: MovementIn, quantity: 0, wantErr: ErrInvalidQuantity},
		{name: "negative quantity", movementType: MovementOut, quantity: -2, wantErr: ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDelta(tt.movementType, tt.quantity, tt.direction)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeNewQty(t *testing.T) {
	assert.Equal(t, 7, ComputeNewQty(5, 2))
	assert.Equal(t, 0, ComputeNewQty(5, -5))
	assert.Equal(t, -3, ComputeNewQty(2, -5))
}

func TestIsChangeAllowed(t *testing.T) {
	// Неотрицательный результат разрешен любой роли
	assert.True(t, IsChangeAllowed(5, -5, RoleEmployee))
	assert.True(t, IsChangeAllowed(5, 10, RoleCustomer))

	// Уход в минус разрешен только администратору
	assert.False(t, IsChangeAllowed(5, -10, RoleEmployee))
	assert.False(t, IsChangeAllowed(5, -10, RoleManager))
	assert.False(t, IsChangeAllowed(5, -10, RoleCustomer))
	assert.True(t, IsChangeAllowed(5, -10, RoleAdmin))
}

func TestPartIsLowStock(t *testing.T) {
	assert.True(t, (&Part{StockQty: 2, LowStockThreshold: 5}).IsLowStock())
	assert.True(t, (&Part{StockQty: 5, LowStockThreshold: 5}).IsLowStock())
	assert.False(t, (&Part{StockQty: 6, LowStockThreshold: 5}).IsLowStock())
}
