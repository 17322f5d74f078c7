package domain

import (
	"errors"
	"time"
)

// MovementType represents the reason class of a stock movement
type MovementType string

const (
	MovementIn     MovementType = "IN"
	MovementOut    MovementType = "OUT"
	MovementAdjust MovementType = "ADJUST"
)

// AdjustDirection determines the sign of an ADJUST movement
type AdjustDirection string

const (
	AdjustIn  AdjustDirection = "IN"
	AdjustOut AdjustDirection = "OUT"
)

var (
	// ErrAdjustDirectionRequired возвращается для ADJUST без указания направления
	ErrAdjustDirectionRequired = errors.New("domain: adjust direction required")

	// ErrInvalidMovementType возвращается при неизвестном типе движения
	ErrInvalidMovementType = errors.New("domain: invalid movement type")

	// ErrInvalidQuantity возвращается при неположительном количестве
	ErrInvalidQuantity = errors.New("domain: quantity must be positive")
)

// Part represents an inventory part with a running stock total
type Part struct {
	ID                int64
	Name              string
	SKU               string
	StockQty          int
	LowStockThreshold int
	UnitPrice         float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock returns true if the running total is at or below the threshold
func (p *Part) IsLowStock() bool {
	return p.StockQty <= p.LowStockThreshold
}

// StockMovement is an immutable record of a signed quantity delta against a part
type StockMovement struct {
	ID              int64
	PartID          int64
	Type            MovementType
	Quantity        int // always positive, as requested
	Delta           int // signed, as applied to the running total
	AdjustDirection *AdjustDirection

	BookingID  *int64
	SupplierID *int64
	InvoiceID  *int64
	Note       *string

	CreatedByUserID int64
	CreatedAt       time.Time
}

// ResolveDelta вычисляет знаковую дельту движения:
// IN -> +quantity, OUT -> -quantity, ADJUST -> знак по adjustDirection
func ResolveDelta(movementType MovementType, quantity int, adjustDirection *AdjustDirection) (int, error) {
	if quantity <= 0 {
		return 0, ErrInvalidQuantity
	}

	switch movementType {
	case MovementIn:
		return quantity, nil
	case MovementOut:
		return -quantity, nil
	case MovementAdjust:
		if adjustDirection == nil {
			return 0, ErrAdjustDirectionRequired
		}
		switch *adjustDirection {
		case AdjustIn:
			return quantity, nil
		case AdjustOut:
			return -quantity, nil
		default:
			return 0, ErrAdjustDirectionRequired
		}
	default:
		return 0, ErrInvalidMovementType
	}
}

// ComputeNewQty возвращает остаток после применения дельты
func ComputeNewQty(current, delta int) int {
	return current + delta
}

// IsChangeAllowed проверяет политику неотрицательного остатка:
// уход в минус разрешен только привилегированной роли
func IsChangeAllowed(current, delta int, role Role) bool {
	if ComputeNewQty(current, delta) >= 0 {
		return true
	}
	return role.CanOverrideNegativeStock()
}
