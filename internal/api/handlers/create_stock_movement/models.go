package create_stock_movement

import (
	"time"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	createStockMovement "github.com/m04kA/SMC-ServiceCenter/internal/usecase/create_stock_movement"
)

// CreateStockMovementRequest HTTP request model
type CreateStockMovementRequest struct {
	Type            string  `json:"type"` // IN / OUT / ADJUST
	Quantity        int     `json:"quantity"`
	AdjustDirection *string `json:"adjustDirection,omitempty"` // IN / OUT, только для ADJUST
	BookingID       *int64  `json:"bookingId,omitempty"`
	SupplierID      *int64  `json:"supplierId,omitempty"`
	InvoiceID       *int64  `json:"invoiceId,omitempty"`
	Note            *string `json:"note,omitempty"`
}

// StockMovementResponse HTTP response model
type StockMovementResponse struct {
	ID              int64   `json:"id"`
	PartID          int64   `json:"partId"`
	Type            string  `json:"type"`
	Quantity        int     `json:"quantity"`
	Delta           int     `json:"delta"`
	AdjustDirection *string `json:"adjustDirection,omitempty"`
	NewStockQty     int     `json:"newStockQty"`
	IsLowStock      bool    `json:"isLowStock"`
	BookingID       *int64  `json:"bookingId,omitempty"`
	SupplierID      *int64  `json:"supplierId,omitempty"`
	InvoiceID       *int64  `json:"invoiceId,omitempty"`
	Note            *string `json:"note,omitempty"`
	CreatedByUserID int64   `json:"createdByUserId"`
	CreatedAt       string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateStockMovementRequest) ToUseCaseRequest(actor domain.Actor, partID int64) *createStockMovement.Request {
	var direction *domain.AdjustDirection
	if r.AdjustDirection != nil {
		d := domain.AdjustDirection(*r.AdjustDirection)
		direction = &d
	}

	return &createStockMovement.Request{
		Actor:           actor,
		PartID:          partID,
		Type:            domain.MovementType(r.Type),
		Quantity:        r.Quantity,
		AdjustDirection: direction,
		BookingID:       r.BookingID,
		SupplierID:      r.SupplierID,
		InvoiceID:       r.InvoiceID,
		Note:            r.Note,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createStockMovement.Response) *StockMovementResponse {
	return &StockMovementResponse{
		ID:              resp.ID,
		PartID:          resp.PartID,
		Type:            resp.Type,
		Quantity:        resp.Quantity,
		Delta:           resp.Delta,
		AdjustDirection: resp.AdjustDirection,
		NewStockQty:     resp.NewStockQty,
		IsLowStock:      resp.IsLowStock,
		BookingID:       resp.BookingID,
		SupplierID:      resp.SupplierID,
		InvoiceID:       resp.InvoiceID,
		Note:            resp.Note,
		CreatedByUserID: resp.CreatedByUserID,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
