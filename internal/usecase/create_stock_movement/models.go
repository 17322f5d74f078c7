package create_stock_movement

import (
	"time"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
)

// Request модель запроса на создание складского движения
type Request struct {
	Actor  domain.Actor // Аутентифицированный субъект
	PartID int64        // ID запчасти

	Type            domain.MovementType     // IN / OUT / ADJUST
	Quantity        int                     // Всегда положительное
	AdjustDirection *domain.AdjustDirection // Обязательно для ADJUST

	BookingID  *int64  // Списание под бронирование
	SupplierID *int64  // Приход от поставщика
	InvoiceID  *int64  // Накладная поставщика
	Note       *string // Произвольная заметка
}

// Response модель ответа с созданным движением и новым остатком
type Response struct {
	ID     int64
	PartID int64

	Type            string
	Quantity        int
	Delta           int
	AdjustDirection *string

	NewStockQty int
	IsLowStock  bool

	BookingID  *int64
	SupplierID *int64
	InvoiceID  *int64
	Note       *string

	CreatedByUserID int64
	CreatedAt       time.Time
}

func toResponse(m *domain.StockMovement, newQty int, lowStock bool) *Response {
	var direction *string
	if m.AdjustDirection != nil {
		d := string(*m.AdjustDirection)
		direction = &d
	}

	return &Response{
		ID:              m.ID,
		PartID:          m.PartID,
		Type:            string(m.Type),
		Quantity:        m.Quantity,
		Delta:           m.Delta,
		AdjustDirection: direction,
		NewStockQty:     newQty,
		IsLowStock:      lowStock,
		BookingID:       m.BookingID,
		SupplierID:      m.SupplierID,
		InvoiceID:       m.InvoiceID,
		Note:            m.Note,
		CreatedByUserID: m.CreatedByUserID,
		CreatedAt:       m.CreatedAt,
	}
}
