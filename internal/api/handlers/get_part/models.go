package get_part

import (
	"time"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
)

// PartResponse HTTP response model
type PartResponse struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	SKU               string  `json:"sku"`
	StockQty          int     `json:"stockQty"`
	LowStockThreshold int     `json:"lowStockThreshold"`
	IsLowStock        bool    `json:"isLowStock"`
	UnitPrice         float64 `json:"unitPrice"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

// FromDomainPart конвертирует domain.Part в HTTP response
func FromDomainPart(p *domain.Part) *PartResponse {
	return &PartResponse{
		ID:                p.ID,
		Name:              p.Name,
		SKU:               p.SKU,
		StockQty:          p.StockQty,
		LowStockThreshold: p.LowStockThreshold,
		IsLowStock:        p.IsLowStock(),
		UnitPrice:         p.UnitPrice,
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         p.UpdatedAt.Format(time.RFC3339),
	}
}
