package create_walkin_income

import (
	"time"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
)

// CreateWalkinIncomeRequest HTTP request model
type CreateWalkinIncomeRequest struct {
	Amount   float64 `json:"amount"`
	BranchID string  `json:"branchId"`
	Note     *string `json:"note,omitempty"`
}

// TransactionResponse HTTP response model
type TransactionResponse struct {
	ID              int64   `json:"id"`
	Type            string  `json:"type"`
	Source          string  `json:"source"`
	Amount          float64 `json:"amount"`
	BranchID        string  `json:"branchId"`
	Note            *string `json:"note,omitempty"`
	CreatedByUserID int64   `json:"createdByUserId"`
	CreatedAt       string  `json:"createdAt"`
}

// FromDomainTransaction конвертирует domain.Transaction в HTTP response
func FromDomainTransaction(txn *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:              txn.ID,
		Type:            string(txn.Type),
		Source:          string(txn.Source),
		Amount:          txn.Amount,
		BranchID:        txn.BranchID,
		Note:            txn.Note,
		CreatedByUserID: txn.CreatedByUserID,
		CreatedAt:       txn.CreatedAt.Format(time.RFC3339),
	}
}
