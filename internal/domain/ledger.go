package domain

import "time"

// TransactionType represents the direction of a ledger entry
type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

// TransactionSource identifies the event that produced a ledger entry
type TransactionSource string

const (
	SourceBooking         TransactionSource = "BOOKING"
	SourceWalkIn          TransactionSource = "WALK_IN"
	SourceMembership      TransactionSource = "MEMBERSHIP"
	SourceSupplierInvoice TransactionSource = "SUPPLIER_INVOICE"
)

// Transaction is an immutable ledger entry. Corrections are new entries,
// existing rows are never updated.
type Transaction struct {
	ID     int64
	Type   TransactionType
	Source TransactionSource
	Amount float64

	// Reference back to the originating entity, depending on Source
	BookingID   *int64
	ReferenceID *int64

	Note            *string
	BranchID        string
	CreatedByUserID int64
	CreatedAt       time.Time
}
