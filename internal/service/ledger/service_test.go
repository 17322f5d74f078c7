package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/auditlog"
	"github.com/m04kA/SMC-ServiceCenter/pkg/ptr"
)

type fakeLedgerRepo struct {
	created []*domain.Transaction
	err     error
}

func (f *fakeLedgerRepo) Create(_ context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	txn.ID = int64(len(f.created) + 1)
	f.created = append(f.created, txn)
	return txn, nil
}

type fakeAudit struct {
	entries []auditlog.Entry
}

func (f *fakeAudit) Append(_ context.Context, e auditlog.Entry) error {
	f.entries = append(f.entries, e)
	return nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

var staffActor = domain.Actor{SubjectID: 100, Role: domain.RoleManager}

func TestCreateWalkinIncome(t *testing.T) {
	repo := &fakeLedgerRepo{}
	audit := &fakeAudit{}
	svc := NewService(repo, audit, noopLogger{})

	txn, err := svc.CreateWalkinIncome(context.Background(), staffActor, WalkinIncomeInput{
		Amount:   120.50,
		BranchID: "MAIN",
		Note:     ptr.Ptr("tire swap, paid in cash"),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TransactionIncome, txn.Type)
	assert.Equal(t, domain.SourceWalkIn, txn.Source)
	assert.Equal(t, 120.50, txn.Amount)
	assert.Nil(t, txn.BookingID)
	assert.Equal(t, int64(100), txn.CreatedByUserID)
	assert.Len(t, audit.entries, 1)
}

func TestCreateWalkinIncome_AccessDenied(t *testing.T) {
	svc := NewService(&fakeLedgerRepo{}, &fakeAudit{}, noopLogger{})

	_, err := svc.CreateWalkinIncome(context.Background(),
		domain.Actor{SubjectID: 200, Role: domain.RoleCustomer},
		WalkinIncomeInput{Amount: 10, BranchID: "MAIN"})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCreateWalkinIncome_Validation(t *testing.T) {
	svc := NewService(&fakeLedgerRepo{}, &fakeAudit{}, noopLogger{})

	tests := []struct {
		name  string
		input WalkinIncomeInput
	}{
		{"zero amount", WalkinIncomeInput{Amount: 0, BranchID: "MAIN"}},
		{"negative amount", WalkinIncomeInput{Amount: -5, BranchID: "MAIN"}},
		{"missing branch", WalkinIncomeInput{Amount: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateWalkinIncome(context.Background(), staffActor, tt.input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateWalkinIncome_RepoError(t *testing.T) {
	repo := &fakeLedgerRepo{err: errors.New("db down")}
	svc := NewService(repo, &fakeAudit{}, noopLogger{})

	_, err := svc.CreateWalkinIncome(context.Background(), staffActor, WalkinIncomeInput{
		Amount:   10,
		BranchID: "MAIN",
	})

	assert.ErrorIs(t, err, ErrInternal)
}
