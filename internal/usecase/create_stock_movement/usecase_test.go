package create_stock_movement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	partRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/part"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/auditlog"
	"github.com/m04kA/SMC-ServiceCenter/pkg/ptr"
)

type fakePartRepo struct {
	parts     map[int64]*domain.Part
	movements []*domain.StockMovement
}

func (f *fakePartRepo) GetByID(_ context.Context, id int64) (*domain.Part, error) {
	p, ok := f.parts[id]
	if !ok {
		return nil, partRepo.ErrPartNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakePartRepo) ApplyDeltaConditional(_ context.Context, partID int64, delta int) (int, error) {
	p, ok := f.parts[partID]
	if !ok {
		return 0, partRepo.ErrPartNotFound
	}
	if p.StockQty+delta < 0 {
		return 0, partRepo.ErrInsufficientStock
	}
	p.StockQty += delta
	return p.StockQty, nil
}

func (f *fakePartRepo) ApplyDelta(_ context.Context, partID int64, delta int) (int, error) {
	p, ok := f.parts[partID]
	if !ok {
		return 0, partRepo.ErrPartNotFound
	}
	p.StockQty += delta
	return p.StockQty, nil
}

func (f *fakePartRepo) CreateMovement(_ context.Context, m *domain.StockMovement) (*domain.StockMovement, error) {
	m.ID = int64(len(f.movements) + 1)
	f.movements = append(f.movements, m)
	return m, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

var (
	employeeActor = domain.Actor{SubjectID: 100, Role: domain.RoleEmployee}
	adminActor    = domain.Actor{SubjectID: 1, Role: domain.RoleAdmin}
)

type fixture struct {
	uc    *UseCase
	parts *fakePartRepo
	audit *fakeAudit
}

func newFixture() *fixture {
	parts := &fakePartRepo{parts: map[int64]*domain.Part{
		1: {ID: 1, Name: "Oil filter", SKU: "OF-100", StockQty: 5, LowStockThreshold: 2},
	}}
	audit := &fakeAudit{}

	uc := NewUseCase(parts, fakeTxManager{}, audit, noopLogger{})
	return &fixture{uc: uc, parts: parts, audit: audit}
}

func TestExecute_InMovementIncreasesStock(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		Actor:    employeeActor,
		PartID:   1,
		Type:     domain.MovementIn,
		Quantity: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, 10, resp.Delta)
	assert.Equal(t, 15, resp.NewStockQty)
	assert.False(t, resp.IsLowStock)
	assert.Len(t, f.audit.entries, 1)
}

func TestExecute_OutMovementDecreasesStock(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		Actor:    employeeActor,
		PartID:   1,
		Type:     domain.MovementOut,
		Quantity: 4,
	})

	require.NoError(t, err)
	assert.Equal(t, -4, resp.Delta)
	assert.Equal(t, 1, resp.NewStockQty)
	// Остаток 1 при пороге 2
	assert.True(t, resp.IsLowStock)
}

func TestExecute_NegativeStockForbiddenForEmployee(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		Actor:    employeeActor,
		PartID:   1,
		Type:     domain.MovementOut,
		Quantity: 10,
	})

	require.ErrorIs(t, err, ErrNegativeStockNotAllowed)
	// Ни движения, ни изменения остатка
	assert.Empty(t, f.parts.movements)
	assert.Equal(t, 5, f.parts.parts[1].StockQty)
}

func TestExecute_AdminMayGoNegative(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		Actor:    adminActor,
		PartID:   1,
		Type:     domain.MovementOut,
		Quantity: 8,
	})

	require.NoError(t, err)
	assert.Equal(t, -3, resp.NewStockQty)
	assert.True(t, resp.IsLowStock)
}

func TestExecute_AdjustRequiresDirection(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		Actor:    employeeActor,
		PartID:   1,
		Type:     domain.MovementAdjust,
		Quantity: 3,
	})

	assert.ErrorIs(t, err, domain.ErrAdjustDirectionRequired)
}

func TestExecute_AdjustWithDirection(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		Actor:           employeeActor,
		PartID:          1,
		Type:            domain.MovementAdjust,
		Quantity:        3,
		AdjustDirection: ptr.Ptr(domain.AdjustOut),
	})

	require.NoError(t, err)
	assert.Equal(t, -3, resp.Delta)
	assert.Equal(t, 2, resp.NewStockQty)
}

func TestExecute_ForbiddenForCustomer(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		Actor:    domain.Actor{SubjectID: 200, Role: domain.RoleCustomer},
		PartID:   1,
		Type:     domain.MovementIn,
		Quantity: 1,
	})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestExecute_PartNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		Actor:    employeeActor,
		PartID:   999,
		Type:     domain.MovementIn,
		Quantity: 1,
	})

	assert.ErrorIs(t, err, ErrPartNotFound)
}

func TestExecute_InvalidQuantity(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		Actor:    employeeActor,
		PartID:   1,
		Type:     domain.MovementIn,
		Quantity: 0,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}
