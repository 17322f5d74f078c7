package part

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	"github.com/m04kA/SMC-ServiceCenter/pkg/dbmetrics"
	"github.com/m04kA/SMC-ServiceCenter/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий запчастей и движений склада
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория запчастей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает запчасть по ID
// Внутри транзакции добавляет FOR UPDATE для сериализации конкурентных движений
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Part, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"name",
		"sku",
		"stock_qty",
		"low_stock_threshold",
		"unit_price",
		"created_at",
		"updated_at",
	).
		From("parts").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.Part
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.Name,
		&p.SKU,
		&p.StockQty,
		&p.LowStockThreshold,
		&p.UnitPrice,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan part: %v", ErrScanRow, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}

// ApplyDeltaConditional применяет дельту к остатку условным обновлением:
// "изменить только если итог не уходит в минус". Перепроверка остатка и
// запись выполняются одной командой, что исключает lost update между
// конкурентными движениями по одной запчасти.
// Возвращает новый остаток; ErrInsufficientStock, если условие не прошло.
func (r *Repository) ApplyDeltaConditional(ctx context.Context, partID int64, delta int) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("parts").
		Set("stock_qty", squirrel.Expr("stock_qty + ?", delta)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": partID}).
		Where(squirrel.Expr("stock_qty + ? >= 0", delta)).
		Suffix("RETURNING stock_qty").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: ApplyDeltaConditional - build update query: %v", ErrBuildQuery, err)
	}

	var newQty int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&newQty)
	if err == sql.ErrNoRows {
		return 0, ErrInsufficientStock
	}
	if err != nil {
		return 0, fmt.Errorf("%w: ApplyDeltaConditional - execute update: %v", ErrExecQuery, err)
	}

	return newQty, nil
}

// ApplyDelta применяет дельту без проверки неотрицательности
// Используется только для привилегированных ролей с правом ухода в минус
func (r *Repository) ApplyDelta(ctx context.Context, partID int64, delta int) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("parts").
		Set("stock_qty", squirrel.Expr("stock_qty + ?", delta)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": partID}).
		Suffix("RETURNING stock_qty").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: ApplyDelta - build update query: %v", ErrBuildQuery, err)
	}

	var newQty int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&newQty)
	if err == sql.ErrNoRows {
		return 0, ErrPartNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: ApplyDelta - execute update: %v", ErrExecQuery, err)
	}

	return newQty, nil
}

// CreateMovement создает неизменяемую запись движения склада
func (r *Repository) CreateMovement(ctx context.Context, m *domain.StockMovement) (*domain.StockMovement, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("stock_movements").
		Columns(
			"part_id",
			"type",
			"quantity",
			"delta",
			"adjust_direction",
			"booking_id",
			"supplier_id",
			"invoice_id",
			"note",
			"created_by_user_id",
		).
		Values(
			m.PartID,
			m.Type,
			m.Quantity,
			m.Delta,
			m.AdjustDirection,
			m.BookingID,
			m.SupplierID,
			m.InvoiceID,
			m.Note,
			m.CreatedByUserID,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateMovement - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&m.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateMovement - execute insert: %v", ErrExecQuery, err)
	}

	m.CreatedAt = createdAt.Time
	return m, nil
}
