package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	"github.com/m04kA/SMC-ServiceCenter/pkg/dbmetrics"
	"github.com/m04kA/SMC-ServiceCenter/pkg/psqlbuilder"
)

const pqUniqueViolation = "23505"

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий финансовых проводок
// Проводки неизменяемы: репозиторий умеет только создавать и читать
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория проводок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую проводку.
// Уникальное ограничение на booking_id превращает гонку двух конкурентных
// завершений одного бронирования в ErrDuplicateTransaction - вызывающая
// сторона перечитывает уже завершенное бронирование вместо ошибки.
func (r *Repository) Create(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("transactions").
		Columns(
			"type",
			"source",
			"amount",
			"booking_id",
			"reference_id",
			"note",
			"branch_id",
			"created_by_user_id",
		).
		Values(
			txn.Type,
			txn.Source,
			txn.Amount,
			txn.BookingID,
			txn.ReferenceID,
			txn.Note,
			txn.BranchID,
			txn.CreatedByUserID,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&txn.ID, &createdAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return nil, ErrDuplicateTransaction
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	txn.CreatedAt = createdAt.Time
	return txn, nil
}

// GetByBookingID получает проводку, созданную при завершении бронирования
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Transaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"type",
		"source",
		"amount",
		"booking_id",
		"reference_id",
		"note",
		"branch_id",
		"created_by_user_id",
		"created_at",
	).
		From("transactions").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	var txn domain.Transaction
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&txn.ID,
		&txn.Type,
		&txn.Source,
		&txn.Amount,
		&txn.BookingID,
		&txn.ReferenceID,
		&txn.Note,
		&txn.BranchID,
		&txn.CreatedByUserID,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - scan transaction: %v", ErrScanRow, err)
	}

	txn.CreatedAt = createdAt.Time
	return &txn, nil
}
