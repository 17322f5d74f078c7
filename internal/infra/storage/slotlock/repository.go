package slotlock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	"github.com/m04kA/SMC-ServiceCenter/pkg/dbmetrics"
	"github.com/m04kA/SMC-ServiceCenter/pkg/psqlbuilder"
)

// Код ошибки PostgreSQL при нарушении уникального ограничения
const pqUniqueViolation = "23505"

// Repository репозиторий для работы с блокировками слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create вставляет новую блокировку слота.
// Уникальность на (branch_id, slot_date, slot_time) обеспечивается БД:
// при конкурентной вставке на тот же ключ проигравшая транзакция
// получает нарушение уникального ограничения и ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, lock *domain.SlotLock) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_locks").
		Columns(
			"id",
			"branch_id",
			"slot_date",
			"slot_time",
			"locked_by_user_id",
			"appointment_at",
			"expires_at",
		).
		Values(
			lock.ID,
			lock.BranchID,
			lock.SlotDate,
			lock.SlotTime,
			lock.LockedByUserID,
			lock.AppointmentAt,
			lock.ExpiresAt,
		).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return ErrSlotTaken
		}
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	lock.CreatedAt = createdAt.Time
	return nil
}

// DeleteExpired удаляет все блокировки, у которых истек TTL
// Возвращает количество собранных блокировок
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slot_locks").
		Where(squirrel.LtOrEq{"expires_at": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - execute delete: %v", ErrExecQuery, err)
	}

	reaped, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - get rows affected: %v", ErrExecQuery, err)
	}

	return reaped, nil
}

// Delete удаляет блокировку по ID
// Идемпотентна: удаление уже отсутствующей блокировки не является ошибкой
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slot_locks").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает блокировку по ID
// Внутри транзакции добавляет FOR UPDATE - используется для ревалидации
// владения блокировкой перед финальной вставкой бронирования
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.SlotLock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"branch_id",
		"slot_date",
		"slot_time",
		"locked_by_user_id",
		"appointment_at",
		"expires_at",
		"created_at",
	).
		From("slot_locks").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var lock domain.SlotLock
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&lock.ID,
		&lock.BranchID,
		&lock.SlotDate,
		&lock.SlotTime,
		&lock.LockedByUserID,
		&lock.AppointmentAt,
		&lock.ExpiresAt,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrLockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan lock: %v", ErrScanRow, err)
	}

	lock.CreatedAt = createdAt.Time
	return &lock, nil
}
