package create_stock_movement

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	partRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/part"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/auditlog"
)

// UseCase представляет usecase создания складского движения.
// Проверка остатка и его изменение происходят в одной транзакции с условным
// обновлением - параллельные списания одной запчасти не теряют обновления
type UseCase struct {
	partRepo  PartRepository
	txManager TransactionManager
	audit     AuditSink
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(partRepo PartRepository, txManager TransactionManager, audit AuditSink, logger Logger) *UseCase {
	return &UseCase{
		partRepo:  partRepo,
		txManager: txManager,
		audit:     audit,
		logger:    logger,
	}
}

// Execute выполняет use case создания складского движения
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateStockMovement: actor=%d role=%s, part=%d, type=%s, qty=%d",
		req.Actor.SubjectID, req.Actor.Role, req.PartID, req.Type, req.Quantity)

	// 1. Складом управляет только персонал
	if !req.Actor.Role.IsStaff() {
		uc.logger.Warn("CreateStockMovement: access denied for actor=%d role=%s",
			req.Actor.SubjectID, req.Actor.Role)
		return nil, ErrForbidden
	}
	if req.PartID <= 0 {
		return nil, fmt.Errorf("%w: part id must be positive", ErrInvalidInput)
	}

	// 2. Знаковая дельта движения
	delta, err := domain.ResolveDelta(req.Type, req.Quantity, req.AdjustDirection)
	if err != nil {
		uc.logger.Warn("CreateStockMovement: failed to resolve delta: %v", err)
		return nil, err
	}

	var (
		movement *domain.StockMovement
		newQty   int
		lowStock bool
	)

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3. Загружаем запчасть с блокировкой строки
		p, err := uc.partRepo.GetByID(txCtx, req.PartID)
		if err != nil {
			if errors.Is(err, partRepo.ErrPartNotFound) {
				return ErrPartNotFound
			}
			return fmt.Errorf("%w: failed to get part: %v", ErrInternal, err)
		}

		// 4. Политика неотрицательного остатка
		if !domain.IsChangeAllowed(p.StockQty, delta, req.Actor.Role) {
			uc.logger.Warn("CreateStockMovement: part id=%d stock %d + delta %d would go negative, role=%s",
				p.ID, p.StockQty, delta, req.Actor.Role)
			return ErrNegativeStockNotAllowed
		}

		// 5. Применяем дельту. Привилегированный уход в минус идет
		// безусловным обновлением, остальные - условным: даже если остаток
		// изменился между чтением и записью, в минус уйти не получится
		if domain.ComputeNewQty(p.StockQty, delta) < 0 {
			newQty, err = uc.partRepo.ApplyDelta(txCtx, req.PartID, delta)
		} else {
			newQty, err = uc.partRepo.ApplyDeltaConditional(txCtx, req.PartID, delta)
		}
		if err != nil {
			if errors.Is(err, partRepo.ErrInsufficientStock) {
				return ErrNegativeStockNotAllowed
			}
			return fmt.Errorf("%w: failed to apply stock delta: %v", ErrInternal, err)
		}

		// 6. Неизменяемая запись движения
		movement, err = uc.partRepo.CreateMovement(txCtx, &domain.StockMovement{
			PartID:          req.PartID,
			Type:            req.Type,
			Quantity:        req.Quantity,
			Delta:           delta,
			AdjustDirection: req.AdjustDirection,
			BookingID:       req.BookingID,
			SupplierID:      req.SupplierID,
			InvoiceID:       req.InvoiceID,
			Note:            req.Note,
			CreatedByUserID: req.Actor.SubjectID,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create movement: %v", ErrInternal, err)
		}

		lowStock = newQty <= p.LowStockThreshold
		return nil
	})

	if err != nil {
		return nil, err
	}

	if lowStock {
		uc.logger.Warn("CreateStockMovement: part id=%d is low on stock: %d left", req.PartID, newQty)
	}
	uc.logger.Info("CreateStockMovement: movement id=%d created, part id=%d stock %d",
		movement.ID, req.PartID, newQty)

	// 7. Аудит - нефатальный побочный эффект
	uc.appendAudit(ctx, req.Actor, movement, newQty)

	return toResponse(movement, newQty, lowStock), nil
}

func (uc *UseCase) appendAudit(ctx context.Context, actor domain.Actor, m *domain.StockMovement, newQty int) {
	err := uc.audit.Append(ctx, auditlog.Entry{
		Action:   "STOCK_MOVEMENT_CREATED",
		Entity:   "stock_movement",
		EntityID: strconv.FormatInt(m.ID, 10),
		ActorID:  actor.SubjectID,
		Payload: map[string]string{
			"partId":      strconv.FormatInt(m.PartID, 10),
			"type":        string(m.Type),
			"delta":       strconv.Itoa(m.Delta),
			"newStockQty": strconv.Itoa(newQty),
		},
	})
	if err != nil {
		uc.logger.Error("CreateStockMovement: audit append failed for movement id=%d: %v", m.ID, err)
	}
}
