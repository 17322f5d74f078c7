package complete_booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/booking"
	ledgerRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/ledger"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/auditlog"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/notifier"
	"github.com/m04kA/SMC-ServiceCenter/pkg/ptr"
)

// UseCase представляет usecase завершения бронирования.
// Обновление бронирования и создание финансовой проводки выполняются в одной
// транзакции: либо бронирование завершено и доход учтен, либо ни то ни другое
type UseCase struct {
	bookingRepo  BookingRepository
	ledgerRepo   LedgerRepository
	employeeRepo EmployeeRepository
	customerRepo CustomerRepository
	txManager    TransactionManager
	notify       NotificationSink
	audit        AuditSink
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	ledgerRepo LedgerRepository,
	employeeRepo EmployeeRepository,
	customerRepo CustomerRepository,
	txManager TransactionManager,
	notify NotificationSink,
	audit AuditSink,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		ledgerRepo:   ledgerRepo,
		employeeRepo: employeeRepo,
		customerRepo: customerRepo,
		txManager:    txManager,
		notify:       notify,
		audit:        audit,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case завершения бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CompleteBooking: actor=%d role=%s, booking=%d, finalPrice=%.2f",
		req.Actor.SubjectID, req.Actor.Role, req.BookingID, req.FinalPrice)

	// 1. Валидация входных данных и прав
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CompleteBooking: validation failed: %v", err)
		return nil, err
	}

	var (
		booking *domain.Booking
		txn     *domain.Transaction
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Загружаем бронирование с блокировкой строки
		b, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// 3. Повтор уже завершенного бронирования - успех, а не ошибка.
		// Возвращаем существующую проводку, вторая не создается
		if b.IsCompleted() {
			existing, err := uc.ledgerRepo.GetByBookingID(txCtx, b.ID)
			if err != nil {
				return fmt.Errorf("%w: completed booking id=%d has no ledger transaction: %v", ErrInternal, b.ID, err)
			}
			booking = b
			txn = existing
			return nil
		}

		// 4. Исполнитель должен быть активным сотрудником филиала бронирования
		ok, err := uc.employeeRepo.ExistsActive(txCtx, req.PerformedByEmployeeID, b.BranchID)
		if err != nil {
			return fmt.Errorf("%w: failed to check employee: %v", ErrInternal, err)
		}
		if !ok {
			uc.logger.Warn("CompleteBooking: employee id=%d is not active in branch %s",
				req.PerformedByEmployeeID, b.BranchID)
			return ErrInvalidEmployee
		}

		// 5. Переход состояния + заполнение полей завершения
		if err := b.ApplyTransition(domain.StatusCompleted); err != nil {
			return err
		}
		now := uc.timeProvider.Now()
		b.FinalPrice = ptr.Ptr(req.FinalPrice)
		b.InternalNote = req.InternalNote
		b.PerformedByEmployeeID = ptr.Ptr(req.PerformedByEmployeeID)
		b.CompletedAt = &now

		if err := uc.bookingRepo.UpdateLifecycle(txCtx, b); err != nil {
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		// 6. Финансовая проводка. Уникальность booking_id превращает гонку
		// двух конкурентных завершений в ErrDuplicateTransaction
		created, err := uc.ledgerRepo.Create(txCtx, &domain.Transaction{
			Type:            domain.TransactionIncome,
			Source:          domain.SourceBooking,
			Amount:          req.FinalPrice,
			BookingID:       ptr.Ptr(b.ID),
			BranchID:        b.BranchID,
			CreatedByUserID: req.Actor.SubjectID,
		})
		if err != nil {
			if errors.Is(err, ledgerRepo.ErrDuplicateTransaction) {
				return errConcurrentCompletion
			}
			return fmt.Errorf("%w: failed to create ledger transaction: %v", ErrInternal, err)
		}

		booking = b
		txn = created
		return nil
	})

	if errors.Is(err, errConcurrentCompletion) {
		// Конкурент уже завершил бронирование, а наша транзакция откачена
		// нарушением уникальности. Перечитываем итоговое состояние вне
		// транзакции (внутри откаченной транзакции читать уже нельзя)
		uc.logger.Warn("CompleteBooking: booking id=%d completed concurrently, re-reading", req.BookingID)
		return uc.reReadCompleted(ctx, req.BookingID)
	}
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CompleteBooking: booking id=%d completed, transaction id=%d", booking.ID, txn.ID)

	// 7. Уведомление клиента и аудит - нефатальные побочные эффекты
	uc.notifyCustomer(ctx, booking)
	uc.appendAudit(ctx, req.Actor, booking, txn)

	return toResponse(booking, txn), nil
}

// reReadCompleted компенсирующий перечит после проигранной гонки завершения
func (uc *UseCase) reReadCompleted(ctx context.Context, bookingID int64) (*Response, error) {
	b, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to re-read booking id=%d: %v", ErrInternal, bookingID, err)
	}
	if !b.IsCompleted() {
		return nil, fmt.Errorf("%w: booking id=%d has a ledger transaction but is not completed", ErrInternal, bookingID)
	}

	txn, err := uc.ledgerRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to re-read ledger transaction for booking id=%d: %v", ErrInternal, bookingID, err)
	}

	return toResponse(b, txn), nil
}

func (uc *UseCase) notifyCustomer(ctx context.Context, booking *domain.Booking) {
	cust, err := uc.customerRepo.GetActiveByID(ctx, booking.CustomerID)
	if err != nil || cust.UserID == nil {
		return
	}

	err = uc.notify.Send(ctx, notifier.Notification{
		UserID:  *cust.UserID,
		Title:   "Запись завершена",
		Message: fmt.Sprintf("Работы по записи %s выполнены", booking.ServiceName),
		Type:    notifier.TypeBookingCompleted,
		Metadata: map[string]string{
			"bookingId": strconv.FormatInt(booking.ID, 10),
		},
	})
	if err != nil {
		uc.logger.Error("CompleteBooking: notification failed for booking id=%d: %v", booking.ID, err)
	}
}

func (uc *UseCase) appendAudit(ctx context.Context, actor domain.Actor, booking *domain.Booking, txn *domain.Transaction) {
	err := uc.audit.Append(ctx, auditlog.Entry{
		Action:   "BOOKING_COMPLETED",
		Entity:   "booking",
		EntityID: strconv.FormatInt(booking.ID, 10),
		ActorID:  actor.SubjectID,
		Payload: map[string]string{
			"branchId":      booking.BranchID,
			"transactionId": strconv.FormatInt(txn.ID, 10),
			"amount":        strconv.FormatFloat(txn.Amount, 'f', 2, 64),
		},
	})
	if err != nil {
		uc.logger.Error("CompleteBooking: audit append failed for booking id=%d: %v", booking.ID, err)
	}
}
