package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	catalogRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/catalog"
	customerRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/customer"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/auditlog"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/notifier"
	slotlockSvc "github.com/m04kA/SMC-ServiceCenter/internal/service/slotlock"
)

// UseCase use case создания бронирования.
// Оркестрирует захват блокировки слота, вставку бронирования со снапшотом
// услуги и побочные эффекты. Блокировка гарантированно снимается на любом
// пути выхода - успешном или ошибочном.
type UseCase struct {
	bookingRepo  BookingRepository
	catalog      ServiceCatalog
	customerRepo CustomerRepository
	slotLocks    SlotLockManager
	txManager    TransactionManager
	notify       NotificationSink
	audit        AuditSink
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalog ServiceCatalog,
	customerRepo CustomerRepository,
	slotLocks SlotLockManager,
	txManager TransactionManager,
	notify NotificationSink,
	audit AuditSink,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalog:      catalog,
		customerRepo: customerRepo,
		slotLocks:    slotLocks,
		txManager:    txManager,
		notify:       notify,
		audit:        audit,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: actor=%d role=%s, service=%d, branch=%s, at=%s",
		req.Actor.SubjectID, req.Actor.Role, req.ServiceID, req.BranchID, req.AppointmentAt)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Услуга должна существовать и быть активной
	service, err := uc.catalog.GetActiveByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 3. Walk-in (персонал от имени клиента) или self-service - по роли актора
	cust, initialStatus, err := uc.resolveCustomer(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Канонический ключ слота
	key, err := domain.ResolveSlotKey(req.BranchID, req.AppointmentAt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 5. Захватываем блокировку слота
	lock, err := uc.slotLocks.Acquire(ctx, req.BranchID, req.AppointmentAt, req.Actor.SubjectID)
	if err != nil {
		switch {
		case errors.Is(err, slotlockSvc.ErrSlotAlreadyBooked):
			return nil, ErrSlotAlreadyBooked
		case errors.Is(err, slotlockSvc.ErrSlotLocked):
			return nil, ErrSlotLocked
		case errors.Is(err, slotlockSvc.ErrInvalidInput):
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		default:
			uc.logger.Error("CreateBooking: failed to acquire slot lock: %v", err)
			return nil, fmt.Errorf("%w: failed to acquire slot lock: %v", ErrInternal, err)
		}
	}

	// Блокировка снимается на всех путях выхода. Неудавшаяся попытка не
	// должна держать слот занятым дольше необходимого, а TTL - лишь
	// страховка на случай падения процесса
	defer func() {
		if err := uc.slotLocks.Release(ctx, lock.ID); err != nil {
			uc.logger.Error("CreateBooking: failed to release lock id=%s: %v", lock.ID, err)
		}
	}()

	// 6. Вставляем бронирование со снапшотом услуги
	booking := &domain.Booking{
		CustomerID:      cust.ID,
		ServiceID:       service.ID,
		BranchID:        key.BranchID,
		AppointmentAt:   req.AppointmentAt.UTC(),
		SlotDate:        key.Date,
		SlotTime:        key.Time,
		Status:          initialStatus,
		ServiceName:     service.Name,
		ServiceCategory: service.Category,
		ServicePrice:    service.Price,
		CreatedByUserID: req.Actor.SubjectID,
	}

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Ревалидация владения блокировкой перед финальной вставкой:
		// очень медленный запрос, чья блокировка истекла и была собрана
		// конкурентом, не должен вставлять бронирование поверх чужого
		if err := uc.slotLocks.Revalidate(txCtx, lock.ID, req.Actor.SubjectID); err != nil {
			if errors.Is(err, slotlockSvc.ErrLockLost) {
				uc.logger.Warn("CreateBooking: lock id=%s lost before insert", lock.ID)
				return ErrSlotLocked
			}
			return fmt.Errorf("%w: failed to revalidate lock: %v", ErrInternal, err)
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		booking = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: booking id=%d created at slot %s, status=%s",
		booking.ID, key, booking.Status)

	// 7. Уведомление клиента - нефатальный побочный эффект
	uc.notifyCustomer(ctx, booking, cust)

	// 8. Аудит - нефатальный побочный эффект
	uc.appendAudit(ctx, req.Actor, booking)

	return toResponse(booking), nil
}

// resolveCustomer определяет клиента и начальный статус бронирования.
// Walk-in бронирования сразу входят в APPROVED: персонал создает их на
// месте и шаг подтверждения не нужен
func (uc *UseCase) resolveCustomer(ctx context.Context, req *Request) (*domain.Customer, domain.BookingStatus, error) {
	if req.Actor.Role.IsStaff() {
		if req.CustomerID == nil || *req.CustomerID <= 0 {
			uc.logger.Warn("CreateBooking: walk-in without customer id, actor=%d", req.Actor.SubjectID)
			return nil, "", ErrCustomerIDRequired
		}
		cust, err := uc.customerRepo.GetActiveByID(ctx, *req.CustomerID)
		if err != nil {
			if errors.Is(err, customerRepo.ErrCustomerNotFound) {
				uc.logger.Warn("CreateBooking: customer id=%d not found", *req.CustomerID)
				return nil, "", ErrCustomerNotFound
			}
			return nil, "", fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
		}
		return cust, domain.StatusApproved, nil
	}

	cust, err := uc.customerRepo.GetActiveByUserID(ctx, req.Actor.SubjectID)
	if err != nil {
		if errors.Is(err, customerRepo.ErrCustomerNotFound) {
			uc.logger.Warn("CreateBooking: no customer for user=%d", req.Actor.SubjectID)
			return nil, "", ErrCustomerNotFound
		}
		return nil, "", fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
	}
	return cust, domain.StatusPending, nil
}

func (uc *UseCase) notifyCustomer(ctx context.Context, booking *domain.Booking, cust *domain.Customer) {
	if cust.UserID == nil {
		return
	}

	err := uc.notify.Send(ctx, notifier.Notification{
		UserID:  *cust.UserID,
		Title:   "Запись создана",
		Message: fmt.Sprintf("Ваша запись на %s %s создана (%s)", booking.SlotDate, booking.SlotTime, booking.ServiceName),
		Type:    notifier.TypeBookingCreated,
		Metadata: map[string]string{
			"bookingId": strconv.FormatInt(booking.ID, 10),
		},
	})
	if err != nil {
		// Уведомление нефатально: бронирование уже создано
		uc.logger.Error("CreateBooking: notification failed for booking id=%d: %v", booking.ID, err)
	}
}

func (uc *UseCase) appendAudit(ctx context.Context, actor domain.Actor, booking *domain.Booking) {
	err := uc.audit.Append(ctx, auditlog.Entry{
		Action:   "BOOKING_CREATED",
		Entity:   "booking",
		EntityID: strconv.FormatInt(booking.ID, 10),
		ActorID:  actor.SubjectID,
		Payload: map[string]string{
			"branchId": booking.BranchID,
			"slotDate": booking.SlotDate,
			"slotTime": booking.SlotTime.String(),
			"status":   string(booking.Status),
		},
	})
	if err != nil {
		uc.logger.Error("CreateBooking: audit append failed for booking id=%d: %v", booking.ID, err)
	}
}
