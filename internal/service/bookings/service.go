package bookings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/booking"
	customerRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/customer"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/auditlog"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/notifier"
	"github.com/m04kA/SMC-ServiceCenter/internal/service/bookings/models"
)

// Окно до начала записи, в котором отмена считается поздней
const lateCancelWindow = 24 * time.Hour

// Service сервис переходов статусов и чтения бронирований.
// Переходы выполняются как атомарные одно-строчные обновления: бронирование
// уже существует и идентифицировано, гонка за слот после создания невозможна,
// поэтому блокировка слота здесь не нужна.
type Service struct {
	bookingRepo  BookingRepository
	customerRepo CustomerRepository
	txManager    TransactionManager
	audit        AuditSink
	notify       NotificationSink
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	customerRepo CustomerRepository,
	txManager TransactionManager,
	audit AuditSink,
	notify NotificationSink,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		customerRepo: customerRepo,
		txManager:    txManager,
		audit:        audit,
		notify:       notify,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Клиент видит только свои бронирования, персонал - любые
func (s *Service) GetByID(ctx context.Context, actor domain.Actor, id int64) (*models.BookingResponse, error) {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.Role.IsStaff() {
		if err := s.checkOwnership(ctx, actor, booking); err != nil {
			s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.SubjectID, id)
			return nil, err
		}
	}

	return models.FromDomainBooking(booking), nil
}

// ListByCustomer получает историю бронирований клиента
// Клиент видит только свою историю
func (s *Service) ListByCustomer(ctx context.Context, actor domain.Actor, customerID int64, status *string) (*models.BookingListResponse, error) {
	if !actor.Role.IsStaff() {
		cust, err := s.customerRepo.GetActiveByUserID(ctx, actor.SubjectID)
		if err != nil || cust.ID != customerID {
			s.logger.Warn("ListByCustomer: access denied for user=%d to customer=%d", actor.SubjectID, customerID)
			return nil, ErrAccessDenied
		}
	}

	var domainStatus *domain.BookingStatus
	if status != nil {
		parsed, err := models.ToDomainBookingStatus(*status)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &parsed
	}

	bookings, err := s.bookingRepo.GetByCustomer(ctx, customerID, domainStatus)
	if err != nil {
		s.logger.Error("ListByCustomer: repository error for customer=%d: %v", customerID, err)
		return nil, fmt.Errorf("%w: ListByCustomer - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// ListByBranch получает бронирования филиала с фильтрацией
// Доступно только персоналу
func (s *Service) ListByBranch(ctx context.Context, actor domain.Actor, filter domain.BranchBookingsFilter) (*models.BookingListResponse, error) {
	if !actor.Role.IsStaff() {
		s.logger.Warn("ListByBranch: access denied for user=%d", actor.SubjectID)
		return nil, ErrAccessDenied
	}

	bookings, err := s.bookingRepo.GetByBranchWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListByBranch: repository error for branch=%s: %v", filter.BranchID, err)
		return nil, fmt.Errorf("%w: ListByBranch - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// Approve подтверждает ожидающее бронирование
// Доступно только персоналу
func (s *Service) Approve(ctx context.Context, actor domain.Actor, id int64) (*models.BookingResponse, error) {
	if !actor.Role.IsStaff() {
		return nil, ErrAccessDenied
	}

	booking, err := s.transition(ctx, actor, id, domain.StatusApproved, nil)
	if err != nil {
		return nil, err
	}

	s.notifyCustomer(ctx, booking, notifier.TypeBookingApproved,
		"Запись подтверждена", fmt.Sprintf("Ваша запись на %s %s подтверждена", booking.SlotDate, booking.SlotTime))
	return models.FromDomainBooking(booking), nil
}

// Reject отклоняет бронирование с указанием причины
// Доступно только персоналу
func (s *Service) Reject(ctx context.Context, actor domain.Actor, id int64, reason string) (*models.BookingResponse, error) {
	if !actor.Role.IsStaff() {
		return nil, ErrAccessDenied
	}
	if reason == "" || len(reason) > domain.MaxReasonLength {
		return nil, fmt.Errorf("%w: reject reason is required and must not exceed %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	booking, err := s.transition(ctx, actor, id, domain.StatusRejected, func(b *domain.Booking) {
		b.RejectReason = &reason
	})
	if err != nil {
		return nil, err
	}

	s.notifyCustomer(ctx, booking, notifier.TypeBookingRejected,
		"Запись отклонена", fmt.Sprintf("Ваша запись на %s %s отклонена: %s", booking.SlotDate, booking.SlotTime, reason))
	return models.FromDomainBooking(booking), nil
}

// Cancel отменяет бронирование
// Клиент может отменить только свое бронирование, персонал - любое.
// Отмена ближе чем за lateCancelWindow до начала записи помечается
// как LATE_CANCELLED
func (s *Service) Cancel(ctx context.Context, actor domain.Actor, id int64, reason string) (*models.BookingResponse, error) {
	if reason == "" || len(reason) > domain.MaxReasonLength {
		return nil, fmt.Errorf("%w: cancel reason is required and must not exceed %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	current, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.Role.IsStaff() {
		if err := s.checkOwnership(ctx, actor, current); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", actor.SubjectID, id)
			return nil, err
		}
	}

	target := domain.StatusCancelled
	if s.timeProvider.Now().Add(lateCancelWindow).After(current.AppointmentAt) {
		target = domain.StatusLateCancelled
	}

	booking, err := s.transition(ctx, actor, id, target, func(b *domain.Booking) {
		b.CancelReason = &reason
	})
	if err != nil {
		return nil, err
	}

	s.notifyCustomer(ctx, booking, notifier.TypeBookingCancelled,
		"Запись отменена", fmt.Sprintf("Запись на %s %s отменена", booking.SlotDate, booking.SlotTime))
	return models.FromDomainBooking(booking), nil
}

// MarkNoShow помечает неявку клиента
// Доступно только персоналу
func (s *Service) MarkNoShow(ctx context.Context, actor domain.Actor, id int64) (*models.BookingResponse, error) {
	if !actor.Role.IsStaff() {
		return nil, ErrAccessDenied
	}

	booking, err := s.transition(ctx, actor, id, domain.StatusNoShow, nil)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(booking), nil
}

// MarkNotServed помечает бронирование как необслуженное
// Доступно только персоналу
func (s *Service) MarkNotServed(ctx context.Context, actor domain.Actor, id int64) (*models.BookingResponse, error) {
	if !actor.Role.IsStaff() {
		return nil, ErrAccessDenied
	}

	booking, err := s.transition(ctx, actor, id, domain.StatusNotServed, nil)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(booking), nil
}

// transition выполняет переход статуса атомарно: чтение с блокировкой строки,
// проверка перехода и запись новых полей жизненного цикла в одной транзакции
func (s *Service) transition(ctx context.Context, actor domain.Actor, id int64, to domain.BookingStatus, mutate func(*domain.Booking)) (*domain.Booking, error) {
	var result *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.loadBooking(txCtx, id)
		if err != nil {
			return err
		}

		from := booking.Status
		if err := booking.ApplyTransition(to); err != nil {
			s.logger.Warn("transition: booking id=%d: %v", id, err)
			return err
		}

		if mutate != nil {
			mutate(booking)
		}

		if err := s.bookingRepo.UpdateLifecycle(txCtx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("transition: failed to persist booking id=%d: %v", id, err)
			return fmt.Errorf("%w: transition - persist: %v", ErrInternal, err)
		}

		s.logger.Info("transition: booking id=%d %s -> %s by user=%d", id, from, to, actor.SubjectID)
		result = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.appendAudit(ctx, actor, result, string(result.Status))
	return result, nil
}

func (s *Service) loadBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("loadBooking: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: loadBooking - repository error: %v", ErrInternal, err)
	}
	return booking, nil
}

// checkOwnership проверяет, что бронирование принадлежит клиенту,
// привязанному к субъекту actor
func (s *Service) checkOwnership(ctx context.Context, actor domain.Actor, booking *domain.Booking) error {
	cust, err := s.customerRepo.GetActiveByUserID(ctx, actor.SubjectID)
	if err != nil {
		if errors.Is(err, customerRepo.ErrCustomerNotFound) {
			return ErrAccessDenied
		}
		return fmt.Errorf("%w: checkOwnership - repository error: %v", ErrInternal, err)
	}
	if cust.ID != booking.CustomerID {
		return ErrAccessDenied
	}
	return nil
}

// appendAudit пишет запись в аудит-лог; ошибка нефатальна
func (s *Service) appendAudit(ctx context.Context, actor domain.Actor, booking *domain.Booking, action string) {
	err := s.audit.Append(ctx, auditlog.Entry{
		Action:   "BOOKING_" + action,
		Entity:   "booking",
		EntityID: strconv.FormatInt(booking.ID, 10),
		ActorID:  actor.SubjectID,
		Payload:  map[string]string{"status": string(booking.Status)},
	})
	if err != nil {
		s.logger.Error("appendAudit: failed for booking id=%d: %v", booking.ID, err)
	}
}

// notifyCustomer отправляет уведомление клиенту; ошибка нефатальна
func (s *Service) notifyCustomer(ctx context.Context, booking *domain.Booking, notifType, title, message string) {
	cust, err := s.customerRepo.GetActiveByID(ctx, booking.CustomerID)
	if err != nil || cust.UserID == nil {
		return
	}

	err = s.notify.Send(ctx, notifier.Notification{
		UserID:  *cust.UserID,
		Title:   title,
		Message: message,
		Type:    notifType,
		Metadata: map[string]string{
			"bookingId": strconv.FormatInt(booking.ID, 10),
		},
	})
	if err != nil {
		s.logger.Error("notifyCustomer: failed for booking id=%d: %v", booking.ID, err)
	}
}
