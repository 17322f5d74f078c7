package ledger

import (
	"context"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/auditlog"
)

// WalkinIncomeInput входные данные для ручной доходной проводки
type WalkinIncomeInput struct {
	Amount   float64
	BranchID string
	Note     *string
}

// Service сервис финансовых проводок, не связанных с бронированиями.
// Доход от завершения бронирования создает usecase complete_booking,
// здесь только ручные проводки персонала
type Service struct {
	repo   LedgerRepository
	audit  AuditSink
	logger Logger
}

// NewService создает новый экземпляр сервиса проводок
func NewService(repo LedgerRepository, audit AuditSink, logger Logger) *Service {
	return &Service{
		repo:   repo,
		audit:  audit,
		logger: logger,
	}
}

// CreateWalkinIncome создает доходную проводку за услугу без бронирования
// (клиент пришел и оплатил на месте)
func (s *Service) CreateWalkinIncome(ctx context.Context, actor domain.Actor, input WalkinIncomeInput) (*domain.Transaction, error) {
	if !actor.Role.IsStaff() {
		s.logger.Warn("CreateWalkinIncome: access denied for actor=%d role=%s", actor.SubjectID, actor.Role)
		return nil, ErrAccessDenied
	}
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if input.BranchID == "" {
		return nil, fmt.Errorf("%w: branch id is required", ErrInvalidInput)
	}
	if input.Note != nil && len(*input.Note) > domain.MaxReasonLength {
		return nil, fmt.Errorf("%w: note is too long", ErrInvalidInput)
	}

	txn, err := s.repo.Create(ctx, &domain.Transaction{
		Type:            domain.TransactionIncome,
		Source:          domain.SourceWalkIn,
		Amount:          input.Amount,
		Note:            input.Note,
		BranchID:        input.BranchID,
		CreatedByUserID: actor.SubjectID,
	})
	if err != nil {
		s.logger.Error("CreateWalkinIncome: failed to create transaction: %v", err)
		return nil, fmt.Errorf("%w: failed to create transaction: %v", ErrInternal, err)
	}

	s.logger.Info("CreateWalkinIncome: transaction id=%d created, branch=%s, amount=%.2f",
		txn.ID, txn.BranchID, txn.Amount)

	s.appendAudit(ctx, actor, txn)

	return txn, nil
}

func (s *Service) appendAudit(ctx context.Context, actor domain.Actor, txn *domain.Transaction) {
	err := s.audit.Append(ctx, auditlog.Entry{
		Action:   "WALKIN_INCOME_CREATED",
		Entity:   "transaction",
		EntityID: strconv.FormatInt(txn.ID, 10),
		ActorID:  actor.SubjectID,
		Payload: map[string]string{
			"branchId": txn.BranchID,
			"amount":   strconv.FormatFloat(txn.Amount, 'f', 2, 64),
		},
	})
	if err != nil {
		s.logger.Error("CreateWalkinIncome: audit append failed for transaction id=%d: %v", txn.ID, err)
	}
}
