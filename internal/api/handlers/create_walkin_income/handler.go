package create_walkin_income

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ServiceCenter/internal/api/handlers"
	"github.com/m04kA/SMC-ServiceCenter/internal/api/middleware"
	ledgerSvc "github.com/m04kA/SMC-ServiceCenter/internal/service/ledger"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingActor       = "отсутствует аутентифицированный пользователь"
	msgForbidden          = "доступ запрещен"
	msgInvalidInput       = "некорректные данные проводки"
)

type Handler struct {
	service LedgerService
	logger  Logger
}

func NewHandler(service LedgerService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/transactions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /transactions - Missing actor in context")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req CreateWalkinIncomeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /transactions - Invalid request body: %v", err)
		handlers.RespondValidationError(w, msgInvalidRequestBody)
		return
	}

	txn, err := h.service.CreateWalkinIncome(r.Context(), actor, ledgerSvc.WalkinIncomeInput{
		Amount:   req.Amount,
		BranchID: req.BranchID,
		Note:     req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, ledgerSvc.ErrAccessDenied):
			h.logger.Warn("POST /transactions - Access denied: actor=%d", actor.SubjectID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, ledgerSvc.ErrInvalidInput):
			h.logger.Warn("POST /transactions - Invalid input: %v", err)
			handlers.RespondValidationError(w, msgInvalidInput)

		default:
			h.logger.Error("POST /transactions - Failed to create transaction: actor=%d, error=%v",
				actor.SubjectID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /transactions - Walk-in income created: transaction_id=%d, actor=%d, amount=%.2f",
		txn.ID, actor.SubjectID, txn.Amount)
	handlers.RespondJSON(w, http.StatusCreated, FromDomainTransaction(txn))
}
