package create_stock_movement

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ServiceCenter/internal/api/handlers"
	"github.com/m04kA/SMC-ServiceCenter/internal/api/middleware"
	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	createStockMovement "github.com/m04kA/SMC-ServiceCenter/internal/usecase/create_stock_movement"
)

const (
	msgInvalidPartID      = "некорректный ID запчасти"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingActor       = "отсутствует аутентифицированный пользователь"
	msgPartNotFound       = "запчасть не найдена"
	msgForbidden          = "доступ запрещен"
	msgNegativeStock      = "движение уведет остаток в минус"
	msgDirectionRequired  = "для корректировки требуется направление IN или OUT"
	msgInvalidMovement    = "некорректные данные движения"
)

type Handler struct {
	useCase CreateStockMovementUseCase
	logger  Logger
}

func NewHandler(useCase CreateStockMovementUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/parts/{partId}/movements
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	partID, err := strconv.ParseInt(vars["partId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /parts/{id}/movements - Invalid part ID: %v", err)
		handlers.RespondValidationError(w, msgInvalidPartID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /parts/{id}/movements - Missing actor in context")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req CreateStockMovementRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /parts/{id}/movements - Invalid request body: %v", err)
		handlers.RespondValidationError(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(actor, partID))
	if err != nil {
		switch {
		case errors.Is(err, createStockMovement.ErrPartNotFound):
			h.logger.Warn("POST /parts/{id}/movements - Part not found: part_id=%d", partID)
			handlers.RespondNotFound(w, handlers.CodePartNotFound, msgPartNotFound)

		case errors.Is(err, createStockMovement.ErrForbidden):
			h.logger.Warn("POST /parts/{id}/movements - Access denied: part_id=%d, actor=%d",
				partID, actor.SubjectID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createStockMovement.ErrNegativeStockNotAllowed):
			h.logger.Warn("POST /parts/{id}/movements - Negative stock not allowed: part_id=%d, actor=%d",
				partID, actor.SubjectID)
			handlers.RespondBadRequest(w, handlers.CodeNegativeStockNotAllowed, msgNegativeStock)

		case errors.Is(err, domain.ErrAdjustDirectionRequired):
			h.logger.Warn("POST /parts/{id}/movements - Adjust direction required: part_id=%d", partID)
			handlers.RespondBadRequest(w, handlers.CodeAdjustDirectionRequired, msgDirectionRequired)

		case errors.Is(err, domain.ErrInvalidMovementType),
			errors.Is(err, domain.ErrInvalidQuantity),
			errors.Is(err, createStockMovement.ErrInvalidInput):
			h.logger.Warn("POST /parts/{id}/movements - Invalid input: part_id=%d, error=%v", partID, err)
			handlers.RespondValidationError(w, msgInvalidMovement)

		default:
			h.logger.Error("POST /parts/{id}/movements - Failed to create movement: part_id=%d, error=%v",
				partID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /parts/{id}/movements - Movement created: movement_id=%d, part_id=%d, new_stock=%d",
		result.ID, partID, result.NewStockQty)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
