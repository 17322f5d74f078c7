package handlers

import (
	"encoding/json"
	"net/http"
)

// Коды ошибок API
const (
	CodeValidationError         = "VALIDATION_ERROR"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeForbidden               = "FORBIDDEN"
	CodeInternalError           = "INTERNAL_ERROR"
	CodeBookingNotFound         = "BOOKING_NOT_FOUND"
	CodeServiceNotFound         = "SERVICE_NOT_FOUND"
	CodeCustomerNotFound        = "CUSTOMER_NOT_FOUND"
	CodeCustomerIDRequired      = "CUSTOMER_ID_REQUIRED"
	CodeSlotAlreadyBooked       = "SLOT_ALREADY_BOOKED"
	CodeSlotLocked              = "SLOT_LOCKED"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeInvalidEmployee         = "INVALID_EMPLOYEE"
	CodePartNotFound            = "PART_NOT_FOUND"
	CodeNegativeStockNotAllowed = "NEGATIVE_STOCK_NOT_ALLOWED"
	CodeAdjustDirectionRequired = "ADJUST_DIRECTION_REQUIRED"
)

// SuccessResponse единый конверт успешного ответа
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// ErrorResponse единый конверт ответа с ошибкой
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// ErrorBody тело ошибки в конверте
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// DecodeJSON декодирует тело запроса в указанную структуру
func DecodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// RespondJSON отправляет успешный ответ в едином конверте
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(SuccessResponse{Success: true, Data: data})
}

// RespondError отправляет ответ с ошибкой в едином конверте
func RespondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error:   ErrorBody{Code: code, Message: message},
	})
}

// RespondBadRequest отправляет 400 с указанным кодом ошибки
func RespondBadRequest(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusBadRequest, code, message)
}

// RespondValidationError отправляет 400 с кодом VALIDATION_ERROR
func RespondValidationError(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, CodeValidationError, message)
}

// RespondUnauthorized отправляет 401 с кодом UNAUTHORIZED
func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

// RespondForbidden отправляет 403 с кодом FORBIDDEN
func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, CodeForbidden, message)
}

// RespondNotFound отправляет 404 с указанным кодом ошибки
func RespondNotFound(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusNotFound, code, message)
}

// RespondConflict отправляет 409 с указанным кодом ошибки
func RespondConflict(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusConflict, code, message)
}

// RespondInternalError отправляет 500 с кодом INTERNAL_ERROR
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, CodeInternalError, "внутренняя ошибка сервера")
}
