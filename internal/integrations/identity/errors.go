package identity

import "errors"

var (
	// ErrSessionNotFound возвращается, когда токен сессии не распознан
	ErrSessionNotFound = errors.New("identity client: session not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("identity client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("identity client: invalid response")
)
