package models

import "errors"

// ErrUnknownStatus возвращается при неизвестном строковом статусе
var ErrUnknownStatus = errors.New("bookings.models: unknown booking status")
