package domain

import "time"

// Service represents a bookable service offered by the center.
// Catalog management itself lives outside the core; the core only reads
// services to validate bookings and snapshot pricing.
type Service struct {
	ID        int64
	Name      string
	Category  string
	Price     float64
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Customer представляет клиента сервис-центра
type Customer struct {
	ID        int64
	UserID    *int64 // ID субъекта в identity-сервисе, nil для walk-in клиентов без аккаунта
	FullName  string
	Phone     string
	Active    bool
	CreatedAt time.Time
}
