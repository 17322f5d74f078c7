package slotlock

import "errors"

var (
	// ErrSlotTaken возвращается, когда блокировка на этот ключ слота уже удерживается
	// (нарушение уникального ограничения при конкурентной вставке)
	ErrSlotTaken = errors.New("slotlock.repository: slot lock already held")

	// ErrLockNotFound возвращается, когда блокировка не найдена
	ErrLockNotFound = errors.New("slotlock.repository: lock not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slotlock.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slotlock.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slotlock.repository: failed to scan row")
)
