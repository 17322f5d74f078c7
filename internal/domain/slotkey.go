package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ServiceCenter/pkg/types"
)

// ErrInvalidAppointmentTime возвращается, когда момент записи не задан
var ErrInvalidAppointmentTime = errors.New("domain: invalid appointment time")

// SlotKey идентифицирует один бронируемый слот: филиал + дата + время
type SlotKey struct {
	BranchID string
	Date     string           // YYYY-MM-DD, UTC
	Time     types.TimeString // HH:MM, UTC
}

// String возвращает каноническое представление ключа слота
func (k SlotKey) String() string {
	return fmt.Sprintf("%s/%s %s", k.BranchID, k.Date, k.Time)
}

// ResolveSlotKey выводит канонический ключ слота из момента записи.
// Момент нормализуется к UTC, дата берется с точностью до дня,
// время - до минуты. Чистая функция без побочных эффектов.
func ResolveSlotKey(branchID string, appointmentAt time.Time) (SlotKey, error) {
	if appointmentAt.IsZero() {
		return SlotKey{}, ErrInvalidAppointmentTime
	}

	utc := appointmentAt.UTC()
	return SlotKey{
		BranchID: branchID,
		Date:     utc.Format(DateFormat),
		Time:     types.NewTimeString(utc),
	}, nil
}
