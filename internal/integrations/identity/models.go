package identity

// Session результат проверки сессии в identity-сервисе
type Session struct {
	SubjectID int64  `json:"subjectId"`
	Role      string `json:"role"`
}
