package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-ServiceCenter/internal/api/handlers"
	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	"github.com/m04kA/SMC-ServiceCenter/internal/integrations/identity"
)

type ctxKey string

const actorKey ctxKey = "actor"

// SessionResolver интерфейс identity-сервиса для проверки сессии
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*identity.Session, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth проверяет Bearer токен через identity-сервис и кладет актора в контекст
func Auth(resolver SessionResolver, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				logger.Warn("Auth: missing bearer token, path=%s", r.URL.Path)
				handlers.RespondUnauthorized(w, "отсутствует токен авторизации")
				return
			}

			session, err := resolver.ResolveSession(r.Context(), token)
			if err != nil {
				if errors.Is(err, identity.ErrSessionNotFound) {
					logger.Warn("Auth: session not found, path=%s", r.URL.Path)
					handlers.RespondUnauthorized(w, "сессия не найдена или истекла")
					return
				}
				logger.Error("Auth: failed to resolve session: %v", err)
				handlers.RespondInternalError(w)
				return
			}

			actor := domain.Actor{SubjectID: session.SubjectID, Role: domain.Role(session.Role)}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
		})
	}
}

// GetActor извлекает аутентифицированного актора из контекста запроса
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
