// Package middleware содержит HTTP middleware прокси-сервера панели.
package middleware

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

type contextKey string

const injectedKey contextKey = "authInjected"

// CredentialSource возвращает значение заголовка Authorization или пустую строку.
// *session.Session удовлетворяет интерфейсу.
type CredentialSource interface {
	AuthHeader(ctx context.Context) string
}

// AuthMiddleware подставляет сохранённые учётные данные в запросы без заголовка Authorization.
type AuthMiddleware struct {
	source CredentialSource
	logger *zap.Logger
}

// NewAuthMiddleware создаёт AuthMiddleware. При source == nil запросы не изменяются.
func NewAuthMiddleware(source CredentialSource, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{
		source: source,
		logger: logger,
	}
}

// Middleware добавляет заголовок Authorization, если клиент его не передал и есть сохранённая сессия.
// Заголовок клиента всегда имеет приоритет.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.source == nil || r.Header.Get("Authorization") != "" {
			next.ServeHTTP(w, r)
			return
		}

		header := a.source.AuthHeader(r.Context())
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), injectedKey, true)
		r = r.Clone(ctx)
		r.Header.Set("Authorization", header)
		a.logger.Debug("authorization injected", zap.String("path", r.URL.Path))

		next.ServeHTTP(w, r)
	})
}

// InjectedFromContext сообщает, были ли учётные данные подставлены прокси.
func InjectedFromContext(ctx context.Context) bool {
	v, _ := ctx.Value(injectedKey).(bool)
	return v
}
