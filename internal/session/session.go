package session

import (
	"context"
	"encoding/base64"

	"go.uber.org/zap"
)

// Session — явно создаваемый объект сессии, который передаётся HTTP-клиенту и кэшу фотографий.
type Session struct {
	store  Store
	logger *zap.Logger
}

// New создаёт сессию поверх хранилища учётных данных.
func New(store Store, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{store: store, logger: logger}
}

// Login сохраняет учётные данные, заменяя предыдущие.
func (s *Session) Login(ctx context.Context, login, password string) error {
	return s.store.Set(ctx, Credentials{Login: login, Password: password})
}

// Logout удаляет учётные данные.
func (s *Session) Logout(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// Credentials возвращает текущие учётные данные. Ошибка чтения хранилища
// логируется и трактуется как отсутствие данных.
func (s *Session) Credentials(ctx context.Context) (Credentials, bool) {
	c, ok, err := s.store.Get(ctx)
	if err != nil {
		s.logger.Warn("read session credentials", zap.Error(err))
		return Credentials{}, false
	}
	return c, ok
}

// AuthHeader возвращает значение заголовка Authorization или пустую строку без учётных данных.
func (s *Session) AuthHeader(ctx context.Context) string {
	c, ok := s.Credentials(ctx)
	if !ok {
		return ""
	}
	return BasicAuth(c)
}

// BasicAuth строит значение заголовка Basic-авторизации.
func BasicAuth(c Credentials) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.Login+":"+c.Password))
}
