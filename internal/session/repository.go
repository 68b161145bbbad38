package session

import (
	"context"
)

// Repository определяет интерфейс постоянного хранилища сессий (Domain Layer)
type Repository interface {
	// Управление сессиями
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	UpdateSession(ctx context.Context, session *Session) error
	ListSessions(ctx context.Context, limit, offset int) ([]*Session, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Итоги сессий
	SaveResult(ctx context.Context, result *Result) error
	GetResult(ctx context.Context, sessionID string) (*Result, error)

	// Сохранение полных данных сессии
	SaveSessionData(ctx context.Context, data *SessionData) error
}

// CacheStore определяет интерфейс горячего хранилища активных сессий (Redis)
type CacheStore interface {
	// Управление сессиями в кэше
	SetSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Состояние агрегации (перезаписывается целиком после каждого кадра)
	SetState(ctx context.Context, sessionID string, state *State) error
	GetState(ctx context.Context, sessionID string) (*State, error)

	// Итог сессии после финализации
	SetResult(ctx context.Context, result *Result) error
	GetResult(ctx context.Context, sessionID string) (*Result, error)

	// Получение всех данных сессии
	GetSessionData(ctx context.Context, sessionID string) (*SessionData, error)

	// Утилиты
	SessionExists(ctx context.Context, sessionID string) (bool, error)
	SetSessionTTL(ctx context.Context, sessionID string, ttl int) error
}
