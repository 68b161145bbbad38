package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/drills"
	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/pose"
)

// Manager управляет сессиями оценки (Application Layer)
type Manager struct {
	cache      CacheStore
	repository Repository
	ttlSeconds int

	mu             sync.RWMutex
	activeSessions map[string]*Session    // Кэш активных сессий в памяти
	aggregators    map[string]*Aggregator // Агрегаторы активных сессий
}

// NewManager создает новый менеджер сессий.
// ttlSeconds - время жизни данных сохраненной сессии в кэше, 0 - бессрочно.
func NewManager(cache CacheStore, repository Repository, ttlSeconds int) *Manager {
	return &Manager{
		cache:          cache,
		repository:     repository,
		ttlSeconds:     ttlSeconds,
		activeSessions: make(map[string]*Session),
		aggregators:    make(map[string]*Aggregator),
	}
}

// CreateSession создает новую сессию оценки указанного дрилла
func (m *Manager) CreateSession(ctx context.Context, req *CreateSessionRequest) (*Session, error) {
	drill, err := drills.ParseDrill(req.Drill)
	if err != nil {
		return nil, err
	}

	aggregator, err := NewAggregator(drill)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.New().String()

	session := &Session{
		ID:        sessionID,
		Drill:     drill,
		Status:    SessionStatusActive,
		StartedAt: time.Now(),
		Metadata: Metadata{
			CadetID:      req.CadetID,
			InstructorID: req.InstructorID,
			UnitID:       req.UnitID,
			Notes:        req.Notes,
			CustomData:   req.CustomData,
			CreatedFrom:  req.CreatedFrom,
		},
	}

	// Сохраняем в Redis
	if err := m.cache.SetSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session to cache: %w", err)
	}

	// Добавляем в активные сессии
	m.mu.Lock()
	m.activeSessions[sessionID] = session
	m.aggregators[sessionID] = aggregator
	m.mu.Unlock()

	log.Printf("[SESSION] Created new session: %s (drill: %s)", sessionID, drill)
	return session, nil
}

// GetSession получает сессию по ID
func (m *Manager) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	// Сначала проверяем в памяти
	m.mu.RLock()
	if session, ok := m.activeSessions[sessionID]; ok {
		m.mu.RUnlock()
		return session, nil
	}
	m.mu.RUnlock()

	// Проверяем в Redis
	session, err := m.cache.GetSession(ctx, sessionID)
	if err == nil {
		return session, nil
	}

	// Проверяем в PostgreSQL
	return m.repository.GetSession(ctx, sessionID)
}

// ProcessFrame оценивает очередной кадр активной сессии и обновляет
// ее агрегированное состояние в кэше
func (m *Manager) ProcessFrame(ctx context.Context, sessionID string, raw pose.RawFrame) (drills.FrameEvaluation, error) {
	aggregator, session, err := m.getAggregator(ctx, sessionID)
	if err != nil {
		return drills.FrameEvaluation{}, err
	}

	if session.Status != SessionStatusActive {
		return drills.FrameEvaluation{}, fmt.Errorf("session is not active: %s", session.Status)
	}

	eval := aggregator.Feed(raw)
	session.TotalFrames++

	// Состояние пишется после каждого кадра, чтобы сессию можно было
	// восстановить после рестарта сервиса
	if err := m.cache.SetState(ctx, sessionID, aggregator.Snapshot()); err != nil {
		log.Printf("[WARN] Failed to persist aggregation state: %v", err)
	}
	if err := m.cache.SetSession(ctx, session); err != nil {
		log.Printf("[WARN] Failed to update session: %v", err)
	}

	return eval, nil
}

// FinalizeSession завершает прием кадров и фиксирует итог сессии
func (m *Manager) FinalizeSession(ctx context.Context, sessionID string) (*Result, error) {
	aggregator, session, err := m.getAggregator(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status != SessionStatusActive {
		return nil, fmt.Errorf("session is not active: %s", session.Status)
	}

	result := aggregator.Result(sessionID)

	now := time.Now()
	session.Status = SessionStatusFinalized
	session.FinalizedAt = &now

	if err := m.cache.SetResult(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to save result to cache: %w", err)
	}
	if err := m.cache.SetSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session in cache: %w", err)
	}

	// Удаляем из активных сессий
	m.mu.Lock()
	delete(m.activeSessions, sessionID)
	delete(m.aggregators, sessionID)
	m.mu.Unlock()

	log.Printf("[SESSION] Finalized session: %s (passed: %t, frames: %d/%d valid)",
		sessionID, result.Passed, result.ValidFrames, result.TotalFrames)
	return result, nil
}

// SaveSession сохраняет финализированную сессию в PostgreSQL
func (m *Manager) SaveSession(ctx context.Context, sessionID string, notes string) error {
	// Получаем все данные из Redis
	sessionData, err := m.cache.GetSessionData(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session data from cache: %w", err)
	}

	if sessionData.Session.Status != SessionStatusFinalized {
		return fmt.Errorf("session is not finalized: %s", sessionData.Session.Status)
	}

	// Обновляем метаданные
	if notes != "" {
		sessionData.Session.Metadata.Notes = notes
	}

	now := time.Now()
	sessionData.Session.Status = SessionStatusSaved
	sessionData.Session.SavedAt = &now

	// Сохраняем в PostgreSQL
	if err := m.repository.SaveSessionData(ctx, sessionData); err != nil {
		return fmt.Errorf("failed to save session to database: %w", err)
	}

	// Обновляем статус в Redis
	if err := m.cache.SetSession(ctx, sessionData.Session); err != nil {
		log.Printf("[WARN] Failed to update session status in cache: %v", err)
	}

	// Данные уже в БД, копии в Redis оставляем дожить свой TTL
	if m.ttlSeconds > 0 {
		if err := m.cache.SetSessionTTL(ctx, sessionID, m.ttlSeconds); err != nil {
			log.Printf("[WARN] Failed to set session TTL in cache: %v", err)
		}
	}

	log.Printf("[SESSION] Saved session to database: %s", sessionID)
	return nil
}

// GetResult получает итог сессии: сначала из кэша, затем из БД
func (m *Manager) GetResult(ctx context.Context, sessionID string) (*Result, error) {
	result, err := m.cache.GetResult(ctx, sessionID)
	if err == nil {
		return result, nil
	}

	return m.repository.GetResult(ctx, sessionID)
}

// GetSessionData получает все данные сессии
func (m *Manager) GetSessionData(ctx context.Context, sessionID string) (*SessionData, error) {
	return m.cache.GetSessionData(ctx, sessionID)
}

// ListSessions возвращает список сессий
func (m *Manager) ListSessions(ctx context.Context, limit, offset int) ([]*Session, error) {
	return m.repository.ListSessions(ctx, limit, offset)
}

// DeleteSession удаляет сессию
func (m *Manager) DeleteSession(ctx context.Context, sessionID string) error {
	// Удаляем из памяти
	m.mu.Lock()
	delete(m.activeSessions, sessionID)
	delete(m.aggregators, sessionID)
	m.mu.Unlock()

	// Удаляем из Redis
	if err := m.cache.DeleteSession(ctx, sessionID); err != nil {
		log.Printf("[WARN] Failed to delete session from cache: %v", err)
	}

	// Удаляем из PostgreSQL
	if err := m.repository.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session from database: %w", err)
	}

	log.Printf("[SESSION] Deleted session: %s", sessionID)
	return nil
}

// SessionExists проверяет, известна ли сессия: в памяти или в кэше
func (m *Manager) SessionExists(ctx context.Context, sessionID string) bool {
	m.mu.RLock()
	_, inMemory := m.activeSessions[sessionID]
	m.mu.RUnlock()
	if inMemory {
		return true
	}

	exists, err := m.cache.SessionExists(ctx, sessionID)
	return err == nil && exists
}

// getAggregator возвращает агрегатор активной сессии, при необходимости
// восстанавливая его из состояния в Redis после рестарта сервиса
func (m *Manager) getAggregator(ctx context.Context, sessionID string) (*Aggregator, *Session, error) {
	// Сначала проверяем в памяти (быстро)
	m.mu.RLock()
	aggregator, haveAggregator := m.aggregators[sessionID]
	session, haveSession := m.activeSessions[sessionID]
	m.mu.RUnlock()

	if haveAggregator && haveSession {
		return aggregator, session, nil
	}

	// Сессия должна существовать в Redis
	session, err := m.cache.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("session not found: %w", err)
	}

	// Восстанавливаем агрегатор из сохраненного состояния
	state, err := m.cache.GetState(ctx, sessionID)
	if err == nil {
		aggregator, err = Restore(state)
	} else {
		aggregator, err = NewAggregator(session.Drill)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to restore aggregator: %w", err)
	}

	log.Printf("[SESSION] Restored session from cache: %s (frames: %d)", sessionID, session.TotalFrames)

	m.mu.Lock()
	m.activeSessions[sessionID] = session
	m.aggregators[sessionID] = aggregator
	m.mu.Unlock()

	return aggregator, session, nil
}
