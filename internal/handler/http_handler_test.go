package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/pose"
	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/report"
	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/session"
)

// memCache - CacheStore в памяти для тестов
type memCache struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
	states   map[string]*session.State
	results  map[string]*session.Result
}

func newMemCache() *memCache {
	return &memCache{
		sessions: make(map[string]*session.Session),
		states:   make(map[string]*session.State),
		results:  make(map[string]*session.Result),
	}
}

func (c *memCache) SetSession(ctx context.Context, s *session.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[s.ID] = s
	return nil
}

func (c *memCache) GetSession(ctx context.Context, id string) (*session.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return s, nil
}

func (c *memCache) DeleteSession(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
	delete(c.states, id)
	delete(c.results, id)
	return nil
}

func (c *memCache) SetState(ctx context.Context, id string, state *session.State) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[id] = state
	return nil
}

func (c *memCache) GetState(ctx context.Context, id string) (*session.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.states[id]
	if !ok {
		return nil, fmt.Errorf("state not found for session: %s", id)
	}
	return state, nil
}

func (c *memCache) SetResult(ctx context.Context, result *session.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[result.SessionID] = result
	return nil
}

func (c *memCache) GetResult(ctx context.Context, id string) (*session.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.results[id]
	if !ok {
		return nil, fmt.Errorf("result not found for session: %s", id)
	}
	return result, nil
}

func (c *memCache) GetSessionData(ctx context.Context, id string) (*session.SessionData, error) {
	s, err := c.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	state, _ := c.GetState(ctx, id)
	result, _ := c.GetResult(ctx, id)
	return &session.SessionData{Session: s, State: state, Result: result}, nil
}

func (c *memCache) SessionExists(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sessions[id]
	return ok, nil
}

func (c *memCache) SetSessionTTL(ctx context.Context, id string, ttl int) error {
	return nil
}

// memRepo - Repository в памяти для тестов
type memRepo struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
	results  map[string]*session.Result
}

func newMemRepo() *memRepo {
	return &memRepo{
		sessions: make(map[string]*session.Session),
		results:  make(map[string]*session.Result),
	}
}

func (r *memRepo) CreateSession(ctx context.Context, s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID]; ok {
		return fmt.Errorf("session already exists: %s", s.ID)
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *memRepo) GetSession(ctx context.Context, id string) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return s, nil
}

func (r *memRepo) UpdateSession(ctx context.Context, s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID]; !ok {
		return fmt.Errorf("session not found: %s", s.ID)
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *memRepo) ListSessions(ctx context.Context, limit, offset int) ([]*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sessions []*session.Session
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (r *memRepo) DeleteSession(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	delete(r.results, id)
	return nil
}

func (r *memRepo) SaveResult(ctx context.Context, result *session.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[result.SessionID] = result
	return nil
}

func (r *memRepo) GetResult(ctx context.Context, id string) (*session.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result, ok := r.results[id]
	if !ok {
		return nil, fmt.Errorf("result not found for session: %s", id)
	}
	return result, nil
}

func (r *memRepo) SaveSessionData(ctx context.Context, data *session.SessionData) error {
	if err := r.CreateSession(ctx, data.Session); err != nil {
		if err := r.UpdateSession(ctx, data.Session); err != nil {
			return err
		}
	}
	if data.Result != nil {
		return r.SaveResult(ctx, data.Result)
	}
	return nil
}

func vis(x, y float64) pose.Point {
	return pose.Point{X: x, Y: y, Visibility: 0.9}
}

// marchFrame - безошибочный кадр строевого шага
func marchFrame() pose.RawFrame {
	return pose.RawFrame{
		pose.LeftShoulder:   vis(0.45, 0.20),
		pose.RightShoulder:  vis(0.55, 0.20),
		pose.LeftHip:        vis(0.45, 0.50),
		pose.RightHip:       vis(0.55, 0.50),
		pose.LeftKnee:       vis(0.60, 0.50),
		pose.RightKnee:      vis(0.55, 0.70),
		pose.LeftAnkle:      vis(0.60, 0.65),
		pose.RightAnkle:     vis(0.55, 0.90),
		pose.LeftHeel:       vis(0.58, 0.66),
		pose.RightHeel:      vis(0.55, 0.92),
		pose.LeftFootIndex:  vis(0.61, 0.67),
		pose.RightFootIndex: vis(0.57, 0.95),
	}
}

func newTestRouter() (*mux.Router, *memRepo) {
	cache := newMemCache()
	repo := newMemRepo()
	manager := session.NewManager(cache, repo, 0)
	h := NewHTTPHandler(manager, 1000)

	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return router, repo
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAnalyze_OneShot(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, "POST", "/api/analyze/high-leg-march", AnalyzeRequest{
		Frames: []pose.RawFrame{marchFrame(), marchFrame()},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var rep report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if !rep.Passed {
		t.Errorf("Expected passing report, got verdict: %s", rep.Verdict)
	}
	if rep.TotalFrames != 2 {
		t.Errorf("Expected 2 frames processed, got %d", rep.TotalFrames)
	}
}

func TestAnalyze_UnknownDrill(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, "POST", "/api/analyze/about-turn", AnalyzeRequest{
		Frames: []pose.RawFrame{marchFrame()},
	})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown drill, got %d", rec.Code)
	}
}

func TestAnalyze_NoFrames(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, "POST", "/api/analyze/salute", AnalyzeRequest{})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty frame list, got %d", rec.Code)
	}
}

func TestSession_FullLifecycle(t *testing.T) {
	router, repo := newTestRouter()

	// Создание
	rec := doJSON(t, router, "POST", "/api/sessions", session.CreateSessionRequest{
		Drill:   "high-leg-march",
		CadetID: "cadet-42",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created session.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to decode session: %v", err)
	}
	sessionID := created.Session.ID
	if created.Session.Status != session.SessionStatusActive {
		t.Errorf("Expected ACTIVE status, got %s", created.Session.Status)
	}

	// Загрузка кадров
	rec = doJSON(t, router, "POST", "/api/sessions/"+sessionID+"/frames", AnalyzeRequest{
		Frames: []pose.RawFrame{marchFrame(), marchFrame(), marchFrame()},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var pushed PushFramesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &pushed); err != nil {
		t.Fatalf("Failed to decode push response: %v", err)
	}
	if pushed.Accepted != 3 {
		t.Errorf("Expected 3 accepted frames, got %d", pushed.Accepted)
	}

	// Финализация
	rec = doJSON(t, router, "POST", "/api/sessions/"+sessionID+"/finalize", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var rep report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if !rep.Passed {
		t.Errorf("Expected passing report, got verdict: %s", rep.Verdict)
	}

	// Повторная загрузка кадров запрещена
	rec = doJSON(t, router, "POST", "/api/sessions/"+sessionID+"/frames", AnalyzeRequest{
		Frames: []pose.RawFrame{marchFrame()},
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 after finalize, got %d", rec.Code)
	}

	// Отчет доступен повторно
	rec = doJSON(t, router, "GET", "/api/sessions/"+sessionID+"/report", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for report, got %d", rec.Code)
	}

	// Сохранение в БД
	rec = doJSON(t, router, "POST", "/api/sessions/"+sessionID+"/save", session.SaveSessionRequest{
		Notes: "good form",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	saved, err := repo.GetSession(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("Session not persisted: %v", err)
	}
	if saved.Status != session.SessionStatusSaved {
		t.Errorf("Expected SAVED status, got %s", saved.Status)
	}
	if saved.Metadata.Notes != "good form" {
		t.Errorf("Expected notes to be updated, got %q", saved.Metadata.Notes)
	}
	if _, err := repo.GetResult(context.Background(), sessionID); err != nil {
		t.Errorf("Result not persisted: %v", err)
	}
}

func TestAnalyze_TooManyFrames(t *testing.T) {
	router, _ := newTestRouter()

	frames := make([]pose.RawFrame, 1001)
	for i := range frames {
		frames[i] = marchFrame()
	}

	rec := doJSON(t, router, "POST", "/api/analyze/high-leg-march", AnalyzeRequest{Frames: frames})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for oversized batch, got %d", rec.Code)
	}
}

func TestSession_CreateUnknownDrill(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, "POST", "/api/sessions", session.CreateSessionRequest{
		Drill: "about-turn",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown drill, got %d", rec.Code)
	}
}

func TestSession_PushFramesToMissing(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, "POST", "/api/sessions/no-such-id/frames", AnalyzeRequest{
		Frames: []pose.RawFrame{marchFrame()},
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", rec.Code)
	}
}

func TestSession_GetMissing(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, "GET", "/api/sessions/no-such-id", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}
