package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/drills"
	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/pose"
	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/report"
	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/session"
)

// HTTPHandler обрабатывает HTTP запросы оценки дриллов (Presentation Layer)
type HTTPHandler struct {
	manager   *session.Manager
	maxFrames int
}

// NewHTTPHandler создает новый HTTP обработчик.
// maxFrames ограничивает размер одного пакета кадров, 0 - без ограничения.
func NewHTTPHandler(manager *session.Manager, maxFrames int) *HTTPHandler {
	return &HTTPHandler{
		manager:   manager,
		maxFrames: maxFrames,
	}
}

// RegisterRoutes регистрирует маршруты в роутере
func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/analyze/{drill}", h.Analyze).Methods("POST")

	api := router.PathPrefix("/api/sessions").Subrouter()
	api.HandleFunc("", h.CreateSession).Methods("POST")
	api.HandleFunc("", h.ListSessions).Methods("GET")
	api.HandleFunc("/{id}", h.GetSession).Methods("GET")
	api.HandleFunc("/{id}", h.DeleteSession).Methods("DELETE")
	api.HandleFunc("/{id}/frames", h.PushFrames).Methods("POST")
	api.HandleFunc("/{id}/finalize", h.FinalizeSession).Methods("POST")
	api.HandleFunc("/{id}/save", h.SaveSession).Methods("POST")
	api.HandleFunc("/{id}/report", h.GetReport).Methods("GET")
	api.HandleFunc("/{id}/data", h.GetSessionData).Methods("GET")
}

// AnalyzeRequest - пакет кадров ключевых точек для анализа
type AnalyzeRequest struct {
	Frames []pose.RawFrame `json:"frames"`
}

// PushFramesResponse - итог приема пакета кадров в сессию
type PushFramesResponse struct {
	SessionID string                  `json:"session_id"`
	Accepted  int                     `json:"accepted"`
	LastFrame *drills.FrameEvaluation `json:"last_frame,omitempty"`
}

// Analyze выполняет разовый анализ видео целиком
// @Summary Разовый анализ строевого приема
// @Description Принимает упорядоченную последовательность кадров ключевых точек, прогоняет их через оценщик дрилла и возвращает готовый отчет без создания сессии
// @Tags Analysis
// @Accept json
// @Produce json
// @Param drill path string true "Тип приема" Enums(high-leg-march, salute, turn-left, turn-right)
// @Param request body AnalyzeRequest true "Кадры ключевых точек в порядке следования"
// @Success 200 {object} report.Report "Отчет по приему"
// @Failure 400 {object} map[string]interface{} "Неверный запрос"
// @Router /api/analyze/{drill} [post]
func (h *HTTPHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	drill, err := drills.ParseDrill(mux.Vars(r)["drill"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unknown drill type")
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Frames) == 0 {
		respondError(w, http.StatusBadRequest, "No frames provided")
		return
	}
	if h.maxFrames > 0 && len(req.Frames) > h.maxFrames {
		respondError(w, http.StatusBadRequest, "Too many frames in one request")
		return
	}

	aggregator, err := session.NewAggregator(drill)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unknown drill type")
		return
	}

	for _, frame := range req.Frames {
		aggregator.Feed(frame)
	}

	result := aggregator.Result("")
	log.Printf("[INFO] One-shot analysis: drill=%s frames=%d passed=%t",
		drill, result.TotalFrames, result.Passed)

	respondJSON(w, http.StatusOK, report.Compose(result))
}

// CreateSession создает новую сессию оценки
// @Summary Создать сессию оценки
// @Description Создает сессию указанного приема, кадры загружаются отдельными запросами
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body session.CreateSessionRequest true "Параметры сессии"
// @Success 201 {object} session.SessionResponse "Созданная сессия"
// @Failure 400 {object} map[string]interface{} "Неверный запрос"
// @Router /api/sessions [post]
func (h *HTTPHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req session.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess, err := h.manager.CreateSession(r.Context(), &req)
	if err != nil {
		if _, parseErr := drills.ParseDrill(req.Drill); parseErr != nil {
			respondError(w, http.StatusBadRequest, "Unknown drill type")
			return
		}
		log.Printf("[ERROR] Failed to create session: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	respondJSON(w, http.StatusCreated, session.SessionResponse{Session: sess})
}

// ListSessions возвращает список сессий
// @Summary Список сессий
// @Tags Sessions
// @Produce json
// @Param limit query int false "Размер страницы" default(50)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]interface{} "Страница сессий"
// @Router /api/sessions [get]
func (h *HTTPHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	limit := getQueryInt(r, "limit", 50)
	offset := getQueryInt(r, "offset", 0)

	sessions, err := h.manager.ListSessions(r.Context(), limit, offset)
	if err != nil {
		log.Printf("[ERROR] Failed to list sessions: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"limit":    limit,
		"offset":   offset,
		"count":    len(sessions),
	})
}

// GetSession получает информацию о сессии
// @Summary Информация о сессии
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} session.SessionResponse "Сессия и итог, если есть"
// @Failure 404 {object} map[string]interface{} "Сессия не найдена"
// @Router /api/sessions/{id} [get]
func (h *HTTPHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	sess, err := h.manager.GetSession(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Session not found")
		return
	}

	// Итог есть только у финализированной сессии
	result, _ := h.manager.GetResult(r.Context(), sessionID)

	respondJSON(w, http.StatusOK, session.SessionResponse{
		Session: sess,
		Result:  result,
	})
}

// PushFrames добавляет пакет кадров в активную сессию
// @Summary Загрузить кадры в сессию
// @Description Кадры оцениваются в порядке следования и вливаются в кумулятивное состояние сессии
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body AnalyzeRequest true "Кадры ключевых точек"
// @Success 200 {object} PushFramesResponse "Итог приема пакета"
// @Failure 400 {object} map[string]interface{} "Неверный запрос"
// @Failure 404 {object} map[string]interface{} "Сессия не найдена"
// @Failure 409 {object} map[string]interface{} "Сессия не активна"
// @Router /api/sessions/{id}/frames [post]
func (h *HTTPHandler) PushFrames(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if !h.manager.SessionExists(r.Context(), sessionID) {
		respondError(w, http.StatusNotFound, "Session not found")
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Frames) == 0 {
		respondError(w, http.StatusBadRequest, "No frames provided")
		return
	}
	if h.maxFrames > 0 && len(req.Frames) > h.maxFrames {
		respondError(w, http.StatusBadRequest, "Too many frames in one request")
		return
	}

	resp := PushFramesResponse{SessionID: sessionID}
	for _, frame := range req.Frames {
		eval, err := h.manager.ProcessFrame(r.Context(), sessionID, frame)
		if err != nil {
			log.Printf("[ERROR] Failed to process frame for session %s: %v", sessionID, err)
			respondError(w, http.StatusConflict, "Session is not accepting frames")
			return
		}
		resp.Accepted++
		evalCopy := eval
		resp.LastFrame = &evalCopy
	}

	respondJSON(w, http.StatusOK, resp)
}

// FinalizeSession завершает прием кадров и возвращает отчет
// @Summary Финализировать сессию
// @Description Фиксирует итог сессии и возвращает отчет; дальнейшая загрузка кадров невозможна
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} report.Report "Отчет по сессии"
// @Failure 409 {object} map[string]interface{} "Сессия не активна"
// @Router /api/sessions/{id}/finalize [post]
func (h *HTTPHandler) FinalizeSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := h.manager.FinalizeSession(r.Context(), sessionID)
	if err != nil {
		log.Printf("[ERROR] Failed to finalize session %s: %v", sessionID, err)
		respondError(w, http.StatusConflict, "Session is not active")
		return
	}

	respondJSON(w, http.StatusOK, report.Compose(result))
}

// SaveSession сохраняет финализированную сессию в базу данных
// @Summary Сохранить сессию
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body session.SaveSessionRequest false "Заметки инструктора"
// @Success 200 {object} map[string]interface{} "Сессия сохранена"
// @Failure 500 {object} map[string]interface{} "Ошибка сохранения"
// @Router /api/sessions/{id}/save [post]
func (h *HTTPHandler) SaveSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req session.SaveSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Не критично, если нет body
		req = session.SaveSessionRequest{}
	}

	if err := h.manager.SaveSession(r.Context(), sessionID, req.Notes); err != nil {
		log.Printf("[ERROR] Failed to save session %s: %v", sessionID, err)
		respondError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Session saved successfully",
		"session_id": sessionID,
	})
}

// GetReport возвращает отчет финализированной сессии
// @Summary Отчет по сессии
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} report.Report "Отчет по сессии"
// @Failure 404 {object} map[string]interface{} "Итог не найден"
// @Router /api/sessions/{id}/report [get]
func (h *HTTPHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := h.manager.GetResult(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Report not found")
		return
	}

	respondJSON(w, http.StatusOK, report.Compose(result))
}

// DeleteSession удаляет сессию
// @Summary Удалить сессию
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} map[string]interface{} "Сессия удалена"
// @Failure 500 {object} map[string]interface{} "Ошибка удаления"
// @Router /api/sessions/{id} [delete]
func (h *HTTPHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := h.manager.DeleteSession(r.Context(), sessionID); err != nil {
		log.Printf("[ERROR] Failed to delete session %s: %v", sessionID, err)
		respondError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Session deleted successfully",
		"session_id": sessionID,
	})
}

// GetSessionData получает все данные сессии
// @Summary Все данные сессии
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} session.SessionData "Данные сессии"
// @Failure 404 {object} map[string]interface{} "Данные не найдены"
// @Router /api/sessions/{id}/data [get]
func (h *HTTPHandler) GetSessionData(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	data, err := h.manager.GetSessionData(r.Context(), sessionID)
	if err != nil {
		log.Printf("[ERROR] Failed to get session data %s: %v", sessionID, err)
		respondError(w, http.StatusNotFound, "Session data not found")
		return
	}

	respondJSON(w, http.StatusOK, data)
}

// ===== Утилиты =====

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[ERROR] Failed to encode JSON response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":  message,
		"status": status,
	})
}

func getQueryInt(r *http.Request, key string, defaultValue int) int {
	valueStr := r.URL.Query().Get(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
