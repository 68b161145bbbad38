package session

import (
	"time"

	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/drills"
)

// SessionStatus представляет статус сессии оценки
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "ACTIVE"
	SessionStatusFinalized SessionStatus = "FINALIZED"
	SessionStatusSaved     SessionStatus = "SAVED"
)

// Session представляет сессию оценки одного строевого приема
type Session struct {
	ID          string        `json:"id"`
	Drill       drills.Drill  `json:"drill"`
	Status      SessionStatus `json:"status"`
	StartedAt   time.Time     `json:"started_at"`
	FinalizedAt *time.Time    `json:"finalized_at,omitempty"`
	SavedAt     *time.Time    `json:"saved_at,omitempty"`
	TotalFrames int64         `json:"total_frames"`
	Metadata    Metadata      `json:"metadata,omitempty"`
}

// Metadata содержит дополнительную информацию о сессии
type Metadata struct {
	CadetID      string                 `json:"cadet_id,omitempty"`
	InstructorID string                 `json:"instructor_id,omitempty"`
	UnitID       string                 `json:"unit_id,omitempty"`
	Notes        string                 `json:"notes,omitempty"`
	CustomData   map[string]interface{} `json:"custom_data,omitempty"`
	CreatedFrom  string                 `json:"created_from,omitempty"` // "web", "mobile", "upload"
}

// CriterionOutcome - кумулятивный итог одной проверки за всю сессию.
// Achieved становится истинным, как только проверка выполнена хотя бы
// в одном пригодном кадре, и больше не сбрасывается.
type CriterionOutcome struct {
	Criterion drills.Criterion `json:"criterion"`
	Achieved  bool             `json:"achieved"`
}

// Exemplar - репрезентативный кадр сессии: при успехе - первый кадр
// без единой ошибки, при провале - кадр с наименьшим числом ошибок
type Exemplar struct {
	FrameIndex int                `json:"frame_index"`
	Failures   []drills.Criterion `json:"failures,omitempty"`
}

// StabilityGrade - градация неподвижности головы при приветствии
type StabilityGrade string

const (
	StabilityVeryGood         StabilityGrade = "very_good"
	StabilityModerate         StabilityGrade = "moderate"
	StabilityUnsteady         StabilityGrade = "unsteady"
	StabilityInsufficientData StabilityGrade = "insufficient_data"
)

// StabilitySummary - итоговая оценка неподвижности головы.
// Deviation - сумма стандартных отклонений позиции носа по обеим осям.
type StabilitySummary struct {
	Samples   int            `json:"samples"`
	Deviation float64        `json:"deviation"`
	Grade     StabilityGrade `json:"grade"`
}

// Result - агрегированный итог сессии, из которого строится отчет
type Result struct {
	SessionID           string             `json:"session_id"`
	Drill               drills.Drill       `json:"drill"`
	Passed              bool               `json:"passed"`
	TotalFrames         int                `json:"total_frames"`
	ValidFrames         int                `json:"valid_frames"`
	LowVisibilityFrames int                `json:"low_visibility_frames"`
	InactiveFrames      int                `json:"inactive_frames"`
	Criteria            []CriterionOutcome `json:"criteria"`
	BestAngles          map[string]float64 `json:"best_angles,omitempty"`
	Exemplar            *Exemplar          `json:"exemplar,omitempty"`
	Stability           *StabilitySummary  `json:"stability,omitempty"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// SessionData представляет все данные сессии для хранения
type SessionData struct {
	Session *Session `json:"session"`
	State   *State   `json:"state,omitempty"`
	Result  *Result  `json:"result,omitempty"`
}

// CreateSessionRequest представляет запрос на создание сессии
type CreateSessionRequest struct {
	Drill        string                 `json:"drill"`
	CadetID      string                 `json:"cadet_id,omitempty"`
	InstructorID string                 `json:"instructor_id,omitempty"`
	UnitID       string                 `json:"unit_id,omitempty"`
	Notes        string                 `json:"notes,omitempty"`
	CustomData   map[string]interface{} `json:"custom_data,omitempty"`
	CreatedFrom  string                 `json:"created_from,omitempty"`
}

// SessionResponse представляет ответ с информацией о сессии
type SessionResponse struct {
	Session *Session `json:"session"`
	Result  *Result  `json:"result,omitempty"`
}

// SaveSessionRequest представляет запрос на сохранение сессии
type SaveSessionRequest struct {
	Notes string `json:"notes,omitempty"`
}
