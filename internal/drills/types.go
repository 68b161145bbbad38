package drills

import (
	"fmt"

	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/geometry"
	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/pose"
)

// Drill представляет тип строевого приема
type Drill string

const (
	DrillHighLegMarch Drill = "high-leg-march"
	DrillSalute       Drill = "salute"
	DrillTurnLeft     Drill = "turn-left"
	DrillTurnRight    Drill = "turn-right"
)

// ParseDrill разбирает тип приема из строки запроса
func ParseDrill(s string) (Drill, error) {
	switch Drill(s) {
	case DrillHighLegMarch, DrillSalute, DrillTurnLeft, DrillTurnRight:
		return Drill(s), nil
	}
	return "", fmt.Errorf("unknown drill: %q", s)
}

// Criterion - идентификатор одной независимой биомеханической проверки
type Criterion string

const (
	// High leg march
	CriterionKneeHeight    Criterion = "knee_height"
	CriterionKneeAngle     Criterion = "knee_angle"
	CriterionStationaryLeg Criterion = "stationary_leg"
	CriterionFootAngle     Criterion = "foot_angle"

	// Salute
	CriterionFingerPlacement Criterion = "finger_placement"
	CriterionHandForm        Criterion = "hand_form"
	CriterionElbowRaise      Criterion = "elbow_raise"

	// Turns
	CriterionHeelDisengage Criterion = "heel_disengage"
	CriterionSnapLift      Criterion = "snap_lift"
	CriterionFinalPosition Criterion = "final_pos"
)

// Side указывает, к какой стороне тела относится проверка.
// Сторона определяется динамически по кадру, а не фиксирована заранее.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Opposite возвращает противоположную сторону (опорную конечность)
func (s Side) Opposite() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// EvalStatus - статус оценки одного кадра
type EvalStatus string

const (
	// EvalOK - кадр пригоден, проверки выполнены
	EvalOK EvalStatus = "ok"
	// EvalLowVisibility - обязательные точки не видны, кадр отклонен
	EvalLowVisibility EvalStatus = "low_visibility"
	// EvalNoActivePose - точки видны, но активная конечность не обнаружена
	EvalNoActivePose EvalStatus = "no_active_pose"
)

// CriterionResult - результат одной проверки в одном кадре
type CriterionResult struct {
	Criterion Criterion `json:"criterion"`
	Satisfied bool      `json:"satisfied"`
	Side      Side      `json:"side,omitempty"`
}

// FrameEvaluation - результат применения набора проверок дрилла к одному кадру.
// Проверки не прерываются на первой ошибке: каждая применимая проверка
// выполняется и попадает в отчет, даже если предыдущие уже провалились.
type FrameEvaluation struct {
	Drill      Drill              `json:"drill"`
	Status     EvalStatus         `json:"status"`
	ActiveSide Side               `json:"active_side,omitempty"`
	Results    []CriterionResult  `json:"results,omitempty"`
	FailPoints []Criterion        `json:"fail_points,omitempty"`
	Angles     map[string]float64 `json:"angles,omitempty"`

	// StabilityPoint - позиция стабилизирующей точки (нос) для дриллов
	// с требованием удержания. nil, если точка не видна или не отслеживается.
	StabilityPoint *geometry.Point `json:"stability_point,omitempty"`
}

// Usable сообщает, участвует ли кадр в кумулятивной агрегации
func (e FrameEvaluation) Usable() bool {
	return e.Status == EvalOK
}

// Evaluator - набор проверок одного дрилла. Реализации чистые:
// один кадр на входе, оценка на выходе, без внутреннего состояния.
type Evaluator interface {
	Drill() Drill
	// Criteria возвращает фиксированный упорядоченный список проверок дрилла
	Criteria() []Criterion
	Evaluate(raw pose.RawFrame) FrameEvaluation
}

// NewEvaluator создает Evaluator для указанного дрилла
func NewEvaluator(d Drill) (Evaluator, error) {
	switch d {
	case DrillHighLegMarch:
		return &HighLegMarch{}, nil
	case DrillSalute:
		return &Salute{}, nil
	case DrillTurnLeft:
		return &Turn{drill: DrillTurnLeft}, nil
	case DrillTurnRight:
		return &Turn{drill: DrillTurnRight}, nil
	}
	return nil, fmt.Errorf("unknown drill: %q", d)
}

// AngleTargets возвращает целевые значения углов дрилла для выбора
// "лучших" наблюдавшихся углов в отчете. Пустая карта - углы не отслеживаются.
func AngleTargets(d Drill) map[string]float64 {
	switch d {
	case DrillHighLegMarch:
		return map[string]float64{
			AngleHipFlexion:  90,
			AngleKneeBend:    90,
			AngleSupportKnee: 180,
			AngleFootAngle:   90,
		}
	case DrillSalute:
		return map[string]float64{
			AngleWrist: 180,
			AngleElbow: 180,
		}
	}
	return nil
}

// Имена вычисляемых углов в FrameEvaluation.Angles
const (
	AngleHipFlexion  = "hip_flexion"
	AngleKneeBend    = "knee_bend"
	AngleSupportKnee = "support_knee"
	AngleFootAngle   = "foot_angle"

	AngleWrist = "wrist_angle"
	AngleElbow = "elbow_angle"

	AngleMovingKnee     = "moving_knee"
	AngleStationaryKnee = "stationary_knee"
)

func lowVisibilityEvaluation(d Drill) FrameEvaluation {
	return FrameEvaluation{Drill: d, Status: EvalLowVisibility}
}

func noActivePoseEvaluation(d Drill) FrameEvaluation {
	return FrameEvaluation{Drill: d, Status: EvalNoActivePose}
}
