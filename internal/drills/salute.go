package drills

import (
	"math"

	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/geometry"
	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/pose"
)

// Допуски воинского приветствия
const (
	// Зона цели для указательного пальца: середина между внешним углом
	// глаза и ухом, допуск по вертикали уже, чем по горизонтали
	fingerYTolerance = 0.08
	fingerXTolerance = 0.12

	// Кисть продолжает линию предплечья
	wristRigidityMin = 160

	// Рука в локте почти выпрямлена
	elbowRaiseMin = 160
	elbowRaiseMax = 180

	// Гистерезис выбора приветствующей руки по высоте запястий
	saluteSideTolerance = 0.04
)

// Пороги стабильности головы: сумма стандартных отклонений по x и y
// за все валидные кадры видео
const (
	HeadStabilityVeryGood = 0.02
	HeadStabilityModerate = 0.05

	// HeadStabilityMinSamples - минимум валидных кадров для вердикта
	HeadStabilityMinSamples = 10
)

// Salute оценивает приветствие: палец у виска, жесткая кисть, жесткая рука.
// Стабильность головы - отдельная статистика по всему видео, считается
// агрегатором сессии, а не покадровой проверкой.
type Salute struct{}

func (s *Salute) Drill() Drill {
	return DrillSalute
}

func (s *Salute) Criteria() []Criterion {
	return []Criterion{
		CriterionFingerPlacement,
		CriterionHandForm,
		CriterionElbowRaise,
	}
}

// saluteRequired возвращает обязательные точки для выбранной стороны
func saluteRequired(side Side) []pose.Landmark {
	if side == SideLeft {
		return []pose.Landmark{
			pose.LeftEar, pose.LeftEyeOuter,
			pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist, pose.LeftIndex,
			pose.Nose,
		}
	}
	return []pose.Landmark{
		pose.RightEar, pose.RightEyeOuter,
		pose.RightShoulder, pose.RightElbow, pose.RightWrist, pose.RightIndex,
		pose.Nose,
	}
}

func (s *Salute) Evaluate(raw pose.RawFrame) FrameEvaluation {
	side := salutingSide(raw)

	frame, err := pose.Adapt(raw, saluteRequired(side))
	if err != nil {
		return lowVisibilityEvaluation(DrillSalute)
	}

	ear := sidePoint(frame, side, pose.LeftEar, pose.RightEar)
	eyeOuter := sidePoint(frame, side, pose.LeftEyeOuter, pose.RightEyeOuter)
	shoulder := sidePoint(frame, side, pose.LeftShoulder, pose.RightShoulder)
	elbow := sidePoint(frame, side, pose.LeftElbow, pose.RightElbow)
	wrist := sidePoint(frame, side, pose.LeftWrist, pose.RightWrist)
	index := sidePoint(frame, side, pose.LeftIndex, pose.RightIndex)

	// 1. Положение пальца относительно зоны цели у виска
	targetY := eyeOuter.Y
	targetX := (eyeOuter.X + ear.X) / 2
	fingerOK := math.Abs(index.Y-targetY) < fingerYTolerance &&
		math.Abs(index.X-targetX) < fingerXTolerance

	// 2. Жесткость кисти: запястье не сломано
	wristAngle := geometry.AngleAt(elbow.XY(), wrist.XY(), index.XY())
	handFormOK := wristAngle >= wristRigidityMin

	// 3. Жесткость руки: локоть почти выпрямлен
	elbowAngle := geometry.AngleAt(shoulder.XY(), elbow.XY(), wrist.XY())
	elbowOK := elbowAngle >= elbowRaiseMin && elbowAngle <= elbowRaiseMax

	eval := FrameEvaluation{
		Drill:      DrillSalute,
		Status:     EvalOK,
		ActiveSide: side,
		Angles: map[string]float64{
			AngleWrist: wristAngle,
			AngleElbow: elbowAngle,
		},
	}

	eval.addResult(CriterionFingerPlacement, fingerOK, side)
	eval.addResult(CriterionHandForm, handFormOK, side)
	eval.addResult(CriterionElbowRaise, elbowOK, side)

	// Позиция носа для статистики стабильности головы
	if nose, ok := raw[pose.Nose]; ok && nose.Visibility >= pose.MinVisibility {
		p := nose.XY()
		eval.StabilityPoint = &p
	}

	return eval
}

// salutingSide определяет приветствующую руку по кадру: та, чье запястье
// поднято выше с учетом гистерезиса. При равенстве - правая, как того
// требует устав. Сторона вычисляется заново для каждого кадра.
func salutingSide(raw pose.RawFrame) Side {
	lWrist, lOK := raw[pose.LeftWrist]
	rWrist, rOK := raw[pose.RightWrist]

	lOK = lOK && lWrist.Visibility >= pose.MinVisibility
	rOK = rOK && rWrist.Visibility >= pose.MinVisibility

	switch {
	case lOK && !rOK:
		return SideLeft
	case lOK && rOK && lWrist.Y < rWrist.Y-saluteSideTolerance:
		return SideLeft
	default:
		return SideRight
	}
}
