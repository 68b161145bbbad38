package drills

import (
	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/geometry"
	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/pose"
)

// Допуски строевого шага с высоким подъемом ноги.
// Все расстояния в нормализованных координатах кадра, углы в градусах.
const (
	// highLegYTolerance - гистерезис по вертикали: колено считается поднятым,
	// только если оно выше другого колена больше чем на этот допуск
	highLegYTolerance = 0.04

	hipFlexionMin = 80
	hipFlexionMax = 120

	kneeBendMin = 80
	kneeBendMax = 110

	// stationaryLegStraight - опорная нога должна быть выпрямлена в колене
	stationaryLegStraight = 170

	footAngleMin = 70
	footAngleMax = 110
)

// highLegRequired - точки, обязательные для оценки строевого шага
var highLegRequired = []pose.Landmark{
	pose.LeftShoulder, pose.RightShoulder,
	pose.LeftHip, pose.RightHip,
	pose.LeftKnee, pose.RightKnee,
	pose.LeftAnkle, pose.RightAnkle,
	pose.LeftHeel, pose.RightHeel,
	pose.LeftFootIndex, pose.RightFootIndex,
}

// HighLegMarch оценивает строевой шаг: подъем колена до уровня бедра,
// сгиб в 90 градусов, выпрямленная опорная нога, носок оттянут вниз
type HighLegMarch struct{}

func (h *HighLegMarch) Drill() Drill {
	return DrillHighLegMarch
}

func (h *HighLegMarch) Criteria() []Criterion {
	return []Criterion{
		CriterionKneeHeight,
		CriterionKneeAngle,
		CriterionStationaryLeg,
		CriterionFootAngle,
	}
}

func (h *HighLegMarch) Evaluate(raw pose.RawFrame) FrameEvaluation {
	frame, err := pose.Adapt(raw, highLegRequired)
	if err != nil {
		return lowVisibilityEvaluation(DrillHighLegMarch)
	}

	lKnee := frame.Point(pose.LeftKnee)
	rKnee := frame.Point(pose.RightKnee)

	// Активная нога - та, чье колено поднято выше с учетом гистерезиса.
	// Без подъема кадр не содержит активной позы и в агрегацию не попадает.
	var active Side
	switch {
	case lKnee.Y < rKnee.Y-highLegYTolerance:
		active = SideLeft
	case rKnee.Y < lKnee.Y-highLegYTolerance:
		active = SideRight
	default:
		return noActivePoseEvaluation(DrillHighLegMarch)
	}

	activeShoulder := sidePoint(frame, active, pose.LeftShoulder, pose.RightShoulder)
	activeHip := sidePoint(frame, active, pose.LeftHip, pose.RightHip)
	activeKnee := sidePoint(frame, active, pose.LeftKnee, pose.RightKnee)
	activeAnkle := sidePoint(frame, active, pose.LeftAnkle, pose.RightAnkle)
	activeHeel := sidePoint(frame, active, pose.LeftHeel, pose.RightHeel)
	activeToe := sidePoint(frame, active, pose.LeftFootIndex, pose.RightFootIndex)

	support := active.Opposite()
	supportHip := sidePoint(frame, support, pose.LeftHip, pose.RightHip)
	supportKnee := sidePoint(frame, support, pose.LeftKnee, pose.RightKnee)
	supportAnkle := sidePoint(frame, support, pose.LeftAnkle, pose.RightAnkle)

	// 1. Высота колена: колено активной ноги не ниже уровня бедра
	kneeHeightOK := activeKnee.Y <= activeHip.Y+highLegYTolerance

	// 2. Углы активной ноги: сгиб бедра и колена около 90 градусов
	hipFlexion := geometry.AngleAt(activeShoulder.XY(), activeHip.XY(), activeKnee.XY())
	kneeBend := geometry.AngleAt(activeHip.XY(), activeKnee.XY(), activeAnkle.XY())
	kneeAngleOK := hipFlexion >= hipFlexionMin && hipFlexion <= hipFlexionMax &&
		kneeBend >= kneeBendMin && kneeBend <= kneeBendMax

	// 3. Опорная нога выпрямлена
	supportKneeAngle := geometry.AngleAt(supportHip.XY(), supportKnee.XY(), supportAnkle.XY())
	stationaryOK := supportKneeAngle > stationaryLegStraight

	// 4. Носок оттянут вниз
	footAngle := geometry.AngleAt(activeHeel.XY(), activeAnkle.XY(), activeToe.XY())
	footAngleOK := footAngle >= footAngleMin && footAngle <= footAngleMax

	eval := FrameEvaluation{
		Drill:      DrillHighLegMarch,
		Status:     EvalOK,
		ActiveSide: active,
		Angles: map[string]float64{
			AngleHipFlexion:  hipFlexion,
			AngleKneeBend:    kneeBend,
			AngleSupportKnee: supportKneeAngle,
			AngleFootAngle:   footAngle,
		},
	}

	eval.addResult(CriterionKneeHeight, kneeHeightOK, active)
	eval.addResult(CriterionKneeAngle, kneeAngleOK, active)
	eval.addResult(CriterionStationaryLeg, stationaryOK, support)
	eval.addResult(CriterionFootAngle, footAngleOK, active)

	return eval
}

// sidePoint выбирает точку левой или правой стороны
func sidePoint(f *pose.Frame, s Side, left, right pose.Landmark) pose.Point {
	if s == SideLeft {
		return f.Point(left)
	}
	return f.Point(right)
}

// addResult записывает результат проверки и помечает провал
func (e *FrameEvaluation) addResult(c Criterion, satisfied bool, side Side) {
	e.Results = append(e.Results, CriterionResult{Criterion: c, Satisfied: satisfied, Side: side})
	if !satisfied {
		e.FailPoints = append(e.FailPoints, c)
	}
}
