package drills

import (
	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/geometry"
	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/pose"
)

// Допуски поворотов на месте
const (
	// Пятки считаются сомкнутыми при такой разнице x лодыжек
	attentionAnkleGap = 0.03

	// Нога выпрямлена в колене в стойке "смирно"
	attentionKneeStraight = 170

	// Активный подъем ноги при приставлении: явный сгиб колена
	kneeBendSnapMax = 80

	// Минимальный перепад y между носком и пяткой, подтверждающий
	// отрыв пятки перед разворотом
	heelLiftMinDiff = 0.015

	// Сгиб колена, начиная с которого в кадре есть движение поворота
	turnMotionKneeBend = 150
)

// turnRequired - точки, обязательные для оценки поворота
var turnRequired = []pose.Landmark{
	pose.LeftHip, pose.RightHip,
	pose.LeftKnee, pose.RightKnee,
	pose.LeftAnkle, pose.RightAnkle,
	pose.LeftHeel, pose.RightHeel,
	pose.LeftFootIndex, pose.RightFootIndex,
}

// Turn оценивает поворот направо или налево. Все три проверки - события:
// каждая должна произойти хотя бы в одном кадре видео, за кумулятивный
// учет отвечает агрегатор сессии.
type Turn struct {
	drill Drill
}

func (t *Turn) Drill() Drill {
	return t.drill
}

func (t *Turn) Criteria() []Criterion {
	return []Criterion{
		CriterionHeelDisengage,
		CriterionSnapLift,
		CriterionFinalPosition,
	}
}

// movingSide возвращает приставляемую ногу: при повороте направо
// движется левая нога, при повороте налево - правая
func (t *Turn) movingSide() Side {
	if t.drill == DrillTurnRight {
		return SideLeft
	}
	return SideRight
}

func (t *Turn) Evaluate(raw pose.RawFrame) FrameEvaluation {
	frame, err := pose.Adapt(raw, turnRequired)
	if err != nil {
		return lowVisibilityEvaluation(t.drill)
	}

	moving := t.movingSide()
	stationary := moving.Opposite()

	movingHip := sidePoint(frame, moving, pose.LeftHip, pose.RightHip)
	movingKnee := sidePoint(frame, moving, pose.LeftKnee, pose.RightKnee)
	movingAnkle := sidePoint(frame, moving, pose.LeftAnkle, pose.RightAnkle)
	movingHeel := sidePoint(frame, moving, pose.LeftHeel, pose.RightHeel)
	movingToe := sidePoint(frame, moving, pose.LeftFootIndex, pose.RightFootIndex)

	stationaryHip := sidePoint(frame, stationary, pose.LeftHip, pose.RightHip)
	stationaryKnee := sidePoint(frame, stationary, pose.LeftKnee, pose.RightKnee)
	stationaryAnkle := sidePoint(frame, stationary, pose.LeftAnkle, pose.RightAnkle)

	// 1. Отрыв пятки: носок ниже пятки - пятка поднята перед разворотом
	heelLifted := movingToe.Y-movingHeel.Y > heelLiftMinDiff

	// 2. Приставление с подъемом: явный сгиб колена движущейся ноги
	movingKneeAngle := geometry.AngleAt(movingHip.XY(), movingKnee.XY(), movingAnkle.XY())
	snapLift := movingKneeAngle < kneeBendSnapMax

	// 3. Финальная стойка: ноги выпрямлены, лодыжки сомкнуты
	stationaryKneeAngle := geometry.AngleAt(stationaryHip.XY(), stationaryKnee.XY(), stationaryAnkle.XY())
	legsStraight := movingKneeAngle > attentionKneeStraight &&
		stationaryKneeAngle > attentionKneeStraight
	ankleGap := movingAnkle.X - stationaryAnkle.X
	if ankleGap < 0 {
		ankleGap = -ankleGap
	}
	finalPosition := legsStraight && ankleGap < attentionAnkleGap

	// Кадр без признаков поворота: нога не поднята, пятка не оторвана
	// и стойка не финальная - активного движения нет
	if !heelLifted && !snapLift && !finalPosition && movingKneeAngle > turnMotionKneeBend {
		return noActivePoseEvaluation(t.drill)
	}

	eval := FrameEvaluation{
		Drill:      t.drill,
		Status:     EvalOK,
		ActiveSide: moving,
		Angles: map[string]float64{
			AngleMovingKnee:     movingKneeAngle,
			AngleStationaryKnee: stationaryKneeAngle,
		},
	}

	eval.addResult(CriterionHeelDisengage, heelLifted, moving)
	eval.addResult(CriterionSnapLift, snapLift, moving)
	eval.addResult(CriterionFinalPosition, finalPosition, moving)

	return eval
}
