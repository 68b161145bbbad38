package session

import (
	"testing"

	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/drills"
	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/pose"
)

func vis(x, y float64) pose.Point {
	return pose.Point{X: x, Y: y, Visibility: 0.9}
}

// marchPerfect - кадр строевого шага без единой ошибки
func marchPerfect() pose.RawFrame {
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

// marchTwoFails - колено поднято слишком низко: проваливаются высота
// колена и углы активной ноги
func marchTwoFails() pose.RawFrame {
	frame := marchPerfect()
	frame[pose.LeftKnee] = vis(0.58, 0.58)
	frame[pose.LeftAnkle] = vis(0.58, 0.73)
	frame[pose.LeftHeel] = vis(0.56, 0.74)
	frame[pose.LeftFootIndex] = vis(0.59, 0.75)
	return frame
}

// marchOneFail - колено чуть ниже допуска, углы и опорная нога в норме:
// ровно одна ошибка knee_height
func marchOneFail() pose.RawFrame {
	frame := marchPerfect()
	frame[pose.LeftKnee] = vis(0.55, 0.55)
	frame[pose.LeftAnkle] = vis(0.483, 0.684)
	frame[pose.LeftHeel] = vis(0.463, 0.694)
	frame[pose.LeftFootIndex] = vis(0.493, 0.704)
	return frame
}

// marchIdle - оба колена на одной высоте, активной позы нет
func marchIdle() pose.RawFrame {
	frame := marchPerfect()
	frame[pose.LeftKnee] = vis(0.45, 0.70)
	frame[pose.LeftAnkle] = vis(0.45, 0.90)
	return frame
}

// marchLowVis - обязательная точка не видна
func marchLowVis() pose.RawFrame {
	frame := marchPerfect()
	frame[pose.LeftKnee] = pose.Point{X: 0.60, Y: 0.50, Visibility: 0.2}
	return frame
}

// salutePerfect - безошибочный кадр приветствия правой рукой
func salutePerfect() pose.RawFrame {
	return pose.RawFrame{
		pose.Nose:          vis(0.47, 0.28),
		pose.RightEyeOuter: vis(0.46, 0.30),
		pose.RightEar:      vis(0.42, 0.31),
		pose.RightShoulder: vis(0.40, 0.45),
		pose.RightElbow:    vis(0.42, 0.375),
		pose.RightWrist:    vis(0.434, 0.3225),
		pose.RightIndex:    vis(0.44, 0.30),
		pose.LeftWrist:     vis(0.60, 0.75),
	}
}

// turnSnap - приставление с явным сгибом колена движущейся (правой) ноги
func turnSnap() pose.RawFrame {
	return pose.RawFrame{
		pose.LeftHip:        vis(0.45, 0.50),
		pose.RightHip:       vis(0.55, 0.50),
		pose.LeftKnee:       vis(0.45, 0.70),
		pose.RightKnee:      vis(0.60, 0.68),
		pose.LeftAnkle:      vis(0.45, 0.90),
		pose.RightAnkle:     vis(0.726, 0.552),
		pose.LeftHeel:       vis(0.45, 0.92),
		pose.RightHeel:      vis(0.74, 0.59),
		pose.LeftFootIndex:  vis(0.44, 0.93),
		pose.RightFootIndex: vis(0.70, 0.58),
	}
}

// turnFinal - финальная стойка "смирно" с сомкнутыми лодыжками
func turnFinal() pose.RawFrame {
	return pose.RawFrame{
		pose.LeftHip:        vis(0.48, 0.50),
		pose.RightHip:       vis(0.52, 0.50),
		pose.LeftKnee:       vis(0.48, 0.70),
		pose.RightKnee:      vis(0.52, 0.70),
		pose.LeftAnkle:      vis(0.48, 0.90),
		pose.RightAnkle:     vis(0.50, 0.90),
		pose.LeftHeel:       vis(0.48, 0.92),
		pose.RightHeel:      vis(0.50, 0.92),
		pose.LeftFootIndex:  vis(0.47, 0.93),
		pose.RightFootIndex: vis(0.51, 0.93),
	}
}

func mustAggregator(t *testing.T, d drills.Drill) *Aggregator {
	t.Helper()
	a, err := NewAggregator(d)
	if err != nil {
		t.Fatalf("NewAggregator(%s) failed: %v", d, err)
	}
	return a
}

func findOutcome(result *Result, c drills.Criterion) (CriterionOutcome, bool) {
	for _, o := range result.Criteria {
		if o.Criterion == c {
			return o, true
		}
	}
	return CriterionOutcome{}, false
}

func TestAggregator_BestInstantAcrossFrames(t *testing.T) {
	a := mustAggregator(t, drills.DrillHighLegMarch)

	// Ни один кадр не идеален сразу, но каждая проверка выполнена
	// хотя бы однажды
	a.Feed(marchTwoFails())
	a.Feed(marchPerfect())

	result := a.Result("s1")
	if !result.Passed {
		t.Errorf("Expected pass when every criterion achieved at least once, got %+v", result.Criteria)
	}
	for _, o := range result.Criteria {
		if !o.Achieved {
			t.Errorf("Expected %s to be achieved", o.Criterion)
		}
	}
}

func TestAggregator_AchievedNeverResets(t *testing.T) {
	a := mustAggregator(t, drills.DrillHighLegMarch)

	// Ошибки после идеального кадра не отменяют зачет
	a.Feed(marchPerfect())
	a.Feed(marchTwoFails())
	a.Feed(marchTwoFails())

	result := a.Result("s1")
	if !result.Passed {
		t.Errorf("Expected achieved criteria to stay achieved, got %+v", result.Criteria)
	}
}

func TestAggregator_NoValidFramesFails(t *testing.T) {
	a := mustAggregator(t, drills.DrillHighLegMarch)

	a.Feed(marchLowVis())
	a.Feed(marchIdle())
	a.Feed(marchIdle())

	result := a.Result("s1")
	if result.Passed {
		t.Errorf("Session without valid frames must fail")
	}
	if result.TotalFrames != 3 || result.ValidFrames != 0 {
		t.Errorf("Expected 3 total / 0 valid frames, got %d/%d", result.TotalFrames, result.ValidFrames)
	}
	if result.LowVisibilityFrames != 1 || result.InactiveFrames != 2 {
		t.Errorf("Expected 1 low-visibility and 2 inactive frames, got %d and %d",
			result.LowVisibilityFrames, result.InactiveFrames)
	}
	if result.Exemplar != nil {
		t.Errorf("Expected no exemplar without valid frames, got %+v", result.Exemplar)
	}
}

func TestAggregator_SuccessExemplarFirstCleanFrame(t *testing.T) {
	a := mustAggregator(t, drills.DrillHighLegMarch)

	a.Feed(marchTwoFails()) // кадр 0
	a.Feed(marchPerfect())  // кадр 1 - первый чистый
	a.Feed(marchPerfect())  // кадр 2

	result := a.Result("s1")
	if result.Exemplar == nil {
		t.Fatalf("Expected exemplar frame")
	}
	if result.Exemplar.FrameIndex != 1 {
		t.Errorf("Expected first clean frame 1 as exemplar, got %d", result.Exemplar.FrameIndex)
	}
	if len(result.Exemplar.Failures) != 0 {
		t.Errorf("Success exemplar must carry no failures, got %v", result.Exemplar.Failures)
	}
}

func TestAggregator_FailureExemplarFewestFailures(t *testing.T) {
	a := mustAggregator(t, drills.DrillHighLegMarch)

	a.Feed(marchTwoFails()) // кадр 0: 2 ошибки
	a.Feed(marchOneFail())  // кадр 1: 1 ошибка
	a.Feed(marchTwoFails()) // кадр 2: 2 ошибки
	a.Feed(marchOneFail())  // кадр 3: 1 ошибка, позднее - предпочтительнее

	result := a.Result("s1")
	if result.Passed {
		t.Fatalf("Expected failing session")
	}
	if result.Exemplar == nil {
		t.Fatalf("Expected exemplar frame")
	}
	if result.Exemplar.FrameIndex != 3 {
		t.Errorf("Expected most recent frame with fewest failures (3), got %d", result.Exemplar.FrameIndex)
	}
	// Аннотация экземпляра - итоговые незачтенные проверки сессии
	if len(result.Exemplar.Failures) != 1 || result.Exemplar.Failures[0] != drills.CriterionKneeHeight {
		t.Errorf("Expected session-level knee_height failure, got %v", result.Exemplar.Failures)
	}
}

func TestAggregator_BestAnglesClosestToTarget(t *testing.T) {
	a := mustAggregator(t, drills.DrillHighLegMarch)

	a.Feed(marchTwoFails()) // сгиб бедра ~121 градус
	a.Feed(marchPerfect())  // сгиб бедра ровно 90

	result := a.Result("s1")
	best, ok := result.BestAngles[drills.AngleHipFlexion]
	if !ok {
		t.Fatalf("Expected best hip flexion angle")
	}
	if best < 89.5 || best > 90.5 {
		t.Errorf("Expected best hip flexion ~90, got %f", best)
	}
}

func TestAggregator_SaluteStabilityInsufficientData(t *testing.T) {
	a := mustAggregator(t, drills.DrillSalute)

	for i := 0; i < drills.HeadStabilityMinSamples-5; i++ {
		a.Feed(salutePerfect())
	}

	result := a.Result("s1")
	if result.Stability == nil {
		t.Fatalf("Expected stability summary for salute")
	}
	if result.Stability.Grade != StabilityInsufficientData {
		t.Errorf("Expected insufficient_data grade, got %s", result.Stability.Grade)
	}
	if result.Stability.Samples != drills.HeadStabilityMinSamples-5 {
		t.Errorf("Expected %d samples, got %d", drills.HeadStabilityMinSamples-5, result.Stability.Samples)
	}

	// Недостаток данных о стабильности не мешает зачету проверок
	if !result.Passed {
		t.Errorf("Expected pass despite insufficient stability data")
	}
}

func TestAggregator_SaluteStabilitySteadyHead(t *testing.T) {
	a := mustAggregator(t, drills.DrillSalute)

	for i := 0; i < 12; i++ {
		a.Feed(salutePerfect())
	}

	result := a.Result("s1")
	if result.Stability == nil {
		t.Fatalf("Expected stability summary for salute")
	}
	if result.Stability.Grade != StabilityVeryGood {
		t.Errorf("Expected very_good grade for motionless head, got %s", result.Stability.Grade)
	}
	if result.Stability.Deviation != 0 {
		t.Errorf("Expected zero deviation, got %f", result.Stability.Deviation)
	}
	if result.Stability.Samples != 12 {
		t.Errorf("Expected 12 samples, got %d", result.Stability.Samples)
	}
}

func TestAggregator_MarchHasNoStability(t *testing.T) {
	a := mustAggregator(t, drills.DrillHighLegMarch)
	a.Feed(marchPerfect())

	result := a.Result("s1")
	if result.Stability != nil {
		t.Errorf("March must not report head stability, got %+v", result.Stability)
	}
}

func TestAggregator_SnapshotRestore(t *testing.T) {
	a := mustAggregator(t, drills.DrillHighLegMarch)
	a.Feed(marchTwoFails())

	restored, err := Restore(a.Snapshot())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	restored.Feed(marchPerfect())

	result := restored.Result("s1")
	if !result.Passed {
		t.Errorf("Expected pass after restore and clean frame, got %+v", result.Criteria)
	}
	if result.TotalFrames != 2 || result.ValidFrames != 2 {
		t.Errorf("Expected 2 total / 2 valid frames after restore, got %d/%d",
			result.TotalFrames, result.ValidFrames)
	}
	if result.Exemplar == nil || result.Exemplar.FrameIndex != 1 {
		t.Errorf("Expected exemplar frame 1 after restore, got %+v", result.Exemplar)
	}
}

func TestAggregator_TurnHeelNeverLifted(t *testing.T) {
	a := mustAggregator(t, drills.DrillTurnLeft)

	// Приставление и финальная стойка есть, отрыва пятки не было
	a.Feed(turnSnap())
	a.Feed(turnSnap())
	a.Feed(turnFinal())

	result := a.Result("s1")
	if result.Passed {
		t.Fatalf("Expected fail when heel never disengaged")
	}

	heel, _ := findOutcome(result, drills.CriterionHeelDisengage)
	if heel.Achieved {
		t.Errorf("Expected heel_disengage to stay unachieved")
	}

	snap, _ := findOutcome(result, drills.CriterionSnapLift)
	final, _ := findOutcome(result, drills.CriterionFinalPosition)
	if !snap.Achieved || !final.Achieved {
		t.Errorf("Expected snap_lift and final_pos achieved, got snap=%t final=%t",
			snap.Achieved, final.Achieved)
	}
}
