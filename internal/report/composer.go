// Package report строит человекочитаемый отчет из итога сессии оценки.
// Компоновка чистая: вход - финализированный итог, выход - отчет,
// никакого доступа к хранилищам или состоянию.
package report

import (
	"fmt"

	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/drills"
	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/session"
)

// Report - структурированный вердикт по сессии для клиента и аннотатора кадров
type Report struct {
	SessionID string       `json:"session_id"`
	Drill     drills.Drill `json:"drill"`
	Passed    bool         `json:"passed"`
	Verdict   string       `json:"verdict"`

	// Breakdown - построчный разбор по каждой проверке
	Breakdown []CriterionLine `json:"breakdown"`

	// Remarks - рекомендации по незачтенным проверкам
	Remarks []string `json:"remarks,omitempty"`

	// Exemplar - репрезентативный кадр с метками ошибок для аннотации
	Exemplar *session.Exemplar `json:"exemplar,omitempty"`

	// StabilityLine - отдельная строка о неподвижности головы,
	// не влияет на общий вердикт
	StabilityLine string `json:"stability_line,omitempty"`

	TotalFrames int `json:"total_frames"`
	ValidFrames int `json:"valid_frames"`
}

// CriterionLine - одна строка разбора: проверка, зачет и лучшие углы
type CriterionLine struct {
	Criterion drills.Criterion   `json:"criterion"`
	Label     string             `json:"label"`
	Achieved  bool               `json:"achieved"`
	Angles    map[string]float64 `json:"angles,omitempty"`
}

// Подписи проверок в отчете
var criterionLabels = map[drills.Criterion]string{
	drills.CriterionKneeHeight:      "Knee raised to hip level",
	drills.CriterionKneeAngle:       "Hip and knee flexed to 90 degrees",
	drills.CriterionStationaryLeg:   "Support leg locked straight",
	drills.CriterionFootAngle:       "Toe pointed down",
	drills.CriterionFingerPlacement: "Index finger at the temple",
	drills.CriterionHandForm:        "Hand held rigid in line with forearm",
	drills.CriterionElbowRaise:      "Arm raised with elbow nearly straight",
	drills.CriterionHeelDisengage:   "Heel lifted before the pivot",
	drills.CriterionSnapLift:        "Foot snapped up during the turn",
	drills.CriterionFinalPosition:   "Feet brought together, legs locked",
}

// Рекомендации по незачтенным проверкам
var criterionRemarks = map[drills.Criterion]string{
	drills.CriterionKneeHeight:      "Raise your knee until the thigh is parallel to the ground.",
	drills.CriterionKneeAngle:       "Keep both hip and knee bent at a right angle at the top of the step.",
	drills.CriterionStationaryLeg:   "Lock the support leg straight while the other leg is up.",
	drills.CriterionFootAngle:       "Point the toe of the raised foot down.",
	drills.CriterionFingerPlacement: "Bring your index finger to the outer edge of the right eyebrow.",
	drills.CriterionHandForm:        "Keep the hand flat and in line with the forearm, do not break the wrist.",
	drills.CriterionElbowRaise:      "Raise the elbow until the whole arm forms one straight line.",
	drills.CriterionHeelDisengage:   "Lift the heel of the moving foot before pivoting.",
	drills.CriterionSnapLift:        "Snap the moving foot up sharply when bringing it in.",
	drills.CriterionFinalPosition:   "Finish with heels together and both legs locked straight.",
}

// criterionAngles - какие вычисленные углы показывать в строке проверки
var criterionAngles = map[drills.Criterion][]string{
	drills.CriterionKneeAngle:     {drills.AngleHipFlexion, drills.AngleKneeBend},
	drills.CriterionStationaryLeg: {drills.AngleSupportKnee},
	drills.CriterionFootAngle:     {drills.AngleFootAngle},
	drills.CriterionHandForm:      {drills.AngleWrist},
	drills.CriterionElbowRaise:    {drills.AngleElbow},
}

// Compose строит отчет из финализированного итога сессии
func Compose(result *session.Result) *Report {
	report := &Report{
		SessionID:   result.SessionID,
		Drill:       result.Drill,
		Passed:      result.Passed,
		Exemplar:    result.Exemplar,
		TotalFrames: result.TotalFrames,
		ValidFrames: result.ValidFrames,
	}

	if result.ValidFrames == 0 {
		report.Verdict = "Analysis failed: no valid posture detected in any frame"
		return report
	}

	for _, outcome := range result.Criteria {
		line := CriterionLine{
			Criterion: outcome.Criterion,
			Label:     criterionLabels[outcome.Criterion],
			Achieved:  outcome.Achieved,
		}

		for _, name := range criterionAngles[outcome.Criterion] {
			if value, ok := result.BestAngles[name]; ok {
				if line.Angles == nil {
					line.Angles = make(map[string]float64)
				}
				line.Angles[name] = value
			}
		}

		report.Breakdown = append(report.Breakdown, line)

		if !outcome.Achieved {
			if remark, ok := criterionRemarks[outcome.Criterion]; ok {
				report.Remarks = append(report.Remarks, remark)
			}
		}
	}

	if result.Passed {
		report.Verdict = fmt.Sprintf("Drill %s performed correctly: all %d checks satisfied", result.Drill, len(result.Criteria))
	} else {
		failed := len(result.Criteria) - achievedCount(result.Criteria)
		report.Verdict = fmt.Sprintf("Drill %s not passed: %d of %d checks unsatisfied", result.Drill, failed, len(result.Criteria))
	}

	report.StabilityLine = stabilityLine(result.Stability)

	return report
}

func achievedCount(criteria []session.CriterionOutcome) int {
	n := 0
	for _, o := range criteria {
		if o.Achieved {
			n++
		}
	}
	return n
}

// stabilityLine формирует независимую строку о неподвижности головы
func stabilityLine(s *session.StabilitySummary) string {
	if s == nil {
		return ""
	}

	switch s.Grade {
	case session.StabilityInsufficientData:
		return fmt.Sprintf("Head stability: insufficient data (%d frames, need %d)", s.Samples, drills.HeadStabilityMinSamples)
	case session.StabilityVeryGood:
		return fmt.Sprintf("Head stability: very good (deviation %.4f)", s.Deviation)
	case session.StabilityModerate:
		return fmt.Sprintf("Head stability: moderate (deviation %.4f)", s.Deviation)
	default:
		return fmt.Sprintf("Head stability: unsteady (deviation %.4f), keep your head still", s.Deviation)
	}
}
