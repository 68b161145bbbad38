package session

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/drills"
	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/pose"
)

// State - сериализуемое состояние агрегации, хранится в Redis между
// кадрами, чтобы сессию мог продолжить любой экземпляр сервиса
type State struct {
	Drill               drills.Drill              `json:"drill"`
	TotalFrames         int                       `json:"total_frames"`
	ValidFrames         int                       `json:"valid_frames"`
	LowVisibilityFrames int                       `json:"low_visibility_frames"`
	InactiveFrames      int                       `json:"inactive_frames"`
	Achieved            map[drills.Criterion]bool `json:"achieved"`
	BestAngles          map[string]float64        `json:"best_angles,omitempty"`

	// Индекс первого кадра без единой ошибки, -1 если такого не было
	SuccessFrame int `json:"success_frame"`

	// Лучший из неидеальных кадров: минимум ошибок, при равенстве - более
	// поздний кадр
	BestFailFrame int                `json:"best_fail_frame"`
	BestFailures  []drills.Criterion `json:"best_failures,omitempty"`

	// Траектория носа для оценки неподвижности головы
	HeadXs []float64 `json:"head_xs,omitempty"`
	HeadYs []float64 `json:"head_ys,omitempty"`
}

// Aggregator накапливает покадровые оценки в кумулятивный итог сессии.
// Каждая проверка засчитывается, если выполнена хотя бы в одном пригодном
// кадре: оценивается лучший момент исполнения, а не каждый кадр подряд.
type Aggregator struct {
	evaluator drills.Evaluator
	state     *State
}

// NewAggregator создает агрегатор для указанного дрилла
func NewAggregator(d drills.Drill) (*Aggregator, error) {
	evaluator, err := drills.NewEvaluator(d)
	if err != nil {
		return nil, err
	}

	achieved := make(map[drills.Criterion]bool, len(evaluator.Criteria()))
	for _, c := range evaluator.Criteria() {
		achieved[c] = false
	}

	return &Aggregator{
		evaluator: evaluator,
		state: &State{
			Drill:         d,
			Achieved:      achieved,
			BestAngles:    make(map[string]float64),
			SuccessFrame:  -1,
			BestFailFrame: -1,
		},
	}, nil
}

// Restore восстанавливает агрегатор из сохраненного состояния
func Restore(state *State) (*Aggregator, error) {
	evaluator, err := drills.NewEvaluator(state.Drill)
	if err != nil {
		return nil, err
	}

	if state.Achieved == nil {
		state.Achieved = make(map[drills.Criterion]bool)
	}
	if state.BestAngles == nil {
		state.BestAngles = make(map[string]float64)
	}

	return &Aggregator{evaluator: evaluator, state: state}, nil
}

// Feed оценивает очередной кадр и вливает результат в состояние сессии
func (a *Aggregator) Feed(raw pose.RawFrame) drills.FrameEvaluation {
	s := a.state
	frameIndex := s.TotalFrames
	s.TotalFrames++

	eval := a.evaluator.Evaluate(raw)

	switch eval.Status {
	case drills.EvalLowVisibility:
		s.LowVisibilityFrames++
		return eval
	case drills.EvalNoActivePose:
		s.InactiveFrames++
		return eval
	}

	s.ValidFrames++

	for _, res := range eval.Results {
		if res.Satisfied {
			s.Achieved[res.Criterion] = true
		}
	}

	// Запоминаем углы, наиболее близкие к эталонным за все кадры
	for name, target := range drills.AngleTargets(s.Drill) {
		value, ok := eval.Angles[name]
		if !ok {
			continue
		}
		current, seen := s.BestAngles[name]
		if !seen || closer(value, current, target) {
			s.BestAngles[name] = value
		}
	}

	// Выбор репрезентативных кадров
	if len(eval.FailPoints) == 0 {
		if s.SuccessFrame < 0 {
			s.SuccessFrame = frameIndex
		}
	} else if s.BestFailFrame < 0 || len(eval.FailPoints) <= len(s.BestFailures) {
		s.BestFailFrame = frameIndex
		s.BestFailures = append([]drills.Criterion(nil), eval.FailPoints...)
	}

	if eval.StabilityPoint != nil {
		s.HeadXs = append(s.HeadXs, eval.StabilityPoint.X)
		s.HeadYs = append(s.HeadYs, eval.StabilityPoint.Y)
	}

	return eval
}

// closer сообщает, ближе ли value к target, чем current
func closer(value, current, target float64) bool {
	dv := value - target
	if dv < 0 {
		dv = -dv
	}
	dc := current - target
	if dc < 0 {
		dc = -dc
	}
	return dv < dc
}

// Snapshot возвращает копию состояния для записи в кэш
func (a *Aggregator) Snapshot() *State {
	s := a.state
	snap := *s

	snap.Achieved = make(map[drills.Criterion]bool, len(s.Achieved))
	for c, v := range s.Achieved {
		snap.Achieved[c] = v
	}
	snap.BestAngles = make(map[string]float64, len(s.BestAngles))
	for n, v := range s.BestAngles {
		snap.BestAngles[n] = v
	}
	snap.BestFailures = append([]drills.Criterion(nil), s.BestFailures...)
	snap.HeadXs = append([]float64(nil), s.HeadXs...)
	snap.HeadYs = append([]float64(nil), s.HeadYs...)

	return &snap
}

// Result строит итог сессии из текущего состояния.
// Сессия без единого пригодного кадра считается проваленной.
func (a *Aggregator) Result(sessionID string) *Result {
	s := a.state

	criteria := make([]CriterionOutcome, 0, len(a.evaluator.Criteria()))
	var unsatisfied []drills.Criterion
	passed := s.ValidFrames > 0
	for _, c := range a.evaluator.Criteria() {
		achieved := s.Achieved[c]
		if !achieved {
			passed = false
			unsatisfied = append(unsatisfied, c)
		}
		criteria = append(criteria, CriterionOutcome{Criterion: c, Achieved: achieved})
	}

	result := &Result{
		SessionID:           sessionID,
		Drill:               s.Drill,
		Passed:              passed,
		TotalFrames:         s.TotalFrames,
		ValidFrames:         s.ValidFrames,
		LowVisibilityFrames: s.LowVisibilityFrames,
		InactiveFrames:      s.InactiveFrames,
		Criteria:            criteria,
		UpdatedAt:           time.Now(),
	}

	if len(s.BestAngles) > 0 {
		result.BestAngles = make(map[string]float64, len(s.BestAngles))
		for n, v := range s.BestAngles {
			result.BestAngles[n] = v
		}
	}

	result.Exemplar = a.exemplar(passed, unsatisfied)

	if s.Drill == drills.DrillSalute {
		result.Stability = a.stability()
	}

	return result
}

// exemplar выбирает репрезентативный кадр. При успехе - первый кадр без
// ошибок, при провале - кадр с наименьшим числом ошибок, аннотированный
// итоговыми незачтенными проверками сессии, а не ошибками самого кадра.
func (a *Aggregator) exemplar(passed bool, unsatisfied []drills.Criterion) *Exemplar {
	s := a.state

	if passed && s.SuccessFrame >= 0 {
		return &Exemplar{FrameIndex: s.SuccessFrame}
	}

	frame := s.BestFailFrame
	if frame < 0 {
		frame = s.SuccessFrame
	}
	if frame < 0 {
		return nil
	}
	return &Exemplar{
		FrameIndex: frame,
		Failures:   append([]drills.Criterion(nil), unsatisfied...),
	}
}

// stability оценивает неподвижность головы как сумму стандартных
// отклонений позиции носа по обеим осям
func (a *Aggregator) stability() *StabilitySummary {
	s := a.state
	samples := len(s.HeadXs)

	if samples < drills.HeadStabilityMinSamples {
		return &StabilitySummary{Samples: samples, Grade: StabilityInsufficientData}
	}

	deviation := stat.PopStdDev(s.HeadXs, nil) + stat.PopStdDev(s.HeadYs, nil)

	grade := StabilityUnsteady
	switch {
	case deviation < drills.HeadStabilityVeryGood:
		grade = StabilityVeryGood
	case deviation < drills.HeadStabilityModerate:
		grade = StabilityModerate
	}

	return &StabilitySummary{Samples: samples, Deviation: deviation, Grade: grade}
}
