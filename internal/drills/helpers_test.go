package drills

import (
	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/pose"
)

// vis делает видимую точку с уверенностью по умолчанию
func vis(x, y float64) pose.Point {
	return pose.Point{X: x, Y: y, Visibility: 0.9}
}

// marchFrame - эталонный кадр строевого шага: левое колено поднято до уровня
// бедра, сгибы бедра и колена 90 градусов, опорная нога выпрямлена,
// носок оттянут вниз под 90 градусов
func marchFrame() pose.RawFrame {
	return pose.RawFrame{
		pose.LeftShoulder:  vis(0.45, 0.20),
		pose.RightShoulder: vis(0.55, 0.20),
		pose.LeftHip:       vis(0.45, 0.50),
		pose.RightHip:      vis(0.55, 0.50),
		pose.LeftKnee:      vis(0.60, 0.50), // на уровне бедра
		pose.RightKnee:     vis(0.55, 0.70),
		pose.LeftAnkle:     vis(0.60, 0.65),
		pose.RightAnkle:    vis(0.55, 0.90),
		pose.LeftHeel:      vis(0.58, 0.66),
		pose.RightHeel:     vis(0.55, 0.92),
		pose.LeftFootIndex: vis(0.61, 0.67),
		pose.RightFootIndex: vis(0.57, 0.95),
	}
}

// saluteFrame - эталонный кадр приветствия правой рукой: плечо, локоть,
// запястье и палец на одной линии, палец в зоне цели у виска
func saluteFrame() pose.RawFrame {
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

// turnFinalFrame - стойка "смирно" после поворота: ноги выпрямлены,
// лодыжки сомкнуты, стопы на земле
func turnFinalFrame() pose.RawFrame {
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

// turnHeelLiftFrame - пятка движущейся (правой) ноги оторвана от земли,
// стопы еще не сомкнуты
func turnHeelLiftFrame() pose.RawFrame {
	return pose.RawFrame{
		pose.LeftHip:        vis(0.45, 0.50),
		pose.RightHip:       vis(0.55, 0.50),
		pose.LeftKnee:       vis(0.45, 0.70),
		pose.RightKnee:      vis(0.55, 0.70),
		pose.LeftAnkle:      vis(0.45, 0.90),
		pose.RightAnkle:     vis(0.55, 0.90),
		pose.LeftHeel:       vis(0.45, 0.92),
		pose.RightHeel:      vis(0.55, 0.88),
		pose.LeftFootIndex:  vis(0.44, 0.93),
		pose.RightFootIndex: vis(0.56, 0.91),
	}
}

// turnSnapFrame - активное приставление: правая нога согнута в колене
// меньше чем на 80 градусов
func turnSnapFrame() pose.RawFrame {
	return pose.RawFrame{
		pose.LeftHip:        vis(0.45, 0.50),
		pose.RightHip:       vis(0.55, 0.50),
		pose.LeftKnee:       vis(0.45, 0.70),
		pose.RightKnee:      vis(0.60, 0.68),
		pose.LeftAnkle:      vis(0.45, 0.90),
		pose.RightAnkle:     vis(0.726, 0.552), // голень подобрана под бедро
		pose.LeftHeel:       vis(0.45, 0.92),
		pose.RightHeel:      vis(0.74, 0.56),
		pose.LeftFootIndex:  vis(0.44, 0.93),
		pose.RightFootIndex: vis(0.70, 0.58),
	}
}

// turnIdleFrame - кадр без движения поворота: стопы на ширине, ноги прямые
func turnIdleFrame() pose.RawFrame {
	return pose.RawFrame{
		pose.LeftHip:        vis(0.45, 0.50),
		pose.RightHip:       vis(0.55, 0.50),
		pose.LeftKnee:       vis(0.45, 0.70),
		pose.RightKnee:      vis(0.55, 0.70),
		pose.LeftAnkle:      vis(0.45, 0.90),
		pose.RightAnkle:     vis(0.55, 0.90),
		pose.LeftHeel:       vis(0.45, 0.92),
		pose.RightHeel:      vis(0.55, 0.92),
		pose.LeftFootIndex:  vis(0.44, 0.93),
		pose.RightFootIndex: vis(0.56, 0.93),
	}
}

// findResult ищет результат проверки по идентификатору
func findResult(eval FrameEvaluation, c Criterion) (CriterionResult, bool) {
	for _, r := range eval.Results {
		if r.Criterion == c {
			return r, true
		}
	}
	return CriterionResult{}, false
}
