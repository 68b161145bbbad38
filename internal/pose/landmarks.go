package pose

import (
	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/geometry"
)

// Landmark - имя анатомической точки. Имена соответствуют соглашению
// MediaPipe Pose, внешний эстиматор отдает их в этом же виде.
type Landmark string

const (
	Nose Landmark = "nose"

	LeftEyeOuter  Landmark = "left_eye_outer"
	RightEyeOuter Landmark = "right_eye_outer"
	LeftEar       Landmark = "left_ear"
	RightEar      Landmark = "right_ear"

	LeftShoulder  Landmark = "left_shoulder"
	RightShoulder Landmark = "right_shoulder"
	LeftElbow     Landmark = "left_elbow"
	RightElbow    Landmark = "right_elbow"
	LeftWrist     Landmark = "left_wrist"
	RightWrist    Landmark = "right_wrist"
	LeftIndex     Landmark = "left_index"
	RightIndex    Landmark = "right_index"

	LeftHip        Landmark = "left_hip"
	RightHip       Landmark = "right_hip"
	LeftKnee       Landmark = "left_knee"
	RightKnee      Landmark = "right_knee"
	LeftAnkle      Landmark = "left_ankle"
	RightAnkle     Landmark = "right_ankle"
	LeftHeel       Landmark = "left_heel"
	RightHeel      Landmark = "right_heel"
	LeftFootIndex  Landmark = "left_foot_index"
	RightFootIndex Landmark = "right_foot_index"
)

// Point представляет именованную точку тела в одном кадре: нормализованные
// координаты плюс уверенность эстиматора в видимости точки
type Point struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}

// XY возвращает геометрическую проекцию точки без уверенности
func (p Point) XY() geometry.Point {
	return geometry.Point{X: p.X, Y: p.Y}
}

// RawFrame - сырой набор точек одного кадра, как его отдает эстиматор.
// Точки могут отсутствовать или иметь низкую видимость
type RawFrame map[Landmark]Point
