package pose

import (
	"errors"
	"fmt"
)

// MinVisibility - минимальная уверенность, при которой точке можно доверять
const MinVisibility = 0.5

// ErrLowVisibility возвращается, когда обязательная точка отсутствует
// или видна недостаточно уверенно
var ErrLowVisibility = errors.New("required landmark missing or below visibility threshold")

// Frame - проверенное представление кадра: все обязательные точки
// присутствуют и видны с достаточной уверенностью
type Frame struct {
	points RawFrame
}

// Adapt проверяет сырой кадр по списку обязательных точек дрилла.
// Кадр отклоняется, если хоть одна обязательная точка отсутствует или
// имеет видимость ниже MinVisibility. Функция чистая, без побочных эффектов.
func Adapt(raw RawFrame, required []Landmark) (*Frame, error) {
	for _, name := range required {
		p, ok := raw[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s absent", ErrLowVisibility, name)
		}
		if p.Visibility < MinVisibility {
			return nil, fmt.Errorf("%w: %s visibility=%.2f", ErrLowVisibility, name, p.Visibility)
		}
	}

	return &Frame{points: raw}, nil
}

// Point возвращает точку по имени. Для точек из списка обязательных
// при адаптации наличие гарантировано
func (f *Frame) Point(name Landmark) Point {
	return f.points[name]
}

// Has проверяет, видна ли необязательная точка достаточно уверенно
func (f *Frame) Has(name Landmark) bool {
	p, ok := f.points[name]
	return ok && p.Visibility >= MinVisibility
}
