package chart

import "math"

// Bounds is a data-space rectangle.
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// Union grows b to include o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, o.MinX),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// LinearScale maps data values in [Min, Max] onto pixels in [Start, End].
// End may be smaller than Start for axes that grow upward.
type LinearScale struct {
	Min, Max   float64
	Start, End float64
}

func NewLinearScale(start, end float64) *LinearScale {
	return &LinearScale{Min: -1, Max: 1, Start: start, End: end}
}

func (s *LinearScale) Pixel(v float64) float64 {
	span := s.Max - s.Min
	if span == 0 {
		return (s.Start + s.End) / 2
	}
	return s.Start + (v-s.Min)/span*(s.End-s.Start)
}

// Value is the inverse of Pixel.
func (s *LinearScale) Value(px float64) float64 {
	span := s.End - s.Start
	if span == 0 {
		return s.Min
	}
	return s.Min + (px-s.Start)/span*(s.Max-s.Min)
}

// BasePixel is the pixel of zero, or of the range edge nearest zero when
// zero is outside [Min, Max].
func (s *LinearScale) BasePixel() float64 {
	base := 0.0
	switch {
	case s.Min > 0:
		base = s.Min
	case s.Max < 0:
		base = s.Max
	}
	return s.Pixel(base)
}

// Fit sets the value range to [min, max] padded by pad (a fraction of the
// span). A degenerate range is widened to one unit either side.
func (s *LinearScale) Fit(min, max, pad float64) {
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return
	}
	if max < min {
		min, max = max, min
	}
	if max-min < 1e-9 {
		min, max = min-1, max+1
	}
	p := (max - min) * pad
	s.Min, s.Max = min-p, max+p
}
