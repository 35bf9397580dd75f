package geometry

import "math"

// SizeRequest describes how flexibly a component can be sized on each axis.
type SizeRequest struct {
	MinWidth  float64 `json:"min_width"`
	MinHeight float64 `json:"min_height"`
	MaxWidth  float64 `json:"max_width"`
	MaxHeight float64 `json:"max_height"`
}

// NewSizeRequest builds a request from its bounds. Negative values are raised
// to zero and each maximum is raised to its minimum.
func NewSizeRequest(minW, minH, maxW, maxH float64) SizeRequest {
	minW, minH = math.Max(minW, 0), math.Max(minH, 0)
	return SizeRequest{
		MinWidth:  minW,
		MinHeight: minH,
		MaxWidth:  math.Max(maxW, minW),
		MaxHeight: math.Max(maxH, minH),
	}
}

// Fixed requests exactly w by h.
func Fixed(w, h float64) SizeRequest {
	return NewSizeRequest(w, h, w, h)
}

// Fill requests any size, preferring as much space as is offered.
func Fill() SizeRequest {
	return SizeRequest{MaxWidth: math.MaxFloat64, MaxHeight: math.MaxFloat64}
}

// Get clamps the available size into the request's range on each axis.
func (r SizeRequest) Get(available Size) Size {
	return Size{
		W: clamp(available.W, r.MinWidth, r.MaxWidth),
		H: clamp(available.H, r.MinHeight, r.MaxHeight),
	}
}

// Add grows both bounds of each axis by w and h.
func (r SizeRequest) Add(w, h float64) SizeRequest {
	return NewSizeRequest(r.MinWidth+w, r.MinHeight+h, addSaturating(r.MaxWidth, w), addSaturating(r.MaxHeight, h))
}

// MergeRequests returns the envelope of reqs: the smallest minimum and the
// largest maximum per axis. With no requests it returns the zero request.
func MergeRequests(reqs ...SizeRequest) SizeRequest {
	if len(reqs) == 0 {
		return SizeRequest{}
	}

	merged := reqs[0]
	for _, r := range reqs[1:] {
		merged.MinWidth = math.Min(merged.MinWidth, r.MinWidth)
		merged.MinHeight = math.Min(merged.MinHeight, r.MinHeight)
		merged.MaxWidth = math.Max(merged.MaxWidth, r.MaxWidth)
		merged.MaxHeight = math.Max(merged.MaxHeight, r.MaxHeight)
	}
	return merged
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// addSaturating keeps MaxFloat64 (a Fill bound) from overflowing to +Inf.
func addSaturating(v, d float64) float64 {
	if v >= math.MaxFloat64-d {
		return math.MaxFloat64
	}
	return v + d
}
