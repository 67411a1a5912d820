package detection

import (
	"context"
	"sync/atomic"
)

// StubHandler is the default backend when no model is configured. It answers
// every frame with the same plausible detection set so the surrounding
// pipeline (decoding, confidence filtering, ingredient matching) stays
// exercisable without model weights.
type StubHandler struct {
	loaded atomic.Bool
}

// NewStubHandler constructs the placeholder backend.
func NewStubHandler() *StubHandler {
	return &StubHandler{}
}

func (h *StubHandler) Load(_ context.Context) error {
	h.loaded.Store(true)
	return nil
}

func (h *StubHandler) Unload(_ context.Context) error {
	h.loaded.Store(false)
	return nil
}

func (h *StubHandler) IsLoaded() bool {
	return h.loaded.Load()
}

func (h *StubHandler) Process(_ context.Context, _ Frame) ([]Detection, error) {
	if !h.loaded.Load() {
		return nil, ErrModelNotLoaded
	}
	return []Detection{
		{
			Class:      "tomato",
			Confidence: 0.92,
			Box:        BoundingBox{X: 0.12, Y: 0.08, Width: 0.35, Height: 0.4},
		},
		{
			Class:      "onion",
			Confidence: 0.81,
			Box:        BoundingBox{X: 0.55, Y: 0.3, Width: 0.25, Height: 0.3},
		},
		{
			Class:      "garlic",
			Confidence: 0.34,
			Box:        BoundingBox{X: 0.7, Y: 0.75, Width: 0.1, Height: 0.12},
		},
	}, nil
}
