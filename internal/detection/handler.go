package detection

import (
	"context"

	pkgerrors "github.com/angelmondragon/nutritrack-backend/pkg/errors"
)

// ErrModelNotLoaded is returned when Process runs before a successful Load.
var ErrModelNotLoaded = pkgerrors.New(pkgerrors.CodeStateConflict, "detection model not loaded")

// BoundingBox locates one detection in normalized [0,1] image coordinates.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Detection is one object the model found in the frame.
type Detection struct {
	Class      string      `json:"class"`
	Confidence float64     `json:"confidence"`
	Box        BoundingBox `json:"box"`
}

// Frame is a decoded image normalized to tightly packed RGBA pixels.
type Frame struct {
	Width  int
	Height int
	Pixels []uint8
}

// ModelHandler abstracts a detection backend so the concrete model is
// swappable. Load may be called more than once; implementations must make it
// idempotent.
type ModelHandler interface {
	Load(ctx context.Context) error
	Unload(ctx context.Context) error
	Process(ctx context.Context, frame Frame) ([]Detection, error)
	IsLoaded() bool
}
