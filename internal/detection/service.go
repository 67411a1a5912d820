package detection

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"strings"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/angelmondragon/nutritrack-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/nutritrack-backend/pkg/errors"
	"github.com/angelmondragon/nutritrack-backend/pkg/logger"
	"github.com/angelmondragon/nutritrack-backend/pkg/models"
)

// IngredientSuggestion links a detection class to a catalog entry when one
// matches by name.
type IngredientSuggestion struct {
	Class        string  `json:"class"`
	Confidence   float64 `json:"confidence"`
	IngredientID string  `json:"ingredient_id,omitempty"`
	Name         string  `json:"name,omitempty"`
}

// Result is the outcome of one image analysis.
type Result struct {
	Width       int                    `json:"width"`
	Height      int                    `json:"height"`
	Detections  []Detection            `json:"detections"`
	Suggestions []IngredientSuggestion `json:"suggestions"`
	AnalyzedAt  time.Time              `json:"analyzed_at"`
}

// Service analyzes images for ingredients.
type Service interface {
	Analyze(ctx context.Context, imageData string) (*Result, error)
	Close(ctx context.Context) error
}

type ingredientSearcher interface {
	Search(ctx context.Context, query string) ([]models.Ingredient, error)
}

type service struct {
	handler     ModelHandler
	ingredients ingredientSearcher
	cfg         config.DetectionConfig
	logg        *logger.Logger
	nowFn       func() time.Time

	loadMu sync.Mutex
}

// NewService constructs the detection service around an injectable handler.
func NewService(handler ModelHandler, ingredients ingredientSearcher, cfg config.DetectionConfig, logg *logger.Logger) (Service, error) {
	if handler == nil {
		return nil, fmt.Errorf("model handler required")
	}
	if ingredients == nil {
		return nil, fmt.Errorf("ingredient searcher required")
	}
	return &service{
		handler:     handler,
		ingredients: ingredients,
		cfg:         cfg,
		logg:        logg,
		nowFn:       time.Now,
	}, nil
}

// Analyze decodes the image, runs the model lazily loading it on first use,
// drops detections below the confidence floor, and joins the survivors
// against the ingredient catalog by name.
func (s *service) Analyze(ctx context.Context, imageData string) (*Result, error) {
	frame, err := decodeFrame(imageData)
	if err != nil {
		return nil, err
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	detections, err := s.handler.Process(ctx, *frame)
	if err != nil {
		return nil, err
	}

	kept := make([]Detection, 0, len(detections))
	for _, detection := range detections {
		if detection.Confidence < s.cfg.MinConfidence {
			continue
		}
		kept = append(kept, detection)
	}

	result := &Result{
		Width:       frame.Width,
		Height:      frame.Height,
		Detections:  kept,
		Suggestions: make([]IngredientSuggestion, 0, len(kept)),
		AnalyzedAt:  s.nowFn().UTC(),
	}
	for _, detection := range kept {
		suggestion := IngredientSuggestion{
			Class:      detection.Class,
			Confidence: detection.Confidence,
		}
		matches, err := s.ingredients.Search(ctx, detection.Class)
		if err != nil {
			if s.logg != nil {
				s.logg.Error(ctx, "ingredient lookup failed for detection class "+detection.Class, err)
			}
		} else if len(matches) > 0 {
			suggestion.IngredientID = matches[0].ID
			suggestion.Name = matches[0].Name
		}
		result.Suggestions = append(result.Suggestions, suggestion)
	}
	return result, nil
}

// Close unloads the model if it was ever loaded.
func (s *service) Close(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if !s.handler.IsLoaded() {
		return nil
	}
	return s.handler.Unload(ctx)
}

func (s *service) ensureLoaded(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if s.handler.IsLoaded() {
		return nil
	}
	if err := s.handler.Load(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load detection model")
	}
	if s.logg != nil {
		s.logg.Info(ctx, "detection model loaded")
	}
	return nil
}

// decodeFrame accepts a data URL or bare base64 and normalizes the image to
// tightly packed RGBA.
func decodeFrame(imageData string) (*Frame, error) {
	imageData = strings.TrimSpace(imageData)
	if imageData == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image data is required")
	}
	if strings.HasPrefix(imageData, "data:") {
		_, payload, found := strings.Cut(imageData, ",")
		if !found {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "malformed image data url")
		}
		imageData = payload
	}

	raw, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image data is not valid base64")
	}
	decoded, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported or corrupt image")
	}

	bounds := decoded.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), decoded, bounds.Min, draw.Src)
	return &Frame{Width: bounds.Dx(), Height: bounds.Dy(), Pixels: rgba.Pix}, nil
}
