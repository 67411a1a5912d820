package detection

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync/atomic"

	openai "github.com/sashabaranov/go-openai"

	"github.com/angelmondragon/nutritrack-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/nutritrack-backend/pkg/errors"
)

const visionPrompt = `Identify every food ingredient visible in this image.
Respond with a JSON array only, no prose. Each element:
{"class":"<lowercase ingredient name>","confidence":<0..1>,"box":{"x":<0..1>,"y":<0..1>,"width":<0..1>,"height":<0..1>}}`

// OpenAIHandler runs detection through a vision-capable chat model.
type OpenAIHandler struct {
	client *openai.Client
	model  string
	loaded atomic.Bool
}

// NewOpenAIHandler constructs the OpenAI-backed detection handler.
func NewOpenAIHandler(cfg config.DetectionConfig) (*OpenAIHandler, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("openai api key required")
	}
	return &OpenAIHandler{
		client: openai.NewClient(cfg.OpenAIKey),
		model:  cfg.OpenAIModel,
	}, nil
}

// Load marks the handler ready. The HTTP client needs no warmup; the flag
// exists to honor the handler lifecycle.
func (h *OpenAIHandler) Load(_ context.Context) error {
	h.loaded.Store(true)
	return nil
}

func (h *OpenAIHandler) Unload(_ context.Context) error {
	h.loaded.Store(false)
	return nil
}

func (h *OpenAIHandler) IsLoaded() bool {
	return h.loaded.Load()
}

func (h *OpenAIHandler) Process(ctx context.Context, frame Frame) ([]Detection, error) {
	if !h.loaded.Load() {
		return nil, ErrModelNotLoaded
	}
	dataURL, err := encodeFramePNG(frame)
	if err != nil {
		return nil, err
	}

	resp, err := h.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: h.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: visionPrompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "openai detection call failed")
	}
	if len(resp.Choices) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "openai returned no choices")
	}
	return parseDetections(resp.Choices[0].Message.Content)
}

// parseDetections reads the model's JSON answer, tolerating a markdown code
// fence around it.
func parseDetections(content string) ([]Detection, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var detections []Detection
	if err := json.Unmarshal([]byte(content), &detections); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unparseable detection response")
	}
	return detections, nil
}

func encodeFramePNG(frame Frame) (string, error) {
	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	copy(img.Pix, frame.Pixels)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode frame: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
