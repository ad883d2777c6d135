package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"log-analyzer/internal/models"
)

// PlaceholderName is the template marker replaced by the JSON payload, written
// as $table_json or ${table_json}.
const PlaceholderName = "table_json"

// placeholderPattern matches "$$", "${name}" and "$name".
var placeholderPattern = regexp.MustCompile(`\$(?:(\$)|\{([_a-zA-Z][_a-zA-Z0-9]*)\}|([_a-zA-Z][_a-zA-Z0-9]*))`)

// Renderer turns ranked statistics into report content.
//
//go:generate mockgen -source=renderer.go -destination=./mocks/renderer_mock.go -package=mocks
type Renderer interface {
	Render(ctx context.Context, stats []models.URLStats) ([]byte, error)
}

type renderer struct {
	templateFile string
}

func NewRenderer(templateFile string) Renderer {
	return &renderer{templateFile: templateFile}
}

// Render loads the template on every call so edits apply to the next report.
func (r *renderer) Render(ctx context.Context, stats []models.URLStats) ([]byte, error) {
	template, err := os.ReadFile(r.templateFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read report template %q: %w", r.templateFile, err)
	}

	payload, err := BuildPayload(stats)
	if err != nil {
		return nil, err
	}

	return Substitute(template, map[string][]byte{PlaceholderName: payload}), nil
}

// BuildPayload encodes stats as the JSON array the report template consumes.
func BuildPayload(stats []models.URLStats) ([]byte, error) {
	if stats == nil {
		stats = []models.URLStats{}
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report payload: %w", err)
	}
	return payload, nil
}

// Substitute replaces $name and ${name} markers found in values. Unknown markers
// and lone dollar signs are left verbatim and "$$" collapses to "$".
func Substitute(template []byte, values map[string][]byte) []byte {
	return placeholderPattern.ReplaceAllFunc(template, func(marker []byte) []byte {
		groups := placeholderPattern.FindSubmatch(marker)
		if len(groups[1]) > 0 {
			return []byte("$")
		}

		name := string(groups[2])
		if name == "" {
			name = string(groups[3])
		}
		if value, ok := values[name]; ok {
			return value
		}
		return marker
	})
}
