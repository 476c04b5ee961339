package persona

import (
	_ "embed"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"portfolio-chat/internal/types"
)

//go:embed persona.yaml
var defaultSpec []byte

// Spec is the fixed persona sent as the system prompt of every completion.
type Spec struct {
	Owner   string            `yaml:"owner"`
	Prompts map[string]string `yaml:"prompts"`
	Style   struct {
		Temperature float32 `yaml:"temperature"`
		MaxTokens   int     `yaml:"max_tokens"`
	} `yaml:"style"`
}

// Default returns the embedded persona.
func Default() *Spec {
	spec, err := Parse(defaultSpec)
	if err != nil {
		panic(err)
	}
	return spec
}

// Load reads a persona from path, or the embedded one when path is empty.
func Load(path string) (*Spec, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read persona file %s", path)
	}
	spec, err := Parse(b)
	if err != nil {
		return nil, errors.Wrapf(err, "persona file %s", path)
	}
	return spec, nil
}

// Parse decodes a YAML persona. The English prompt is mandatory since every
// other language falls back to it.
func Parse(b []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return nil, errors.Wrap(err, "decode persona")
	}
	if strings.TrimSpace(spec.Prompts[string(types.LanguageEnglish)]) == "" {
		return nil, errors.New("persona has no English prompt")
	}
	return &spec, nil
}

// Prompt returns the system prompt for lang, defaulting to English.
func (s *Spec) Prompt(lang types.Language) string {
	if p := strings.TrimSpace(s.Prompts[string(lang)]); p != "" {
		return p
	}
	return strings.TrimSpace(s.Prompts[string(types.LanguageEnglish)])
}

// Options returns the persona's sampling style, using the given values where
// the persona leaves them unset.
func (s *Spec) Options(temperature float32, maxTokens int) (float32, int) {
	if s.Style.Temperature > 0 {
		temperature = s.Style.Temperature
	}
	if s.Style.MaxTokens > 0 {
		maxTokens = s.Style.MaxTokens
	}
	return temperature, maxTokens
}
