package iris

import (
	"image"

	"github.com/irisgate/irisgate/internal/model"
)

// Engine bundles the three pipeline stages behind the two operations
// the rest of the system needs: turning an eye image into a template,
// and comparing two templates.
type Engine struct {
	normalizer *Normalizer
	encoder    *Encoder
	matcher    *Matcher
}

// NewEngine creates an Engine from explicit stage configs.
func NewEngine(nc NormalizerConfig, ec EncoderConfig, mc MatcherConfig) *Engine {
	return &Engine{
		normalizer: NewNormalizer(nc),
		encoder:    NewEncoder(ec),
		matcher:    NewMatcher(mc),
	}
}

// NewDefaultEngine creates an Engine with the tuned default parameters.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultNormalizerConfig(), DefaultEncoderConfig(), DefaultMatcherConfig())
}

// CreateTemplate encodes an eye-region image into an iris template.
func (e *Engine) CreateTemplate(img image.Image) *model.IrisTemplate {
	return e.encoder.Encode(e.normalizer.Normalize(img))
}

// Compare matches two templates produced by this engine.
func (e *Engine) Compare(t1, t2 *model.IrisTemplate) (MatchResult, error) {
	return e.matcher.Match(t1, t2)
}
