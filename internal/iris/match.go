package iris

import (
	"github.com/irisgate/irisgate/internal/model"
)

// MatcherConfig holds the matching parameters.
type MatcherConfig struct {
	// Rotations is the symmetric circular shift range tried on the
	// second template to absorb small angular misalignment between
	// enrollment and live capture
	Rotations int

	// MinValidBits is the smallest mask intersection a shift needs to
	// contribute a distance; below it the shift carries too little
	// reliable signal and is skipped
	MinValidBits int

	// Threshold is the Hamming distance at or below which two
	// templates are declared a match
	Threshold float64
}

// DefaultMatcherConfig returns the parameters the engine was tuned with.
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		Rotations:    8,
		MinValidBits: 50,
		Threshold:    0.35,
	}
}

// MatchResult is the outcome of comparing two iris templates.
type MatchResult struct {
	// Distance is the best masked Hamming distance over all evaluated
	// shifts; 1.0 when no shift had enough valid bits
	Distance float64

	// Shift is the circular offset that produced Distance
	Shift int

	// IsMatch reports whether Distance is at or below the threshold
	IsMatch bool
}

// Matcher compares iris templates under small rotational misalignment.
type Matcher struct {
	cfg MatcherConfig
}

// NewMatcher creates a Matcher with the given config.
func NewMatcher(cfg MatcherConfig) *Matcher {
	return &Matcher{cfg: cfg}
}

// Match compares two templates of equal length. For every circular
// shift in [-Rotations, Rotations] it intersects the masks, skips
// shifts with too few valid bits, and measures the fraction of
// disagreeing code bits over the intersection. The smallest such
// fraction wins. Too little mask overlap everywhere yields the defined
// non-match (distance 1.0 at shift 0) rather than an error.
func (m *Matcher) Match(t1, t2 *model.IrisTemplate) (MatchResult, error) {
	if t1.Len() != t2.Len() || t1.Len() == 0 {
		return MatchResult{Distance: 1.0}, model.ErrTemplateLengthMismatch
	}

	noMatch := MatchResult{Distance: 1.0, Shift: 0, IsMatch: false}

	// With no overlap at shift 0 there is no reliable signal at all
	overlap := 0
	for i := range t1.Mask {
		if t1.Mask[i] && t2.Mask[i] {
			overlap++
		}
	}
	if overlap == 0 {
		return noMatch, nil
	}

	n := t1.Len()
	bestDist, bestShift := 1.0, 0
	evaluated := false

	for s := -m.cfg.Rotations; s <= m.cfg.Rotations; s++ {
		valid, differ := 0, 0
		for i := 0; i < n; i++ {
			// Position i of the shifted template holds the bit that
			// was at i-s before rotation
			j := i - s
			if j < 0 {
				j += n
			} else if j >= n {
				j -= n
			}
			if !t1.Mask[i] || !t2.Mask[j] {
				continue
			}
			valid++
			if t1.Code[i] != t2.Code[j] {
				differ++
			}
		}
		if valid < m.cfg.MinValidBits {
			continue
		}
		evaluated = true
		dist := float64(differ) / float64(valid)
		if dist < bestDist {
			bestDist, bestShift = dist, s
		}
	}

	if !evaluated {
		return noMatch, nil
	}

	return MatchResult{
		Distance: bestDist,
		Shift:    bestShift,
		IsMatch:  bestDist <= m.cfg.Threshold,
	}, nil
}

// Rotate returns a copy of the template with code and mask circularly
// shifted by s positions (positive s moves bits toward higher indices).
// Exposed for tests and capture diagnostics.
func Rotate(t *model.IrisTemplate, s int) *model.IrisTemplate {
	n := t.Len()
	out := &model.IrisTemplate{
		Code: make([]bool, n),
		Mask: make([]bool, n),
	}
	for i := 0; i < n; i++ {
		j := i + s
		j %= n
		if j < 0 {
			j += n
		}
		out.Code[j] = t.Code[i]
		out.Mask[j] = t.Mask[i]
	}
	return out
}
