package iris

import (
	"math"

	"github.com/irisgate/irisgate/internal/model"
)

// EncoderConfig holds the filter bank and validity mask parameters.
type EncoderConfig struct {
	// Orientations is the number of Gabor kernels, evenly spaced over
	// [0, pi)
	Orientations int

	// Gabor kernel shape
	KernelSize int
	Sigma      float64
	Lambda     float64
	Gamma      float64
	Psi        float64

	// Validity mask: a strip position participates in matching only if
	// its intensity lies strictly inside (SaturationLow, SaturationHigh)
	// and the local Laplacian magnitude exceeds FlatnessThreshold
	SaturationLow     float64
	SaturationHigh    float64
	FlatnessThreshold float64
}

// DefaultEncoderConfig returns the parameters the engine was tuned with.
func DefaultEncoderConfig() EncoderConfig {
	return EncoderConfig{
		Orientations:      4,
		KernelSize:        21,
		Sigma:             4.0,
		Lambda:            8.0,
		Gamma:             0.5,
		Psi:               0,
		SaturationLow:     25,
		SaturationHigh:    230,
		FlatnessThreshold: 1.0,
	}
}

// Encoder turns a normalized strip into a binary iris template. It is
// deterministic, has no side effects, and is safe to run standalone for
// enrollment or live comparison.
type Encoder struct {
	cfg  EncoderConfig
	bank [][]float64 // zero-mean Gabor kernels, row-major KernelSize x KernelSize
}

// NewEncoder creates an Encoder, precomputing its filter bank.
func NewEncoder(cfg EncoderConfig) *Encoder {
	e := &Encoder{cfg: cfg}
	e.bank = make([][]float64, cfg.Orientations)
	for k := 0; k < cfg.Orientations; k++ {
		theta := math.Pi * float64(k) / float64(cfg.Orientations)
		e.bank[k] = gaborKernel(cfg.KernelSize, cfg.Sigma, theta, cfg.Lambda, cfg.Gamma, cfg.Psi)
	}
	return e
}

// TemplateLen returns the bit length of templates produced from a strip
// of the given dimensions.
func (e *Encoder) TemplateLen(s *Strip) int {
	return s.Rows * s.Cols * e.cfg.Orientations
}

// Encode produces the iris template for a normalized strip. The code
// holds one sign bit per strip position per orientation; the 2D
// validity mask is replicated across all orientations. Both are
// flattened pixel-major with the orientation bits of one position kept
// adjacent.
func (e *Encoder) Encode(s *Strip) *model.IrisTemplate {
	k := e.cfg.Orientations
	n := s.Rows * s.Cols * k
	code := make([]bool, n)
	mask := make([]bool, n)

	valid := e.validityMask(s)

	for ki, kern := range e.bank {
		resp := correlate(s, kern, e.cfg.KernelSize)
		for i := 0; i < s.Rows*s.Cols; i++ {
			idx := i*k + ki
			code[idx] = resp[i] >= 0
			mask[idx] = valid[i]
		}
	}

	return &model.IrisTemplate{Code: code, Mask: mask}
}

// validityMask flags positions with usable texture: not saturated, not
// near-black, and locally non-flat under the Laplacian.
func (e *Encoder) validityMask(s *Strip) []bool {
	lap := laplacian(s)
	valid := make([]bool, s.Rows*s.Cols)
	for i, v := range s.Pix {
		valid[i] = v > e.cfg.SaturationLow && v < e.cfg.SaturationHigh &&
			math.Abs(lap[i]) > e.cfg.FlatnessThreshold
	}
	return valid
}

// laplacian applies the 3x3 second-derivative kernel with reflected borders.
func laplacian(s *Strip) []float64 {
	out := make([]float64, s.Rows*s.Cols)
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Cols; c++ {
			center := s.At(r, c)
			out[r*s.Cols+c] = s.At(reflect(r-1, s.Rows), c) +
				s.At(reflect(r+1, s.Rows), c) +
				s.At(r, reflect(c-1, s.Cols)) +
				s.At(r, reflect(c+1, s.Cols)) -
				4*center
		}
	}
	return out
}

// reflect mirrors an out-of-range index back into [0, n) without
// repeating the border sample (OpenCV's reflect-101 convention).
func reflect(i, n int) int {
	if i < 0 {
		return -i
	}
	if i >= n {
		return 2*n - i - 2
	}
	return i
}

// correlate runs a square kernel over the strip with reflected borders.
func correlate(s *Strip, kern []float64, ksize int) []float64 {
	half := ksize / 2
	out := make([]float64, s.Rows*s.Cols)
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Cols; c++ {
			var sum float64
			for ky := 0; ky < ksize; ky++ {
				sr := reflect(r+ky-half, s.Rows)
				for kx := 0; kx < ksize; kx++ {
					sc := reflect(c+kx-half, s.Cols)
					sum += kern[ky*ksize+kx] * s.At(sr, sc)
				}
			}
			out[r*s.Cols+c] = sum
		}
	}
	return out
}

// gaborKernel builds a real-valued oriented band-pass kernel and
// removes its mean so flat regions produce zero response.
func gaborKernel(ksize int, sigma, theta, lambda, gamma, psi float64) []float64 {
	half := ksize / 2
	kern := make([]float64, ksize*ksize)
	sin, cos := math.Sincos(theta)

	var mean float64
	for y := -half; y <= half; y++ {
		for x := -half; x <= half; x++ {
			xr := float64(x)*cos + float64(y)*sin
			yr := -float64(x)*sin + float64(y)*cos
			v := math.Exp(-(xr*xr+gamma*gamma*yr*yr)/(2*sigma*sigma)) *
				math.Cos(2*math.Pi*xr/lambda+psi)
			kern[(y+half)*ksize+(x+half)] = v
			mean += v
		}
	}
	mean /= float64(ksize * ksize)
	for i := range kern {
		kern[i] -= mean
	}
	return kern
}
