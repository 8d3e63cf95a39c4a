// Package iris implements the iris recognition engine: normalization of
// an eye-region image into a polar strip, encoding of the strip into a
// binary template, and rotation-tolerant masked template matching.
package iris

import (
	"image"
	"image/color"
	"math"
)

// NormalizerConfig holds the fixed geometry of the normalization stage.
// Every template produced with the same config has the same bit length.
type NormalizerConfig struct {
	// WorkingSize is the square resolution the eye image is resampled to
	// before any processing
	WorkingSize int

	// StripRows and StripCols are the angle and radius sample counts of
	// the polar-unwrapped output strip
	StripRows int
	StripCols int

	// RadiusFraction bounds the unwrap radius to this fraction of the
	// shorter image dimension, keeping eyelid/eyelash clutter near the
	// limbus out of the strip
	RadiusFraction float64

	// CLAHE parameters for local contrast enhancement
	TileGrid  int
	ClipLimit float64
}

// DefaultNormalizerConfig returns the parameters the engine was tuned with.
func DefaultNormalizerConfig() NormalizerConfig {
	return NormalizerConfig{
		WorkingSize:    256,
		StripRows:      64,
		StripCols:      256,
		RadiusFraction: 0.45,
		TileGrid:       8,
		ClipLimit:      2.0,
	}
}

// Strip is a polar-unwrapped iris image: Rows angle samples by Cols
// radius samples, row-major, intensities in [0, 255].
type Strip struct {
	Rows int
	Cols int
	Pix  []float64
}

// At returns the intensity at angle row r, radius column c.
func (s *Strip) At(r, c int) float64 {
	return s.Pix[r*s.Cols+c]
}

// Normalizer converts a raw eye-region image into a contrast-enhanced
// polar strip centered on the estimated pupil.
type Normalizer struct {
	cfg NormalizerConfig
}

// NewNormalizer creates a Normalizer with the given config.
func NewNormalizer(cfg NormalizerConfig) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// Normalize runs the full pipeline: resample to the working resolution,
// local histogram equalization, pupil center estimation, polar unwrap.
// It is deterministic for identical input pixels and never fails: when
// no pupil candidate is found the geometric image center is used.
func (n *Normalizer) Normalize(img image.Image) *Strip {
	gray := grayResize(toGray(img), n.cfg.WorkingSize, n.cfg.WorkingSize)
	enhanced := clahe(gray, n.cfg.TileGrid, n.cfg.ClipLimit)
	cx, cy := estimatePupilCenter(enhanced)
	maxR := n.cfg.RadiusFraction * float64(min(enhanced.Rect.Dx(), enhanced.Rect.Dy()))
	return unwrapPolar(enhanced, float64(cx), float64(cy), maxR, n.cfg.StripRows, n.cfg.StripCols)
}

// toGray converts any image to 8-bit grayscale using the usual luma weights.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			v := int(math.Round(0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(bl>>8)))
			if v > 255 {
				v = 255
			}
			out.SetGray(x, y, color.Gray{Y: uint8(v)})
		}
	}
	return out
}

// grayResize resamples a grayscale image to w x h. Downscaling uses box
// averaging over the source footprint of each destination pixel,
// upscaling uses bilinear interpolation.
func grayResize(src *image.Gray, w, h int) *image.Gray {
	sw, sh := src.Rect.Dx(), src.Rect.Dy()
	if sw == w && sh == h {
		return src
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if sw >= w && sh >= h {
		// Box average: each output pixel covers a source rectangle
		xRatio := float64(sw) / float64(w)
		yRatio := float64(sh) / float64(h)
		for y := 0; y < h; y++ {
			y0 := int(float64(y) * yRatio)
			y1 := int(float64(y+1) * yRatio)
			if y1 <= y0 {
				y1 = y0 + 1
			}
			if y1 > sh {
				y1 = sh
			}
			for x := 0; x < w; x++ {
				x0 := int(float64(x) * xRatio)
				x1 := int(float64(x+1) * xRatio)
				if x1 <= x0 {
					x1 = x0 + 1
				}
				if x1 > sw {
					x1 = sw
				}
				var sum, cnt int
				for sy := y0; sy < y1; sy++ {
					for sx := x0; sx < x1; sx++ {
						sum += int(src.GrayAt(src.Rect.Min.X+sx, src.Rect.Min.Y+sy).Y)
						cnt++
					}
				}
				dst.Pix[y*dst.Stride+x] = uint8((sum + cnt/2) / cnt)
			}
		}
		return dst
	}
	// Bilinear
	for y := 0; y < h; y++ {
		fy := (float64(y) + 0.5) * float64(sh) / float64(h)
		for x := 0; x < w; x++ {
			fx := (float64(x) + 0.5) * float64(sw) / float64(w)
			dst.Pix[y*dst.Stride+x] = uint8(math.Round(sampleBilinear(src, fx-0.5, fy-0.5)))
		}
	}
	return dst
}

// sampleBilinear samples the image at a fractional position, clamping
// coordinates to the image bounds.
func sampleBilinear(src *image.Gray, fx, fy float64) float64 {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	at := func(x, y int) float64 {
		if x < 0 {
			x = 0
		} else if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		} else if y >= h {
			y = h - 1
		}
		return float64(src.Pix[y*src.Stride+x])
	}

	top := at(x0, y0)*(1-dx) + at(x0+1, y0)*dx
	bot := at(x0, y0+1)*(1-dx) + at(x0+1, y0+1)*dx
	return top*(1-dy) + bot*dy
}

// unwrapPolar remaps the annular region around (cx, cy) into a rows x cols
// strip: each row is one angle sample over [0, 2pi), each column one
// radius sample over [0, maxR). Samples outside the image are zero.
func unwrapPolar(src *image.Gray, cx, cy, maxR float64, rows, cols int) *Strip {
	strip := &Strip{Rows: rows, Cols: cols, Pix: make([]float64, rows*cols)}
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for r := 0; r < rows; r++ {
		angle := 2 * math.Pi * float64(r) / float64(rows)
		sin, cos := math.Sincos(angle)
		for c := 0; c < cols; c++ {
			rho := maxR * float64(c) / float64(cols)
			px := cx + rho*cos
			py := cy + rho*sin
			if px < 0 || py < 0 || px > float64(w-1) || py > float64(h-1) {
				continue // fill outliers with 0
			}
			strip.Pix[r*cols+c] = math.Round(sampleBilinear(src, px, py))
		}
	}
	return strip
}
