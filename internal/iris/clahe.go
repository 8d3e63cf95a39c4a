package iris

// Contrast-limited adaptive histogram equalization. The image is split
// into a grid of tiles, each tile gets a clipped-histogram equalization
// mapping, and per-pixel output interpolates bilinearly between the four
// surrounding tile mappings to avoid visible tile seams.

import (
	"image"
	"math"
)

func clahe(src *image.Gray, grid int, clipLimit float64) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	tileW := (w + grid - 1) / grid
	tileH := (h + grid - 1) / grid

	// Per-tile lookup tables
	luts := make([][256]uint8, grid*grid)
	for ty := 0; ty < grid; ty++ {
		for tx := 0; tx < grid; tx++ {
			x0, y0 := tx*tileW, ty*tileH
			x1, y1 := x0+tileW, y0+tileH
			if x1 > w {
				x1 = w
			}
			if y1 > h {
				y1 = h
			}
			luts[ty*grid+tx] = tileLUT(src, x0, y0, x1, y1, clipLimit)
		}
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		// Position relative to tile centers
		fy := (float64(y) - float64(tileH)/2) / float64(tileH)
		ty0 := int(math.Floor(fy))
		wy := fy - float64(ty0)
		ty1 := ty0 + 1
		if ty0 < 0 {
			ty0 = 0
		}
		if ty1 > grid-1 {
			ty1 = grid - 1
		}
		for x := 0; x < w; x++ {
			fx := (float64(x) - float64(tileW)/2) / float64(tileW)
			tx0 := int(math.Floor(fx))
			wx := fx - float64(tx0)
			tx1 := tx0 + 1
			if tx0 < 0 {
				tx0 = 0
			}
			if tx1 > grid-1 {
				tx1 = grid - 1
			}

			v := src.Pix[y*src.Stride+x]
			top := float64(luts[ty0*grid+tx0][v])*(1-wx) + float64(luts[ty0*grid+tx1][v])*wx
			bot := float64(luts[ty1*grid+tx0][v])*(1-wx) + float64(luts[ty1*grid+tx1][v])*wx
			dst.Pix[y*dst.Stride+x] = uint8(math.Round(top*(1-wy) + bot*wy))
		}
	}
	return dst
}

// tileLUT builds the clipped-equalization mapping for one tile.
func tileLUT(src *image.Gray, x0, y0, x1, y1 int, clipLimit float64) [256]uint8 {
	var hist [256]int
	area := (x1 - x0) * (y1 - y0)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			hist[src.Pix[y*src.Stride+x]]++
		}
	}

	// Clip the histogram and redistribute the excess uniformly
	limit := int(clipLimit * float64(area) / 256)
	if limit < 1 {
		limit = 1
	}
	excess := 0
	for i := range hist {
		if hist[i] > limit {
			excess += hist[i] - limit
			hist[i] = limit
		}
	}
	share := excess / 256
	remainder := excess % 256
	for i := range hist {
		hist[i] += share
		if i < remainder {
			hist[i]++
		}
	}

	var lut [256]uint8
	scale := 255.0 / float64(area)
	cum := 0
	for i := range hist {
		cum += hist[i]
		v := math.Round(float64(cum) * scale)
		if v > 255 {
			v = 255
		}
		lut[i] = uint8(v)
	}
	return lut
}
