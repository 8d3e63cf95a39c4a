package iris

// Pupil center estimation: inverted Otsu binarization so the dark pupil
// becomes foreground, a median filter to knock out speckle, then the
// center of the minimal enclosing circle of the largest connected
// component. Falls back to the geometric image center, so it never fails.

import "image"

// estimatePupilCenter returns an approximate pupil center in pixel
// coordinates, clamped to the image bounds.
func estimatePupilCenter(gray *image.Gray) (int, int) {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()

	thresh := otsuThreshold(gray)
	fg := binarizeInverted(gray, thresh)
	fg = medianFilterBinary(fg, w, h, 5)

	comp := largestComponent(fg, w, h)
	if len(comp) == 0 {
		return w / 2, h / 2
	}

	cx, cy := minEnclosingCircleCenter(boundaryPoints(comp, fg, w, h))
	ix, iy := int(cx), int(cy)
	if ix < 0 {
		ix = 0
	} else if ix > w-1 {
		ix = w - 1
	}
	if iy < 0 {
		iy = 0
	} else if iy > h-1 {
		iy = h - 1
	}
	return ix, iy
}

// otsuThreshold picks the intensity threshold maximizing between-class
// variance over the 256-bin histogram.
func otsuThreshold(gray *image.Gray) int {
	var hist [256]int
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			hist[gray.Pix[y*gray.Stride+x]]++
		}
	}

	total := w * h
	var sumAll float64
	for v, n := range hist {
		sumAll += float64(v * n)
	}

	var sumBg float64
	var wBg int
	best, bestVar := 0, -1.0
	for t := 0; t < 256; t++ {
		wBg += hist[t]
		if wBg == 0 {
			continue
		}
		wFg := total - wBg
		if wFg == 0 {
			break
		}
		sumBg += float64(t * hist[t])
		meanBg := sumBg / float64(wBg)
		meanFg := (sumAll - sumBg) / float64(wFg)
		diff := meanBg - meanFg
		between := float64(wBg) * float64(wFg) * diff * diff
		if between > bestVar {
			bestVar = between
			best = t
		}
	}
	return best
}

// binarizeInverted marks pixels at or below the threshold as foreground.
func binarizeInverted(gray *image.Gray, thresh int) []bool {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	fg := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fg[y*w+x] = int(gray.Pix[y*gray.Stride+x]) <= thresh
		}
	}
	return fg
}

// medianFilterBinary applies a k x k median filter to a binary image.
// For binary input the median is a majority vote over the window.
// Borders replicate edge pixels.
func medianFilterBinary(fg []bool, w, h, k int) []bool {
	half := k / 2
	majority := k * k / 2
	out := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			count := 0
			for dy := -half; dy <= half; dy++ {
				sy := y + dy
				if sy < 0 {
					sy = 0
				} else if sy >= h {
					sy = h - 1
				}
				for dx := -half; dx <= half; dx++ {
					sx := x + dx
					if sx < 0 {
						sx = 0
					} else if sx >= w {
						sx = w - 1
					}
					if fg[sy*w+sx] {
						count++
					}
				}
			}
			out[y*w+x] = count > majority
		}
	}
	return out
}

// largestComponent returns the pixel indices of the largest 8-connected
// foreground component, or nil if there is no foreground at all.
func largestComponent(fg []bool, w, h int) []int {
	visited := make([]bool, len(fg))
	var best []int
	var queue []int

	for start := range fg {
		if !fg[start] || visited[start] {
			continue
		}
		// BFS flood fill
		comp := []int{start}
		visited[start] = true
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			idx := queue[0]
			queue = queue[1:]
			x, y := idx%w, idx/w
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					nidx := ny*w + nx
					if fg[nidx] && !visited[nidx] {
						visited[nidx] = true
						comp = append(comp, nidx)
						queue = append(queue, nidx)
					}
				}
			}
		}
		if len(comp) > len(best) {
			best = comp
		}
	}
	return best
}

// boundaryPoints extracts the component pixels that touch a background
// 4-neighbor; the enclosing circle only depends on these. Large
// boundaries are subsampled to keep the circle computation cheap.
func boundaryPoints(comp []int, fg []bool, w, h int) []point {
	var pts []point
	for _, idx := range comp {
		x, y := idx%w, idx/w
		onEdge := x == 0 || y == 0 || x == w-1 || y == h-1
		if !onEdge {
			onEdge = !fg[idx-1] || !fg[idx+1] || !fg[idx-w] || !fg[idx+w]
		}
		if onEdge {
			pts = append(pts, point{float64(x), float64(y)})
		}
	}
	const maxPoints = 2048
	if len(pts) > maxPoints {
		step := len(pts) / maxPoints
		sub := pts[:0]
		for i := 0; i < len(pts); i += step {
			sub = append(sub, pts[i])
		}
		pts = sub
	}
	return pts
}

type point struct {
	x, y float64
}

type circle struct {
	cx, cy float64
	r2     float64 // squared radius, with a small epsilon slack for containment
}

func (c circle) contains(p point) bool {
	dx, dy := p.x-c.cx, p.y-c.cy
	return dx*dx+dy*dy <= c.r2+1e-7
}

func circleFrom2(a, b point) circle {
	cx := (a.x + b.x) / 2
	cy := (a.y + b.y) / 2
	dx, dy := a.x-cx, a.y-cy
	return circle{cx, cy, dx*dx + dy*dy}
}

func circleFrom3(a, b, c point) circle {
	// Circumcircle via the perpendicular bisector intersection; a
	// degenerate (collinear) triple falls back to the widest pair.
	d := 2 * (a.x*(b.y-c.y) + b.x*(c.y-a.y) + c.x*(a.y-b.y))
	if d == 0 {
		c1 := circleFrom2(a, b)
		c2 := circleFrom2(a, c)
		c3 := circleFrom2(b, c)
		best := c1
		if c2.r2 > best.r2 {
			best = c2
		}
		if c3.r2 > best.r2 {
			best = c3
		}
		return best
	}
	a2 := a.x*a.x + a.y*a.y
	b2 := b.x*b.x + b.y*b.y
	c2 := c.x*c.x + c.y*c.y
	ux := (a2*(b.y-c.y) + b2*(c.y-a.y) + c2*(a.y-b.y)) / d
	uy := (a2*(c.x-b.x) + b2*(a.x-c.x) + c2*(b.x-a.x)) / d
	dx, dy := a.x-ux, a.y-uy
	return circle{ux, uy, dx*dx + dy*dy}
}

// minEnclosingCircleCenter computes the center of the minimal enclosing
// circle of the points with the incremental (Welzl-style) construction.
func minEnclosingCircleCenter(pts []point) (float64, float64) {
	switch len(pts) {
	case 0:
		return 0, 0
	case 1:
		return pts[0].x, pts[0].y
	}

	c := circleFrom2(pts[0], pts[1])
	for i := 2; i < len(pts); i++ {
		if c.contains(pts[i]) {
			continue
		}
		// pts[i] lies on the boundary of the new circle
		c = circleFrom2(pts[0], pts[i])
		for j := 1; j < i; j++ {
			if c.contains(pts[j]) {
				continue
			}
			c = circleFrom2(pts[i], pts[j])
			for k := 0; k < j; k++ {
				if !c.contains(pts[k]) {
					c = circleFrom3(pts[i], pts[j], pts[k])
				}
			}
		}
	}
	return c.cx, c.cy
}
