// Package view maps logical content coordinates onto canvas pixels for a
// given zoom factor and pan offset.
package view

import "math"

// Transform is the zoom and pan state of one canvas. A Zoom of zero fits
// the content into the canvas. PanX and PanY are the logical coordinates
// shown at the canvas origin.
type Transform struct {
	Zoom       float64
	PanX, PanY int

	ContentW, ContentH int
	CanvasW, CanvasH   int
}

// Identity returns a transform with zoom 1 and no pan for a canvas of the
// given size showing content of the same size.
func Identity(w, h int) Transform {
	return Transform{Zoom: 1, ContentW: w, ContentH: h, CanvasW: w, CanvasH: h}
}

// Scale returns the effective zoom. In fit mode the content is shrunk by
// the smallest integer factor that makes it fit, and never enlarged.
func (t Transform) Scale() float64 {
	if t.Zoom > 0 {
		return t.Zoom
	}
	if t.ContentW <= 0 || t.ContentH <= 0 || t.CanvasW <= 0 || t.CanvasH <= 0 {
		return 1
	}
	ratio := max(float64(t.ContentW)/float64(t.CanvasW), float64(t.ContentH)/float64(t.CanvasH))
	return 1 / math.Ceil(ratio)
}

// Anchor maps a point-like position to the pixel at the centre of its
// zoomed cell.
func (t Transform) Anchor(x, y float64) (int, int) {
	z := t.Scale()
	return int(math.Floor((x-float64(t.PanX))*z + z/2)), int(math.Floor((y-float64(t.PanY))*z + z/2))
}

// Edge maps a line end point or fill vertex without the centring bias.
func (t Transform) Edge(x, y float64) (int, int) {
	z := t.Scale()
	return int(math.Floor((x - float64(t.PanX)) * z)), int(math.Floor((y - float64(t.PanY)) * z))
}

// Length scales a radius or width. Positive lengths stay at least one pixel.
func (t Transform) Length(n float64) int {
	if n <= 0 {
		return 0
	}
	return max(int(math.Round(n*t.Scale())), 1)
}

// Logical maps a canvas pixel back to content coordinates.
func (t Transform) Logical(dx, dy int) (float64, float64) {
	z := t.Scale()
	return float64(dx)/z + float64(t.PanX), float64(dy)/z + float64(t.PanY)
}

// Clamp keeps the visible rectangle inside the content. Content that fits
// on the canvas is pinned to the origin.
func (t *Transform) Clamp() {
	z := t.Scale()
	t.PanX = clampAxis(t.PanX, t.ContentW, t.CanvasW, z)
	t.PanY = clampAxis(t.PanY, t.ContentH, t.CanvasH, z)
}

func clampAxis(pan, content, canvas int, z float64) int {
	visible := float64(canvas) / z
	if float64(content) <= visible {
		return 0
	}
	limit := int(math.Floor(float64(content) - visible))
	return min(max(pan, 0), limit)
}

// SetZoom changes the zoom factor; zero selects fit.
func (t *Transform) SetZoom(z float64) {
	t.Zoom = max(z, 0)
	t.Clamp()
}

// PanBy moves the view by dx, dy logical units.
func (t *Transform) PanBy(dx, dy int) {
	t.PanX += dx
	t.PanY += dy
	t.Clamp()
}

// SetContent records the logical content size.
func (t *Transform) SetContent(w, h int) {
	t.ContentW, t.ContentH = w, h
	t.Clamp()
}

// SetCanvas records the device canvas size.
func (t *Transform) SetCanvas(w, h int) {
	t.CanvasW, t.CanvasH = w, h
	t.Clamp()
}
