package analysis

import (
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// heatmapSigma is the standard deviation, in pixels, of the isotropic
// Gaussian applied to the splatted density field.
const heatmapSigma = 40.0

// HeatmapField is a smoothed 2D crowd density estimate with the same spatial
// extent as the analyzed frame. Values are normalized to [0,1]; a frame with
// no detections produces an all-zero field. The field is a per-invocation
// transient consumed only by the annotation compositor.
type HeatmapField struct {
	W, H   int
	Values []float64 // row-major, len W*H
}

// At returns the density value at (x, y).
func (f *HeatmapField) At(x, y int) float64 {
	return f.Values[y*f.W+x]
}

// Max returns the maximum density value of the field.
func (f *HeatmapField) Max() float64 {
	max := 0.0
	for _, v := range f.Values {
		if v > max {
			max = v
		}
	}
	return max
}

// SynthesizeHeatmap builds the density field for a frame.
//
// For every detection a filled disk of value 1.0 is stamped at the box
// center, with radius 1.5x the longer box side so neighbouring people melt
// into a common hot region. The field is then blurred with an isotropic
// Gaussian (sigma 40px, kernel sized automatically to cover the effective
// blur radius) and normalized by its maximum. Disks overwrite rather than
// accumulate; density gradation comes from the blur, not from stacking.
func SynthesizeHeatmap(detections []Detection, w, h int) *HeatmapField {
	field := &HeatmapField{W: w, H: h, Values: make([]float64, w*h)}
	if w <= 0 || h <= 0 {
		return field
	}

	for _, d := range detections {
		cx := int((d.X1 + d.X2) / 2)
		cy := int((d.Y1 + d.Y2) / 2)
		r := int(math.Max(d.Width(), d.Height()) * 1.5)
		stampDisk(field, cx, cy, r)
	}

	if len(detections) > 0 {
		gaussianBlur(field, heatmapSigma)
		normalize(field)
	}
	return field
}

// stampDisk writes value 1.0 into every field cell within radius r of
// (cx, cy), clipped to the field bounds.
func stampDisk(f *HeatmapField, cx, cy, r int) {
	x0, x1 := maxInt(cx-r, 0), minInt(cx+r, f.W-1)
	y0, y1 := maxInt(cy-r, 0), minInt(cy+r, f.H-1)
	rr := r * r
	for y := y0; y <= y1; y++ {
		dy := y - cy
		for x := x0; x <= x1; x++ {
			dx := x - cx
			if dx*dx+dy*dy <= rr {
				f.Values[y*f.W+x] = 1.0
			}
		}
	}
}

// gaussianBlur applies a separable Gaussian with the given sigma in both
// axes. The kernel radius is 4*sigma, which covers the blur falloff to well
// below visual relevance. The convolution runs on the float field directly:
// blurring an 8-bit rendition instead would quantize away the low-amplitude
// tails before normalization.
func gaussianBlur(f *HeatmapField, sigma float64) {
	radius := int(math.Ceil(4 * sigma))
	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	tmp := make([]float64, len(f.Values))

	// Horizontal pass.
	for y := 0; y < f.H; y++ {
		row := f.Values[y*f.W : (y+1)*f.W]
		for x := 0; x < f.W; x++ {
			var acc float64
			for k := -radius; k <= radius; k++ {
				xi := x + k
				if xi < 0 || xi >= f.W {
					continue
				}
				acc += row[xi] * kernel[k+radius]
			}
			tmp[y*f.W+x] = acc
		}
	}

	// Vertical pass.
	for x := 0; x < f.W; x++ {
		for y := 0; y < f.H; y++ {
			var acc float64
			for k := -radius; k <= radius; k++ {
				yi := y + k
				if yi < 0 || yi >= f.H {
					continue
				}
				acc += tmp[yi*f.W+x] * kernel[k+radius]
			}
			f.Values[y*f.W+x] = acc
		}
	}
}

// normalize divides the field by its maximum so the hottest cell is exactly
// 1.0. An all-zero field is left untouched.
func normalize(f *HeatmapField) {
	max := f.Max()
	if max == 0 {
		return
	}
	for i := range f.Values {
		f.Values[i] /= max
	}
}

// jetLUT is a 256-entry hot-to-cold lookup table built from the classic jet
// anchor colors, interpolated in RGB.
var jetLUT = buildJetLUT()

func buildJetLUT() [256]color.NRGBA {
	anchors := []struct {
		pos float64
		col colorful.Color
	}{
		{0.000, colorful.Color{R: 0, G: 0, B: 0.5}},
		{0.125, colorful.Color{R: 0, G: 0, B: 1}},
		{0.375, colorful.Color{R: 0, G: 1, B: 1}},
		{0.625, colorful.Color{R: 1, G: 1, B: 0}},
		{0.875, colorful.Color{R: 1, G: 0, B: 0}},
		{1.000, colorful.Color{R: 0.5, G: 0, B: 0}},
	}

	var lut [256]color.NRGBA
	for i := range lut {
		pos := float64(i) / 255.0
		seg := 0
		for seg < len(anchors)-2 && pos > anchors[seg+1].pos {
			seg++
		}
		lo, hi := anchors[seg], anchors[seg+1]
		t := (pos - lo.pos) / (hi.pos - lo.pos)
		r, g, b := lo.col.BlendRgb(hi.col, t).RGB255()
		lut[i] = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	return lut
}

// Overlay renders the field as a false-color image through the jet colormap,
// cold (dark blue) at 0 to hot (dark red) at 1.
func (f *HeatmapField) Overlay() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			v := f.Values[y*f.W+x]
			idx := int(v * 255)
			if idx < 0 {
				idx = 0
			} else if idx > 255 {
				idx = 255
			}
			img.SetNRGBA(x, y, jetLUT[idx])
		}
	}
	return img
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
