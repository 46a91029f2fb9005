package analysis

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const boxThickness = 2

// boxColor is the bounding box and label background color. It matches the
// original overlay palette alongside the risk colors served to the frontend.
var boxColor = color.NRGBA{R: 213, G: 255, B: 0, A: 255}

var labelTextColor = color.NRGBA{R: 0, G: 0, B: 0, A: 255}

// Annotate draws bounding boxes and confidence labels for all detections on
// a copy of the frame. The input frame is never modified.
//
// Each label reads "Person <confidence>" on a filled background directly
// above the box's top-left corner. When the box touches the top edge and the
// label would leave the frame, it is drawn below the box's top edge instead,
// inside the box, so it stays readable.
func Annotate(frame image.Image, detections []Detection) *image.NRGBA {
	annotated := imaging.Clone(frame)

	for _, d := range detections {
		x1, y1 := int(d.X1), int(d.Y1)
		x2, y2 := int(d.X2), int(d.Y2)
		drawRect(annotated, x1, y1, x2, y2, boxThickness, boxColor)
		drawDetectionLabel(annotated, x1, y1, fmt.Sprintf("Person %g", d.Confidence))
	}
	return annotated
}

// Composite alpha-blends the annotated frame with the heatmap overlay using
// the fixed weights 0.7*annotated + 0.3*overlay.
func Composite(annotated, overlay image.Image) *image.RGBA {
	return blend.Opacity(annotated, overlay, 0.3)
}

// drawRect draws a rectangle outline with the given line thickness, growing
// inward from the box edges. Pixels outside the image are skipped.
func drawRect(img *image.NRGBA, x1, y1, x2, y2, thickness int, c color.NRGBA) {
	for t := 0; t < thickness; t++ {
		for x := x1; x <= x2; x++ {
			setPixel(img, x, y1+t, c)
			setPixel(img, x, y2-t, c)
		}
		for y := y1; y <= y2; y++ {
			setPixel(img, x1+t, y, c)
			setPixel(img, x2-t, y, c)
		}
	}
}

// drawDetectionLabel renders the label text on a filled background anchored
// to the box's top-left corner at (x1, y1).
func drawDetectionLabel(img *image.NRGBA, x1, y1 int, label string) {
	face := basicfont.Face7x13
	labelWidth := font.MeasureString(face, label).Ceil()
	labelHeight := face.Metrics().Height.Ceil()

	bgTop := y1 - labelHeight - 6
	baseline := y1 - 4
	if bgTop < 0 {
		// Box touches the top edge; flip the label below it.
		bgTop = y1
		baseline = y1 + labelHeight + 2
	}

	for y := bgTop; y < bgTop+labelHeight+6; y++ {
		for x := x1; x < x1+labelWidth; x++ {
			setPixel(img, x, y, boxColor)
		}
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelTextColor),
		Face: face,
		Dot:  fixed.P(x1, baseline),
	}
	drawer.DrawString(label)
}

func setPixel(img *image.NRGBA, x, y int, c color.NRGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetNRGBA(x, y, c)
	}
}
