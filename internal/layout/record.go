package layout

import (
	"fmt"

	"github.com/ironsheep/yolo-prep/internal/geometry"
)

// Record is one YOLO annotation: a class id plus a box center and size
// normalized to [0,1] by the canvas dimensions.
type Record struct {
	ClassID int     `json:"class_id"`
	XCenter float64 `json:"x_center"`
	YCenter float64 `json:"y_center"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// NewRecord normalizes a pixel box on a canvasW×canvasH canvas.
func NewRecord(classID int, box geometry.Box, canvasW, canvasH int) Record {
	cw := float64(canvasW)
	ch := float64(canvasH)
	return Record{
		ClassID: classID,
		XCenter: (float64(box.X) + float64(box.W)/2) / cw,
		YCenter: (float64(box.Y) + float64(box.H)/2) / ch,
		Width:   float64(box.W) / cw,
		Height:  float64(box.H) / ch,
	}
}

// Box converts the record back to pixel coordinates on a canvasW×canvasH
// canvas. Values are rounded to the nearest pixel.
func (r Record) Box(canvasW, canvasH int) geometry.Box {
	w := r.Width * float64(canvasW)
	h := r.Height * float64(canvasH)
	x := r.XCenter*float64(canvasW) - w/2
	y := r.YCenter*float64(canvasH) - h/2
	return geometry.Box{
		X: roundInt(x),
		Y: roundInt(y),
		W: roundInt(w),
		H: roundInt(h),
	}
}

// String renders the record as a YOLO label line with six decimal places.
func (r Record) String() string {
	return fmt.Sprintf("%d %.6f %.6f %.6f %.6f", r.ClassID, r.XCenter, r.YCenter, r.Width, r.Height)
}

func roundInt(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}
