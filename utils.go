package trackcore

import (
	"image"
	"log"
	"sync"

	"gocv.io/x/gocv"
)

// GetCutout extracts the rectangular region of img covering [x1,y1)-[x2,y2),
// clamped to img's bounds. Used by Pipeline.Tick to crop each detection's
// box out of the color frame into Detection.Crop.
//
// Modeled on a GetCutout helper that derived the rectangle from a point
// cloud's bounding box; generalized here to take the rectangle directly,
// since the caller already has it from the 2D box's corners.
func GetCutout(x1, y1, x2, y2 int, img gocv.Mat) gocv.Mat {
	imgWidth := img.Cols()
	imgHeight := img.Rows()

	if x1 < 0 {
		x1 = 0
	}
	if y1 < 0 {
		y1 = 0
	}
	if x2 > imgWidth {
		x2 = imgWidth
	}
	if y2 > imgHeight {
		y2 = imgHeight
	}

	if x1 >= x2 || y1 >= y2 {
		return gocv.NewMat()
	}

	rect := image.Rect(x1, y1, x2, y2)
	return img.Region(rect)
}

// warnedMessages tracks which messages have already been logged via
// WarnOnce, so a repeated per-frame condition doesn't flood the log.
var warnedMessages sync.Map

// WarnOnce logs message exactly once across the process lifetime, for
// non-fatal recoverable conditions that are worth surfacing as telemetry but
// not worth repeating every frame.
func WarnOnce(message string) {
	if _, loaded := warnedMessages.LoadOrStore(message, true); !loaded {
		log.Printf("WARNING: %s", message)
	}
}

// AnyTrue returns true if any element in values is true.
func AnyTrue(values []bool) bool {
	for _, v := range values {
		if v {
			return true
		}
	}
	return false
}
