package trackcore

import "gocv.io/x/gocv"

// Detection is the Go-native carrier for one raw detector output: a 2D box
// plus an optional set of raw depth samples. It is the unit the tracker's
// cost assembly matches against tracks.
type Detection struct {
	Box BoundingBox2D

	// DepthSamples, if non-nil, are raw depth values (meters) for the box,
	// as supplied by the Detector. Pipeline.Tick carries them through
	// unchanged; the pose projector does not read them, it samples the
	// depth frame passed to Tick instead. nil means the detector supplied
	// no depth samples.
	DepthSamples []float32

	// Crop is the color-image region covering Box, extracted by the
	// pipeline via GetCutout for hosts that want a thumbnail alongside the
	// geometric track (e.g. a debug sink or a future ReID embedder). The
	// zero-value Mat means no crop was taken.
	Crop gocv.Mat
}

// Detector is the black-box neural-network inference boundary: detect(image)
// -> bboxes_by_class. NMS, confidence thresholding and the inference engine
// itself live entirely on the other side of this interface.
type Detector interface {
	// Detect returns, for each class id in [0, NumClasses), the detections
	// found in image. image is an 8-bit 3-channel square pre-padded frame.
	Detect(image gocv.Mat) ([][]Detection, error)
}

// Letterbox describes the scale-and-pad transform a preprocessor applied
// before handing a frame to the detector: letterbox to square, zero-padded,
// remembering r (scale), padding_cols, padding_rows so they can be inverted
// on all incoming bounding boxes.
type Letterbox struct {
	Scale       float32 // r
	PaddingCols float32
	PaddingRows float32
}

// InvertLetterbox undoes b's padding/scale transform in place, mapping a
// box detected in padded coordinates back to the original image's
// coordinates: x <- (x - padding_cols)/r, w <- w/r, and likewise for y, h.
//
// Modeled on a CoordinateTransformation abstraction
// (Detection.UpdateCoordinateTransformation): same shape, a pure function
// from absolute/padded to relative/unpadded coordinates, generalized here
// from a homography to a scale+pad transform.
func (l Letterbox) InvertLetterbox(b BoundingBox2D) BoundingBox2D {
	scale := l.Scale
	if scale == 0 {
		scale = 1
	}
	b.X = (b.X - l.PaddingCols) / scale
	b.Y = (b.Y - l.PaddingRows) / scale
	b.W = b.W / scale
	b.H = b.H / scale
	return b
}

// ClampToImage reports whether b's center lies within [0, cols) x [0, rows),
// the condition a box must satisfy after a letterbox round-trip.
func (b BoundingBox2D) ClampToImage(cols, rows int) bool {
	return b.X >= 0 && b.X < float32(cols) && b.Y >= 0 && b.Y < float32(rows)
}
