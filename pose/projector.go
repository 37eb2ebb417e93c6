// Package pose implements the depth-to-position projector: given a depth
// frame and 2D bounding boxes, it produces a representative distance and a
// camera-frame 3D point per box.
package pose

import (
	"image"
	"math"
	"sync"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

// Intrinsics is the pinhole camera model used for projection: fx, fy, cx,
// cy, plus the distortion coefficients the Localization config carries but
// this projector does not itself undistort with (that responsibility sits
// with the image preprocessor, out of scope here).
type Intrinsics struct {
	FX, FY, CX, CY float32
	Distortion     []float32
}

// Box2D is the minimal rectangle the projector needs: a pixel-space center
// and size, independent of trackcore.BoundingBox2D to avoid an import cycle
// between the root package and this one.
type Box2D struct {
	X, Y float32
	W, H float32
}

// Position3D mirrors trackcore.Position3D at this package's boundary.
type Position3D struct {
	X, Y, Z float32
	Valid   bool
}

// Config holds the Localization fields that aren't pure camera geometry.
type Config struct {
	RejectionThreshold float32 // inset margin, pixels, shrunk from each side
	MinRange           float32 // meters
	MaxRange           float32 // meters
}

// Projector turns a depth frame plus 2D boxes into 3D positions. Its
// intrinsics are the one piece of mutable shared state here: a
// single-writer UpdateCameraParameters mutates the projector between
// frames, and readers must see a coherent snapshot. A sync.RWMutex around
// the whole Intrinsics struct gives that atomicity: readers always see
// either fully-old or fully-new values, never a mix.
type Projector struct {
	cfg Config

	mu            sync.RWMutex
	intrinsics    Intrinsics
	hasIntrinsics bool
}

// NewProjector constructs a Projector with no intrinsics yet; Project
// returns invalid positions until UpdateCameraParameters is called at
// least once.
func NewProjector(cfg Config) *Projector {
	return &Projector{cfg: cfg}
}

// UpdateCameraParameters is the single-writer intrinsics update. The write
// is taken under the full lock so a concurrent Project call either observes
// the whole old Intrinsics or the whole new one.
func (p *Projector) UpdateCameraParameters(intr Intrinsics) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.intrinsics = intr
	p.hasIntrinsics = true
}

func (p *Projector) snapshot() (Intrinsics, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.intrinsics, p.hasIntrinsics
}

// Project computes a representative distance and 3D position for box
// within depth (a single-channel float32 meters frame).
//
// Distance extraction samples an inset rectangle of box shrunk by
// cfg.RejectionThreshold on each side, collects finite, positive,
// in-[MinRange,MaxRange] samples, and reduces them to a median — robust to
// depth-sensor outliers, using gonum's stat.Quantile rather than a
// hand-rolled sort+index, the same gonum statistics family used elsewhere
// in this codebase now exercised for a new purpose.
//
// Region extraction is modeled on a GetCutout helper (see
// trackcore.GetCutout, which takes an explicit rectangle directly).
func (p *Projector) Project(box Box2D, depth gocv.Mat) Position3D {
	intr, ok := p.snapshot()
	if !ok {
		return Position3D{}
	}

	samples := p.collectDepthSamples(box, depth)
	if len(samples) == 0 {
		return Position3D{}
	}

	z := medianFloat32(samples)

	fx, fy := intr.FX, intr.FY
	if fx == 0 {
		fx = 1
	}
	if fy == 0 {
		fy = 1
	}

	x := (box.X - intr.CX) * z / fx
	y := (box.Y - intr.CY) * z / fy

	return Position3D{X: x, Y: y, Z: z, Valid: true}
}

// collectDepthSamples extracts the inset ROI and returns every finite,
// positive, in-range depth value it contains.
func (p *Projector) collectDepthSamples(box Box2D, depth gocv.Mat) []float32 {
	inset := p.cfg.RejectionThreshold

	x1 := int(box.X - box.W/2 + inset)
	y1 := int(box.Y - box.H/2 + inset)
	x2 := int(box.X + box.W/2 - inset)
	y2 := int(box.Y + box.H/2 - inset)

	if x1 < 0 {
		x1 = 0
	}
	if y1 < 0 {
		y1 = 0
	}
	if x2 > depth.Cols() {
		x2 = depth.Cols()
	}
	if y2 > depth.Rows() {
		y2 = depth.Rows()
	}
	if x1 >= x2 || y1 >= y2 {
		return nil
	}

	roi := depth.Region(image.Rect(x1, y1, x2, y2))
	defer roi.Close()

	minRange, maxRange := p.cfg.MinRange, p.cfg.MaxRange
	if maxRange == 0 {
		maxRange = float32(math.Inf(1))
	}

	var samples []float32
	rows, cols := roi.Rows(), roi.Cols()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := roi.GetFloatAt(r, c)
			if !validDepth(v, minRange, maxRange) {
				continue
			}
			samples = append(samples, v)
		}
	}
	return samples
}

func validDepth(v, minRange, maxRange float32) bool {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return false
	}
	return v > 0 && v >= minRange && v <= maxRange
}

// medianFloat32 computes the median of samples via gonum's stat.Quantile
// at p=0.5, a robust central estimator that doesn't need outliers removed
// first.
func medianFloat32(samples []float32) float32 {
	sorted := make([]float64, len(samples))
	for i, v := range samples {
		sorted[i] = float64(v)
	}
	// stat.Quantile requires sorted input (Empirical interpolation).
	insertionSortFloat64(sorted)
	return float32(stat.Quantile(0.5, stat.Empirical, sorted, nil))
}

func insertionSortFloat64(s []float64) {
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i - 1
		for j >= 0 && s[j] > v {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
}

// Box3D back-projects box's 2D width/height at a previously resolved depth
// z into a 3D extent: W3 = z*w2/fx, H3 = z*h2/fy, with depth extent set
// equal to W3 under an isotropic assumption. z is expected to come from a
// prior call to Project on the same box.
func (p *Projector) Box3D(box Box2D, z float32) (w3, h3, d3 float32, ok bool) {
	intr, has := p.snapshot()
	if !has || z <= 0 {
		return 0, 0, 0, false
	}
	fx, fy := intr.FX, intr.FY
	if fx == 0 || fy == 0 {
		return 0, 0, 0, false
	}
	w3 = z * box.W / fx
	h3 = z * box.H / fy
	return w3, h3, w3, true
}
