package trackcore

// BoundingBox2D is a detector/track box in image pixel coordinates: a center
// (X, Y), a width/height, a detector confidence, and the class id it belongs
// to. Corners are derived, not stored, so they can never drift out of sync
// with the center/size.
type BoundingBox2D struct {
	X, Y       float32
	W, H       float32
	Confidence float32
	ClassID    int
	Valid      bool
}

// XMin, YMin, XMax, YMax are the derived corners of the box.
func (b BoundingBox2D) XMin() float32 { return b.X - b.W/2 }
func (b BoundingBox2D) YMin() float32 { return b.Y - b.H/2 }
func (b BoundingBox2D) XMax() float32 { return b.X + b.W/2 }
func (b BoundingBox2D) YMax() float32 { return b.Y + b.H/2 }

// CheckInvariant reports whether b is well formed: if Valid then W>0, H>0,
// XMin<=XMax, YMin<=YMax.
func (b BoundingBox2D) CheckInvariant() bool {
	if !b.Valid {
		return true
	}
	return b.W > 0 && b.H > 0 && b.XMin() <= b.XMax() && b.YMin() <= b.YMax()
}

// Area returns W*H, used by the cost assembly's log-area-ratio term.
func (b BoundingBox2D) Area() float32 { return b.W * b.H }

// BoundingBox3D is a camera-frame box: center (X, Y, Z), extents (W, D, H).
type BoundingBox3D struct {
	X, Y, Z    float32
	W, D, H    float32
	Confidence float32
	ClassID    int
	Valid      bool
}

// CheckInvariant mirrors BoundingBox2D.CheckInvariant for the 3D box.
func (b BoundingBox3D) CheckInvariant() bool {
	if !b.Valid {
		return true
	}
	return b.W > 0 && b.H > 0 && b.D > 0
}

// Position3D is a single camera-frame point produced by the pose projector.
type Position3D struct {
	X, Y, Z float32
	Valid   bool
}

// aspectRatio returns h/w, guarding against a degenerate zero width.
func (b BoundingBox2D) aspectRatio() float32 {
	if b.W == 0 {
		return 0
	}
	return b.H / b.W
}
