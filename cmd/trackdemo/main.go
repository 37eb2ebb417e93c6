// Command trackdemo drives the tracking core over a synthetic stream of
// bouncing rectangles, the same style of deterministic simulation used by
// a ground-truth-ID-matching benchmark elsewhere in this codebase, adapted
// here into a runnable demonstration of the full detect -> track -> report
// pipeline.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/perceptioncore/trackcore"
)

// simpleRNG is a tiny linear congruential generator, kept deterministic so
// repeated demo runs produce the same track ids.
type simpleRNG struct{ state uint64 }

func newSimpleRNG(seed int64) *simpleRNG { return &simpleRNG{state: uint64(seed)} }

func (r *simpleRNG) next() uint64 {
	const (
		a = 1664525
		c = 1013904223
		m = 1 << 32
	)
	r.state = (a*r.state + c) % m
	return r.state
}

func (r *simpleRNG) float64() float64 { return float64(r.next()) / float64(1<<32) }

// rectangle is one synthetic moving object in the simulation.
type rectangle struct {
	classID            int
	x, y, w, h, vx, vy float64
}

// simulation bounces a fixed set of rectangles around a canvas, standing in
// for the "detector" this demo doesn't have a real GPU model for.
type simulation struct {
	width, height int
	rects         []rectangle
	rng           *simpleRNG
}

func newSimulation(width, height, numClasses, perClass int, seed int64) *simulation {
	rng := newSimpleRNG(seed)
	var rects []rectangle
	for cls := 0; cls < numClasses; cls++ {
		for i := 0; i < perClass; i++ {
			rects = append(rects, rectangle{
				classID: cls,
				x:       rng.float64() * float64(width),
				y:       rng.float64() * float64(height),
				w:       20 + rng.float64()*60,
				h:       20 + rng.float64()*60,
				vx:      -5 + rng.float64()*10,
				vy:      -5 + rng.float64()*10,
			})
		}
	}
	return &simulation{width: width, height: height, rects: rects, rng: rng}
}

func (s *simulation) step() {
	for i := range s.rects {
		r := &s.rects[i]
		r.x += r.vx
		r.y += r.vy

		halfW, halfH := r.w/2, r.h/2
		if r.x-halfW < 0 {
			r.x = halfW
			r.vx = -r.vx
		} else if r.x+halfW > float64(s.width) {
			r.x = float64(s.width) - halfW
			r.vx = -r.vx
		}
		if r.y-halfH < 0 {
			r.y = halfH
			r.vy = -r.vy
		} else if r.y+halfH > float64(s.height) {
			r.y = float64(s.height) - halfH
			r.vy = -r.vy
		}
	}
}

func (s *simulation) detectionsByClass(numClasses int) [][]trackcore.Detection {
	out := make([][]trackcore.Detection, numClasses)
	for _, r := range s.rects {
		out[r.classID] = append(out[r.classID], trackcore.Detection{
			Box: trackcore.BoundingBox2D{
				X: float32(r.x), Y: float32(r.y),
				W: float32(r.w), H: float32(r.h),
				ClassID: r.classID, Valid: true, Confidence: 1,
			},
		})
	}
	return out
}

func main() {
	frames := flag.Int("frames", 100, "number of simulated frames to run")
	numClasses := flag.Int("classes", 2, "number of detector classes")
	perClass := flag.Int("per-class", 3, "objects per class")
	seed := flag.Int64("seed", 42, "deterministic RNG seed")
	flag.Parse()

	cfg := trackcore.NewConfig(*numClasses)
	for i := range cfg.PerClass {
		cfg.PerClass[i].DistThreshold = 80
		cfg.PerClass[i].CenterThreshold = 80
		cfg.PerClass[i].MaxFramesToSkip = 5
	}
	mct := trackcore.NewMultiClassTracker(cfg)

	sim := newSimulation(640, 480, *numClasses, *perClass, *seed)

	bar := progressbar.NewOptions(*frames,
		progressbar.OptionSetDescription("tracking"),
		progressbar.OptionSetWidth(terminalWidth()),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("fps"),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
	)

	var liveTracks int
	for f := 0; f < *frames; f++ {
		sim.step()
		tracks := mct.Update(sim.detectionsByClass(*numClasses), nil, 0.1, float64(f)*0.1)
		liveTracks = 0
		for _, classTracks := range tracks {
			liveTracks += len(classTracks)
		}
		if err := bar.Add(1); err != nil {
			log.Printf("progress bar update failed: %v", err)
		}
	}
	fmt.Printf("\nfinished %d frames, %d live tracks across %d classes\n", *frames, liveTracks, *numClasses)
}

// terminalWidth mirrors a GetTerminalSize fallback chain, trying
// stdout/stderr/stdin before giving up to a default.
func terminalWidth() int {
	for _, fd := range []int{int(os.Stdout.Fd()), int(os.Stderr.Fd()), int(os.Stdin.Fd())} {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return 80
}
