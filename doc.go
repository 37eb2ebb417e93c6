/*
Package trackcore implements the tracking core of a real-time perception
pipeline: Kalman-filtered multi-class multi-object tracking fed by a
black-box detector and an optional depth camera.

# Pipeline

Per frame, for each class independently:

	detections -> gating & cost matrix -> Hungarian assignment -> Kalman
	correct (matched) / coast (unmatched) -> life-cycle (birth/death)

When an aligned depth frame is supplied, each detection's box is projected
to a 3D camera-frame point via package pose.

# Core Types

Config holds the per-run tuning: distance thresholds, box rejection
bounds, the Kalman process/measurement noise, and the depth projector's
intrinsics.

MultiClassTracker owns one TrackerPerClass per class id and fans frame
updates out to each.

Track is a single identified trajectory: a Kalman filter (package
internal/kalman), a class id, and the hit-counters that drive its
life-cycle.

# Filters

Four Kalman variants live in internal/kalman, selected per Config:
Linear2D, Linear3D, Extended2DH (heading-aware, nonlinear), Fixed3D
(no velocity states).
*/
package trackcore
