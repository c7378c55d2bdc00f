package component

type Camera struct {
	TargetName string
	Zoom       float64
	// FollowDuration is how long, in seconds, the camera takes to catch up
	// with a step of its target.
	FollowDuration float64
	// PanSpeed is the free camera speed in tiles per second.
	PanSpeed float64
}

var CameraComponent = NewComponent[Camera]()
