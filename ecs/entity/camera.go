package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/tilequest/ecs"
	"github.com/milk9111/tilequest/ecs/component"
	"github.com/milk9111/tilequest/prefabs"
	"github.com/milk9111/tilequest/transform"
)

// NewCamera creates the camera entity at tile x, y following target.
func NewCamera(w *ecs.World, spec *prefabs.CameraSpec, target string, x, y int) (ecs.Entity, error) {
	if spec == nil {
		var err error
		if spec, err = prefabs.LoadCameraSpec(); err != nil {
			return 0, fmt.Errorf("camera: load spec: %w", err)
		}
	}

	t := transform.New()
	t.Translate2D(mgl64.Vec2{float64(x), -float64(y)})

	camera := ecs.CreateEntity(w)
	if err := ecs.Add(w, camera, component.TransformComponent.Kind(), t); err != nil {
		return 0, fmt.Errorf("camera: add transform: %w", err)
	}
	if err := ecs.Add(w, camera, component.CameraComponent.Kind(), &component.Camera{
		TargetName:     target,
		Zoom:           spec.Zoom,
		FollowDuration: spec.FollowDuration,
		PanSpeed:       spec.PanSpeed,
	}); err != nil {
		return 0, fmt.Errorf("camera: add camera component: %w", err)
	}
	return camera, nil
}
