package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// SpriteSpec describes a moving sprite: the player or an NPC.
type SpriteSpec struct {
	Name string `yaml:"name"`
	// MovingSpeed is in tiles per second.
	MovingSpeed      float64       `yaml:"moving_speed"`
	MoveQuantization float64       `yaml:"move_quantization"`
	CollideLevel     int           `yaml:"collide_level"`
	Input            bool          `yaml:"input"`
	Script           string        `yaml:"script"`
	ScriptInterval   float64       `yaml:"script_interval"`
	Sprite           LookSpec      `yaml:"sprite"`
	Animation        AnimationSpec `yaml:"animation"`
}

// LookSpec is the generated look of a sprite.
type LookSpec struct {
	Color  YAMLColor `yaml:"color"`
	Accent YAMLColor `yaml:"accent"`
	// Size is the edge length in pixels; zero means one tile.
	Size  int `yaml:"size"`
	Layer int `yaml:"layer"`
}

// AnimationSpec maps movement state names (move_up, face_left, ...) to
// animation names. Names starting with walk_ get a two frame loop, every
// other name a single frame.
type AnimationSpec struct {
	FPS    float64           `yaml:"fps"`
	States map[string]string `yaml:"states"`
}

func LoadSpriteSpec(filename string) (*SpriteSpec, error) {
	spec, err := LoadSpec[SpriteSpec](filename)
	if err != nil {
		return nil, err
	}
	if spec.MovingSpeed <= 0 {
		return nil, fmt.Errorf("prefabs: %s: moving_speed must be positive", filename)
	}
	if spec.MoveQuantization == 0 {
		spec.MoveQuantization = 1
	}
	return &spec, nil
}

type CameraSpec struct {
	Name           string  `yaml:"name"`
	Zoom           float64 `yaml:"zoom"`
	FollowDuration float64 `yaml:"follow_duration"`
	PanSpeed       float64 `yaml:"pan_speed"`
}

func LoadCameraSpec() (*CameraSpec, error) {
	spec, err := LoadSpec[CameraSpec]("camera.yaml")
	if err != nil {
		return nil, err
	}
	if spec.Zoom <= 0 {
		spec.Zoom = 1
	}
	return &spec, nil
}

// YAMLColor accepts "#rrggbb", "#rrggbbaa" or an SVG color name.
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	if named, ok := colornames.Map[strings.ToLower(value.Value)]; ok {
		c.Color = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// Or returns the color, or def when unset.
func (c YAMLColor) Or(def color.Color) color.Color {
	if c.Color == nil {
		return def
	}
	return c.Color
}
