package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/milk9111/tilequest/physics"
)

//go:embed *.json
var LevelsFS embed.FS

var (
	ErrLayerSize     = errors.New("levels: layer size does not match the map")
	ErrCollisionSize = errors.New("levels: collision size does not match the map")
	ErrPalette       = errors.New("levels: tile index outside the palette")
)

// Level is a tile map. Layers and Collision are row-major with Width*Height
// cells; row 0 is the top of the map.
type Level struct {
	Name      string      `json:"name"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Palette   []string    `json:"palette"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Collision []int       `json:"collision"`
	Entities  []Entity    `json:"entities,omitempty"`
}

type LayerMeta struct {
	Name   string `json:"name"`
	Hidden bool   `json:"hidden,omitempty"`
}

type Entity struct {
	Type  string                 `json:"type"`
	X     int                    `json:"x"`
	Y     int                    `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

// Prop returns a string property or def when absent.
func (e Entity) Prop(name, def string) string {
	if v, ok := e.Props[name].(string); ok && v != "" {
		return v
	}
	return def
}

// LoadLevelFromFS reads and validates an embedded level. The .json
// extension is optional.
func LoadLevelFromFS(name string) (*Level, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a level.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// Validate checks layer and collision sizes and palette indexes.
func (l *Level) Validate() error {
	cells := l.Width * l.Height
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", physics.ErrInvalidSize, l.Width, l.Height)
	}
	for i, layer := range l.Layers {
		if len(layer) != cells {
			return fmt.Errorf("%w: layer %d has %d cells, want %d", ErrLayerSize, i, len(layer), cells)
		}
		for _, idx := range layer {
			if idx < 0 || idx >= len(l.Palette) {
				return fmt.Errorf("%w: layer %d uses %d", ErrPalette, i, idx)
			}
		}
	}
	if l.Collision != nil && len(l.Collision) != cells {
		return fmt.Errorf("%w: %d cells, want %d", ErrCollisionSize, len(l.Collision), cells)
	}
	return nil
}

// LayerName returns the configured name of layer i.
func (l *Level) LayerName(i int) string {
	if i < len(l.LayerMeta) && l.LayerMeta[i].Name != "" {
		return l.LayerMeta[i].Name
	}
	return fmt.Sprintf("layer%d", i)
}

// Spawns returns the entities of the given type in file order.
func (l *Level) Spawns(typ string) []Entity {
	var out []Entity
	for _, e := range l.Entities {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// BuildCollision turns the collision layer into collide levels. A level
// without a collision layer is passable everywhere.
func BuildCollision(l *Level) (*physics.CollisionData, error) {
	c, err := physics.New(l.Width, l.Height)
	if err != nil {
		return nil, err
	}
	for i, level := range l.Collision {
		if err := c.SetCollideLevel(i%l.Width, i/l.Width, level); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// List returns the names of the embedded levels without extension.
func List() ([]string, error) {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}
