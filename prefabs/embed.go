package prefabs

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

// Dir is the on-disk prefab directory. Files found there shadow the
// embedded copies so edited prefabs are picked up by hot reload. An empty
// Dir disables the disk lookup.
var Dir = "prefabs"

// Load reads a prefab spec such as "player.yaml".
func Load(name string) ([]byte, error) {
	return read(PrefabsFS, cleanPrefabPath(name))
}

// LoadScript reads a tengo script. "wander.tengo", "scripts/wander.tengo"
// and "prefabs/scripts/wander.tengo" all name the same file.
func LoadScript(name string) ([]byte, error) {
	return read(ScriptsFS, cleanScriptPath(name))
}

// Scripts lists the embedded script names.
func Scripts() ([]string, error) {
	entries, err := fs.ReadDir(ScriptsFS, "scripts")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func read(embedded fs.FS, clean string) ([]byte, error) {
	if clean == "" {
		return nil, fs.ErrNotExist
	}
	if Dir != "" {
		data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(clean)))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return fs.ReadFile(embedded, clean)
}

func cleanPrefabPath(p string) string {
	if p == "" {
		return ""
	}
	return strings.TrimPrefix(filepath.ToSlash(p), "prefabs/")
}

func cleanScriptPath(p string) string {
	if p == "" {
		return ""
	}
	s := filepath.ToSlash(p)
	s = strings.TrimPrefix(s, "prefabs/")
	s = strings.TrimPrefix(s, "scripts/")
	return path.Join("scripts", s)
}

// IsScript reports whether a changed file path names a script.
func IsScript(p string) bool {
	return isScriptFile(p)
}
