package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier, passed back to NewScene
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the YAML file (file type only)
}

type builtinScene struct {
	info    SceneInfo
	factory func() *Scene
}

var builtinScenes = []builtinScene{
	{
		info: SceneInfo{
			ID:          "default",
			DisplayName: "Default Scene",
			Description: "Diffuse sphere resting on a huge diffuse ground sphere",
			Type:        "builtin",
		},
		factory: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "metal",
			DisplayName: "Metal Sphere",
			Description: "Fuzzy metal sphere over a diffuse ground",
			Type:        "builtin",
		},
		factory: NewMetalScene,
	},
	{
		info: SceneInfo{
			ID:          "sunset",
			DisplayName: "Sunset",
			Description: "Diffuse and metal spheres lit by the sky and a bright sun",
			Type:        "builtin",
		},
		factory: NewSunsetScene,
	},
}

// ListScenes returns the built-in scene names in display order
func ListScenes() []string {
	names := make([]string, len(builtinScenes))
	for i, s := range builtinScenes {
		names[i] = s.info.ID
	}
	return names
}

// NewScene resolves a built-in scene name or a path to a YAML scene file
func NewScene(nameOrPath string) (*Scene, error) {
	for _, s := range builtinScenes {
		if s.info.ID == nameOrPath {
			return s.factory(), nil
		}
	}

	if isSceneFile(nameOrPath) {
		if _, err := os.Stat(nameOrPath); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrUnknownScene, nameOrPath, err)
		}
		return LoadSceneFile(nameOrPath)
	}

	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, nameOrPath, strings.Join(ListScenes(), ", "))
}

// ListAllScenes returns the built-in scenes followed by YAML files found in dir, sorted by display name
func ListAllScenes(dir string) ([]SceneInfo, error) {
	scenes := make([]SceneInfo, 0, len(builtinScenes))
	for _, s := range builtinScenes {
		scenes = append(scenes, s.info)
	}
	if dir == "" {
		return scenes, nil
	}

	if _, err := os.Stat(dir); err != nil {
		// No scenes directory, only built-ins
		return scenes, nil
	}

	var files []SceneInfo
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		for _, path := range matches {
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			files = append(files, SceneInfo{
				ID:          path,
				DisplayName: titleCase(name),
				Type:        "file",
				FilePath:    path,
			})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].DisplayName < files[j].DisplayName
	})

	return append(scenes, files...), nil
}

func isSceneFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// titleCase converts a filename-style string to title case
// e.g., "two-metal_spheres" -> "Two Metal Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
