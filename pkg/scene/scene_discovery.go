package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Treecase/Raytracer/pkg/loaders"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the scene file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const builtinGroup = "Built-in Scenes"

var builtinDescriptions = map[string]string{
	"single-quad": "One quad facing the camera, lit from the camera position",
	"cornell-box": "Open box with coloured side walls and a shadow-casting panel",
	"shadow":      "Floor, wall and panel lit by two lights",
}

// ListFileScenes scans dir for world and YAML scene files.
// A missing directory yields an empty list.
func ListFileScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	var files []string
	for _, pattern := range []string{"*.txt", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %v", err)
		}
		files = append(files, matches...)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse metadata for %s: %w", filePath, err)
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})

	return scenes, nil
}

// ParseSceneMetadata extracts metadata from the comment lines at the top of
// a scene file:
//
//	# Scene: Two Walls
//	# Description: A corner lit from above
//	# Group: Rooms
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:       fmt.Sprintf("file:%s", filename),
		Name:     titleCase(nameWithoutExt),
		Group:    "Scene Files",
		Type:     "file",
		FilePath: filePath,
	}
	if loaders.IsYAML(filePath) {
		sceneInfo.Group = "YAML Scenes"
	}

	file, err := os.Open(filePath)
	if err != nil {
		return sceneInfo, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		// Stop parsing at first non-comment line
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		if key, value, ok := strings.Cut(content, ":"); ok {
			value = strings.TrimSpace(value)
			switch strings.TrimSpace(key) {
			case "Scene":
				sceneInfo.Name = value
			case "Description":
				sceneInfo.Description = value
			case "Group":
				sceneInfo.Group = value
			}
		}
	}

	return sceneInfo, scanner.Err()
}

// ListAllScenes returns the built-in scenes followed by the scene files in
// dir, grouped by category
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	var allScenes []SceneInfo
	for _, name := range BuiltinNames() {
		allScenes = append(allScenes, SceneInfo{
			ID:          name,
			Name:        titleCase(name),
			Description: builtinDescriptions[name],
			Group:       builtinGroup,
			Type:        "builtin",
		})
	}

	fileScenes, err := ListFileScenes(dir)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}
	allScenes = append(allScenes, fileScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{
		Name:   builtinGroup,
		Scenes: groupMap[builtinGroup],
	})
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// Resolve loads a scene by the ID reported in SceneInfo: a built-in name or
// "file:<name>" relative to dir
func Resolve(id, dir string) (*Scene, error) {
	if name, ok := strings.CutPrefix(id, "file:"); ok {
		if name != filepath.Base(name) {
			return nil, fmt.Errorf("invalid scene file name %q", name)
		}
		return LoadFile(filepath.Join(dir, name))
	}
	return NewBuiltin(id)
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
