package tui

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/table"
)

// Modulo that works properly with negative numbers
func mod(a, b int) int {
	return ((a % b) + b) % b
}

func expand(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		user, err := user.Current()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return user.HomeDir, nil
		} else if strings.HasPrefix(path, "~/") {
			return filepath.Join(user.HomeDir, path[2:]), nil
		} else {
			// Paths like '~user/...' are not handled
			return "", fmt.Errorf("Expanding of path '%s' is not supported", path)
		}
	}
	return path, nil
}

func completePath(path string) ([]string, error) {
	var head, tail string
	if len(path) == 0 {
		head = "."
		tail = ""
	} else if path == "~" {
		head = "~/"
		tail = ""
	} else {
		lastSlashIndex := strings.LastIndexByte(path, filepath.Separator)
		if lastSlashIndex == -1 {
			head = "."
			tail = path
		} else {
			head = path[:lastSlashIndex+1]
			tail = path[lastSlashIndex+1:]
		}
	}
	expanded, err := expand(head)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(expanded)
	if err != nil {
		return nil, err
	}
	results := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, tail) {
			if entry.IsDir() {
				name += string(filepath.Separator)
			}
			results = append(results, name)
		}
	}
	return results, nil
}

func commonPrefix(values []string) string {
	if len(values) == 0 {
		return ""
	}
	prefix := values[0]
	for _, v := range values[1:] {
		for !strings.HasPrefix(v, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}

// tableFocusCursor makes sure that the cursor of a table.Model is visible
func tableFocusCursor(t *table.Model) {
	// Setting the cursor with t.SetCursor() may leave it off screen
	t.MoveUp(0)
	t.MoveDown(0)
}
