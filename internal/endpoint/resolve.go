package endpoint

import (
	"fmt"
	"strings"
)

const wildcardSuffix = "/**"

// resolvePath joins a base path with a route path and collapses path
// variables. The first "{name}" segment becomes a "/**" wildcard and
// resolution stops there, so "/items/{id}/detail" resolves to
// "/items/**". The truncation loses trailing literal segments on
// purpose; registered routes depend on this matching behavior.
func resolvePath(basePath, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("endpoint: %w", ErrEmptyPathValue)
	}

	var resolved strings.Builder
	resolved.WriteString(strings.TrimSuffix(basePath, "/"))

	for _, segment := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		if isPathVariable(segment) {
			resolved.WriteString(wildcardSuffix)
			break
		}
		resolved.WriteString("/")
		resolved.WriteString(segment)
	}
	return resolved.String(), nil
}

func isPathVariable(segment string) bool {
	return strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}")
}
