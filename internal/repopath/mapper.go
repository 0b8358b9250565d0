// Package repopath converts hosting platform namespace paths into local filesystem destinations.
package repopath

import (
	"path/filepath"
	"strings"
)

const namespaceSeparatorConstant = "/"

// MapToLocalPath converts a repository's namespace path into a destination
// relative to the clone root directory.
//
// When the first namespace segment equals rootNamespace the segment is
// dropped, so repositories nest under the clone root without repeating the
// namespace name. Namespace paths owned by other roots are kept unchanged.
// The URL-safe repository slug is always the final path element; display
// names may contain characters invalid for a filesystem path.
func MapToLocalPath(rootNamespace string, fullNamespacePath string, repositorySlug string) string {
	namespaceSegments := splitNamespacePath(fullNamespacePath)

	trimmedRootNamespace := strings.TrimSpace(rootNamespace)
	if len(namespaceSegments) > 0 && len(trimmedRootNamespace) > 0 && namespaceSegments[0] == trimmedRootNamespace {
		namespaceSegments = namespaceSegments[1:]
	}

	pathElements := append(namespaceSegments, repositorySlug)
	return filepath.Join(pathElements...)
}

func splitNamespacePath(fullNamespacePath string) []string {
	trimmedNamespacePath := strings.Trim(strings.TrimSpace(fullNamespacePath), namespaceSeparatorConstant)
	if len(trimmedNamespacePath) == 0 {
		return nil
	}
	return strings.Split(trimmedNamespacePath, namespaceSeparatorConstant)
}
