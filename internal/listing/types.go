// Package listing enumerates remote repositories owned by a hosting platform namespace.
package listing

import "path"

// NamespaceKind tags how a namespace resolves on the hosting platform.
type NamespaceKind string

// Namespace kinds resolved before listing begins.
const (
	NamespaceKindGroup NamespaceKind = "group"
	NamespaceKindUser  NamespaceKind = "user"
	NamespaceKindAll   NamespaceKind = "all"
)

// RepositoryDescriptor describes one remote repository. Instances are
// immutable once fetched from the platform API.
type RepositoryDescriptor struct {
	Name          string
	Slug          string
	NamespacePath string
	CloneURL      string
	DefaultBranch string
}

// Label returns the namespace qualified identifier used in logs and summaries.
func (descriptor RepositoryDescriptor) Label() string {
	if len(descriptor.NamespacePath) == 0 {
		return descriptor.Slug
	}
	return path.Join(descriptor.NamespacePath, descriptor.Slug)
}
