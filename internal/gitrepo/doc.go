// Package gitrepo contains helpers for interrogating and manipulating Git repositories.
//
// It exposes RepositoryManager for cloning, updating, and probing repositories
// through the git CLI, along with remote URL parsing utilities consumed by the
// synchronization service.
package gitrepo
