package mirror

import (
	"context"
	"os"

	"github.com/langburd/reposync/internal/listing"
)

// RepositoryLister enumerates the repositories a namespace owns.
type RepositoryLister interface {
	ListRepositories(executionContext context.Context, namespace string, pageSize int) ([]listing.RepositoryDescriptor, error)
}

// RepositoryManager performs git operations against local repositories.
type RepositoryManager interface {
	CloneRepository(executionContext context.Context, remoteURL string, destinationPath string) error
	ResolveRemoteHeadBranch(executionContext context.Context, repositoryPath string) (string, error)
	CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error
	PullCurrentBranch(executionContext context.Context, repositoryPath string) error
	ListRemoteBranches(executionContext context.Context, repositoryPath string) ([]string, error)
	InitializeRepository(executionContext context.Context, repositoryPath string) error
	AddOriginRemote(executionContext context.Context, repositoryPath string, remoteURL string) error
}

// FileSystem abstracts the filesystem operations the sync service needs.
type FileSystem interface {
	DirectoryExists(path string) (bool, error)
	MakeDirectoryAll(path string, permissions os.FileMode) error
}

// ProgressObserver receives one notification per finished repository.
type ProgressObserver interface {
	RepositoryCompleted(repositoryLabel string, succeeded bool, failureReason string)
}

// OSFileSystem implements FileSystem using operating system facilities.
type OSFileSystem struct{}

// DirectoryExists reports whether path exists and is a directory.
func (OSFileSystem) DirectoryExists(path string) (bool, error) {
	pathInfo, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return false, nil
		}
		return false, statError
	}
	return pathInfo.IsDir(), nil
}

// MakeDirectoryAll creates path and any missing parents.
func (OSFileSystem) MakeDirectoryAll(path string, permissions os.FileMode) error {
	return os.MkdirAll(path, permissions)
}
