package mirror_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/langburd/reposync/internal/listing"
	"github.com/langburd/reposync/internal/mirror"
)

type concurrencyTrackingManager struct {
	repositoryManagerStub

	trackingMutex     sync.Mutex
	activeCloneCount  int
	maximumCloneCount int
}

func (manager *concurrencyTrackingManager) CloneRepository(executionContext context.Context, remoteURL string, destinationPath string) error {
	manager.trackingMutex.Lock()
	manager.activeCloneCount++
	if manager.activeCloneCount > manager.maximumCloneCount {
		manager.maximumCloneCount = manager.activeCloneCount
	}
	manager.trackingMutex.Unlock()

	time.Sleep(10 * time.Millisecond)

	manager.trackingMutex.Lock()
	manager.activeCloneCount--
	manager.trackingMutex.Unlock()

	return manager.repositoryManagerStub.CloneRepository(executionContext, remoteURL, destinationPath)
}

type countingProgressObserver struct {
	mutex           sync.Mutex
	completedLabels []string
	failureCount    int
}

func (observer *countingProgressObserver) RepositoryCompleted(repositoryLabel string, succeeded bool, _ string) {
	observer.mutex.Lock()
	defer observer.mutex.Unlock()

	observer.completedLabels = append(observer.completedLabels, repositoryLabel)
	if !succeeded {
		observer.failureCount++
	}
}

func namespaceDescriptors(repositoryCount int) []listing.RepositoryDescriptor {
	descriptors := make([]listing.RepositoryDescriptor, 0, repositoryCount)
	for repositoryIndex := 0; repositoryIndex < repositoryCount; repositoryIndex++ {
		repositorySlug := fmt.Sprintf("service-%d", repositoryIndex)
		descriptors = append(descriptors, listing.RepositoryDescriptor{
			Name:          repositorySlug,
			Slug:          repositorySlug,
			NamespacePath: "acme",
			CloneURL:      fmt.Sprintf("git@gitlab.example.com:acme/%s.git", repositorySlug),
			DefaultBranch: "main",
		})
	}
	return descriptors
}

func newCoordinator(testInstance *testing.T, repositoryManager mirror.RepositoryManager, progressObserver mirror.ProgressObserver) *mirror.Coordinator {
	testInstance.Helper()

	service, serviceError := mirror.NewService(mirror.ServiceDependencies{
		Logger:            zap.NewNop(),
		RepositoryManager: repositoryManager,
		FileSystem:        &fileSystemStub{},
	})
	require.NoError(testInstance, serviceError)

	coordinator, coordinatorError := mirror.NewCoordinator(zap.NewNop(), service, progressObserver)
	require.NoError(testInstance, coordinatorError)
	return coordinator
}

func TestNewCoordinatorValidatesDependencies(testInstance *testing.T) {
	service, serviceError := mirror.NewService(mirror.ServiceDependencies{
		Logger:            zap.NewNop(),
		RepositoryManager: &repositoryManagerStub{},
		FileSystem:        &fileSystemStub{},
	})
	require.NoError(testInstance, serviceError)

	missingLoggerCoordinator, missingLoggerError := mirror.NewCoordinator(nil, service, nil)
	require.Nil(testInstance, missingLoggerCoordinator)
	require.ErrorIs(testInstance, missingLoggerError, mirror.ErrLoggerNotConfigured)

	missingServiceCoordinator, missingServiceError := mirror.NewCoordinator(zap.NewNop(), nil, nil)
	require.Nil(testInstance, missingServiceCoordinator)
	require.ErrorIs(testInstance, missingServiceError, mirror.ErrServiceNotConfigured)
}

func TestSyncAllReturnsOneOutcomePerDescriptorInOrder(testInstance *testing.T) {
	repositoryManager := &repositoryManagerStub{
		headBranch: "main",
		cloneErrorsByURL: map[string]error{
			"git@gitlab.example.com:acme/service-1.git": errors.New("authentication required"),
		},
	}
	coordinator := newCoordinator(testInstance, repositoryManager, nil)

	descriptors := namespaceDescriptors(4)
	outcomes := coordinator.SyncAll(context.Background(), descriptors, syncConfiguration("/srv/mirror"))

	require.Len(testInstance, outcomes, len(descriptors))
	for outcomeIndex, outcome := range outcomes {
		require.Equal(testInstance, descriptors[outcomeIndex].Label(), outcome.Repository)
	}
	require.True(testInstance, outcomes[0].Succeeded)
	require.False(testInstance, outcomes[1].Succeeded)
	require.Equal(testInstance, "clone: authentication required", outcomes[1].ErrorMessage)
	require.True(testInstance, outcomes[2].Succeeded)
	require.True(testInstance, outcomes[3].Succeeded)
}

func TestSyncAllHonorsWorkerLimit(testInstance *testing.T) {
	repositoryManager := &concurrencyTrackingManager{
		repositoryManagerStub: repositoryManagerStub{headBranch: "main"},
	}
	coordinator := newCoordinator(testInstance, repositoryManager, nil)

	configuration := syncConfiguration("/srv/mirror")
	configuration.MaxWorkers = 2

	outcomes := coordinator.SyncAll(context.Background(), namespaceDescriptors(8), configuration)

	require.Len(testInstance, outcomes, 8)
	require.LessOrEqual(testInstance, repositoryManager.maximumCloneCount, 2)
	require.Positive(testInstance, repositoryManager.maximumCloneCount)
}

func TestSyncAllClampsNonPositiveWorkerCount(testInstance *testing.T) {
	repositoryManager := &repositoryManagerStub{headBranch: "main"}
	coordinator := newCoordinator(testInstance, repositoryManager, nil)

	configuration := syncConfiguration("/srv/mirror")
	configuration.MaxWorkers = 0

	outcomes := coordinator.SyncAll(context.Background(), namespaceDescriptors(3), configuration)

	require.Len(testInstance, outcomes, 3)
	for _, outcome := range outcomes {
		require.True(testInstance, outcome.Succeeded)
	}
}

func TestSyncAllReportsCanceledRepositories(testInstance *testing.T) {
	repositoryManager := &repositoryManagerStub{headBranch: "main"}
	coordinator := newCoordinator(testInstance, repositoryManager, nil)

	canceledContext, cancelFunction := context.WithCancel(context.Background())
	cancelFunction()

	outcomes := coordinator.SyncAll(canceledContext, namespaceDescriptors(3), syncConfiguration("/srv/mirror"))

	require.Len(testInstance, outcomes, 3)
	for _, outcome := range outcomes {
		require.False(testInstance, outcome.Succeeded)
		require.Equal(testInstance, "synchronization canceled before this repository started", outcome.ErrorMessage)
	}
	require.Empty(testInstance, repositoryManager.clonedURLs)
}

func TestSyncAllNotifiesProgressObserver(testInstance *testing.T) {
	repositoryManager := &repositoryManagerStub{
		headBranch: "main",
		cloneErrorsByURL: map[string]error{
			"git@gitlab.example.com:acme/service-2.git": errors.New("authentication required"),
		},
	}
	progressObserver := &countingProgressObserver{}
	coordinator := newCoordinator(testInstance, repositoryManager, progressObserver)

	descriptors := namespaceDescriptors(5)
	coordinator.SyncAll(context.Background(), descriptors, syncConfiguration("/srv/mirror"))

	require.Len(testInstance, progressObserver.completedLabels, len(descriptors))
	require.Equal(testInstance, 1, progressObserver.failureCount)
}
