package mirror

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/langburd/reposync/internal/listing"
)

const (
	syncCanceledMessageConstant         = "synchronization canceled before this repository started"
	coordinatorStartedLogMessage        = "starting repository synchronization"
	coordinatorFinishedLogMessage       = "finished repository synchronization"
	logFieldRepositoryCountConstant     = "repositories"
	logFieldWorkerCountConstant         = "workers"
	logFieldSucceededCountConstant      = "succeeded"
	logFieldFailedCountConstant         = "failed"
	serviceNotConfiguredMessageConstant = "sync service not configured"
)

// ErrServiceNotConfigured indicates the coordinator was constructed without a sync service.
var ErrServiceNotConfigured = errors.New(serviceNotConfiguredMessageConstant)

// Coordinator fans repository synchronization out over a bounded worker pool.
type Coordinator struct {
	logger           *zap.Logger
	service          *Service
	progressObserver ProgressObserver
}

// NewCoordinator constructs a coordinator around the provided sync service.
func NewCoordinator(logger *zap.Logger, service *Service, progressObserver ProgressObserver) (*Coordinator, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if service == nil {
		return nil, ErrServiceNotConfigured
	}
	return &Coordinator{logger: logger, service: service, progressObserver: progressObserver}, nil
}

// SyncAll synchronizes every descriptor using at most configuration.MaxWorkers
// concurrent workers and returns exactly one outcome per descriptor. A failed
// repository never cancels or blocks the others; canceling the context stops
// dispatching new work while letting in-flight repositories finish.
func (coordinator *Coordinator) SyncAll(executionContext context.Context, descriptors []listing.RepositoryDescriptor, configuration CommandConfiguration) []SyncOutcome {
	// A non-positive limit would make errgroup.Go block forever.
	workerCount := configuration.MaxWorkers
	if workerCount < 1 {
		workerCount = 1
	}

	coordinator.logger.Info(
		coordinatorStartedLogMessage,
		zap.Int(logFieldRepositoryCountConstant, len(descriptors)),
		zap.Int(logFieldWorkerCountConstant, workerCount),
	)

	outcomes := make([]SyncOutcome, len(descriptors))

	workerGroup := errgroup.Group{}
	workerGroup.SetLimit(workerCount)

	for descriptorIndex, descriptor := range descriptors {
		workerGroup.Go(func() error {
			if executionContext.Err() != nil {
				outcomes[descriptorIndex] = SyncOutcome{
					Repository:   descriptor.Label(),
					ErrorMessage: syncCanceledMessageConstant,
				}
			} else {
				outcomes[descriptorIndex] = coordinator.service.SyncRepository(executionContext, descriptor, configuration)
			}

			if coordinator.progressObserver != nil {
				outcome := outcomes[descriptorIndex]
				coordinator.progressObserver.RepositoryCompleted(outcome.Repository, outcome.Succeeded, outcome.ErrorMessage)
			}
			return nil
		})
	}

	_ = workerGroup.Wait()

	summary := Summarize(outcomes)
	coordinator.logger.Info(
		coordinatorFinishedLogMessage,
		zap.Int(logFieldSucceededCountConstant, summary.Succeeded),
		zap.Int(logFieldFailedCountConstant, summary.Failed),
	)

	return outcomes
}
