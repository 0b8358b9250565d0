package listing

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

const (
	maximumPageCountConstant = 1000

	resolveOperationNameConstant = "namespace resolution"
	pageOperationNameConstant    = "project page"

	loggerNotConfiguredMessageConstant = "logger not configured"
	sourceNotConfiguredMessageConstant = "project source not configured"

	pageCapReachedLogMessageConstant    = "page cap reached, repository list may be incomplete"
	namespaceResolvedLogMessageConstant = "namespace resolved"
	pageFetchedLogMessageConstant       = "fetched project page"
	logFieldNamespaceConstant           = "namespace"
	logFieldNamespaceKindConstant       = "namespace_kind"
	logFieldPageNumberConstant          = "page"
	logFieldPageItemCountConstant       = "items"
	logFieldPageRetrievedCountConstant  = "retrieved"
	logFieldPageCapConstant             = "page_cap"
)

// ErrLoggerNotConfigured indicates the service was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrSourceNotConfigured indicates the service was constructed without a project source.
var ErrSourceNotConfigured = errors.New(sourceNotConfiguredMessageConstant)

// ProjectSource abstracts one hosting platform's namespace resolution and paged project listing.
//
// ListProjectsPage returns the descriptors for one page together with the raw
// number of items the platform delivered before any source-side filtering.
// Pagination decisions must rely on the raw count: a source that filters a
// page may return fewer descriptors than the platform sent.
type ProjectSource interface {
	ResolveNamespace(executionContext context.Context, namespace string) (NamespaceKind, error)
	ListProjectsPage(executionContext context.Context, namespace string, namespaceKind NamespaceKind, pageNumber int, pageSize int) ([]RepositoryDescriptor, int, error)
}

// Service drives paged repository enumeration over a ProjectSource.
type Service struct {
	logger *zap.Logger
	source ProjectSource
}

// NewService constructs a listing service around the provided source.
func NewService(logger *zap.Logger, source ProjectSource) (*Service, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if source == nil {
		return nil, ErrSourceNotConfigured
	}
	return &Service{logger: logger, source: source}, nil
}

// ListRepositories resolves the namespace kind once, then pages through the
// source until a raw page shorter than pageSize signals the end of data. An empty
// namespace lists every repository the credentials can access.
//
// Pagination stops early at a fixed page cap so a platform that never signals
// end-of-data cannot loop the process forever; hitting the cap logs a warning
// and returns the repositories collected so far.
func (service *Service) ListRepositories(executionContext context.Context, namespace string, pageSize int) ([]RepositoryDescriptor, error) {
	namespaceKind := NamespaceKindAll
	if len(namespace) > 0 {
		resolvedKind, resolveError := service.source.ResolveNamespace(executionContext, namespace)
		if resolveError != nil {
			if errors.Is(resolveError, ErrNamespaceNotFound) {
				return nil, resolveError
			}
			return nil, ListingError{Operation: resolveOperationNameConstant, Cause: resolveError}
		}
		namespaceKind = resolvedKind
	}

	service.logger.Debug(
		namespaceResolvedLogMessageConstant,
		zap.String(logFieldNamespaceConstant, namespace),
		zap.String(logFieldNamespaceKindConstant, string(namespaceKind)),
	)

	collectedDescriptors := []RepositoryDescriptor{}
	for pageNumber := 1; ; pageNumber++ {
		if pageNumber > maximumPageCountConstant {
			service.logger.Warn(
				pageCapReachedLogMessageConstant,
				zap.String(logFieldNamespaceConstant, namespace),
				zap.Int(logFieldPageCapConstant, maximumPageCountConstant),
			)
			return collectedDescriptors, nil
		}

		pageDescriptors, retrievedItemCount, pageError := service.source.ListProjectsPage(executionContext, namespace, namespaceKind, pageNumber, pageSize)
		if pageError != nil {
			return nil, ListingError{Operation: pageOperationNameConstant, Cause: pageError}
		}

		service.logger.Debug(
			pageFetchedLogMessageConstant,
			zap.String(logFieldNamespaceConstant, namespace),
			zap.Int(logFieldPageNumberConstant, pageNumber),
			zap.Int(logFieldPageItemCountConstant, len(pageDescriptors)),
			zap.Int(logFieldPageRetrievedCountConstant, retrievedItemCount),
		)

		collectedDescriptors = append(collectedDescriptors, pageDescriptors...)

		if retrievedItemCount < pageSize {
			return collectedDescriptors, nil
		}
	}
}
