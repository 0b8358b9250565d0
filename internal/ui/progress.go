package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

const (
	progressLineTemplateConstant    = "[%d/%d] %s %s\n"
	progressSuccessMarkerConstant   = "ok"
	progressFailureMarkerConstant   = "failed"
	progressFailureDetailTemplate   = "[%d/%d] %s %s: %s\n"
	progressUnknownRepositoryLabel  = "unknown repository"
	progressEmptyFailureReasonLabel = ""
)

var (
	progressSuccessMarkerColorizer = color.New(color.FgGreen)
	progressFailureMarkerColorizer = color.New(color.FgRed)
)

// ProgressReporter prints one line per finished repository with a running counter.
// It is safe for concurrent use by multiple synchronization workers.
type ProgressReporter struct {
	writer         io.Writer
	totalCount     int
	completedCount int
	mutex          sync.Mutex
}

// NewProgressReporter constructs a reporter expecting totalCount completions.
func NewProgressReporter(writer io.Writer, totalCount int) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	if totalCount < 0 {
		totalCount = 0
	}
	return &ProgressReporter{writer: writer, totalCount: totalCount}
}

// RepositoryCompleted records a finished repository and prints its progress line.
func (reporter *ProgressReporter) RepositoryCompleted(repositoryLabel string, succeeded bool, failureReason string) {
	if reporter == nil {
		return
	}

	if len(repositoryLabel) == 0 {
		repositoryLabel = progressUnknownRepositoryLabel
	}

	reporter.mutex.Lock()
	defer reporter.mutex.Unlock()

	reporter.completedCount++

	if succeeded {
		fmt.Fprintf(reporter.writer, progressLineTemplateConstant, reporter.completedCount, reporter.totalCount, progressSuccessMarkerColorizer.Sprint(progressSuccessMarkerConstant), repositoryLabel)
		return
	}

	if failureReason == progressEmptyFailureReasonLabel {
		fmt.Fprintf(reporter.writer, progressLineTemplateConstant, reporter.completedCount, reporter.totalCount, progressFailureMarkerColorizer.Sprint(progressFailureMarkerConstant), repositoryLabel)
		return
	}

	fmt.Fprintf(reporter.writer, progressFailureDetailTemplate, reporter.completedCount, reporter.totalCount, progressFailureMarkerColorizer.Sprint(progressFailureMarkerConstant), repositoryLabel, failureReason)
}

// CompletedCount reports how many repositories have finished so far.
func (reporter *ProgressReporter) CompletedCount() int {
	if reporter == nil {
		return 0
	}
	reporter.mutex.Lock()
	defer reporter.mutex.Unlock()
	return reporter.completedCount
}
