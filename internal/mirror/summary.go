package mirror

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

const (
	summaryHeadlineTemplateConstant = "Synchronized %d repositories: %s, %s\n"
	succeededCountTemplateConstant  = "%d succeeded"
	failedCountTemplateConstant     = "%d failed"
	failureListHeaderConstant       = "Failures:\n"
	failureLineTemplateConstant     = "  %s: %s\n"
)

var (
	succeededCountColorizer = color.New(color.FgGreen)
	failedCountColorizer    = color.New(color.FgRed)
)

// FailureDetail names one failed repository and the reason it failed.
type FailureDetail struct {
	Repository string
	Reason     string
}

// Summary tallies the outcomes of one synchronization pass.
type Summary struct {
	Succeeded int
	Failed    int
	Failures  []FailureDetail
}

// Summarize tallies outcomes into a summary. Outcome order does not matter.
func Summarize(outcomes []SyncOutcome) Summary {
	summary := Summary{}
	for _, outcome := range outcomes {
		if outcome.Succeeded {
			summary.Succeeded++
			continue
		}
		summary.Failed++
		summary.Failures = append(summary.Failures, FailureDetail{
			Repository: outcome.Repository,
			Reason:     outcome.ErrorMessage,
		})
	}
	return summary
}

// Render writes the human-readable summary, listing every failed repository with its reason.
func (summary Summary) Render(writer io.Writer) {
	if writer == nil {
		return
	}

	totalCount := summary.Succeeded + summary.Failed
	fmt.Fprintf(
		writer,
		summaryHeadlineTemplateConstant,
		totalCount,
		succeededCountColorizer.Sprintf(succeededCountTemplateConstant, summary.Succeeded),
		failedCountColorizer.Sprintf(failedCountTemplateConstant, summary.Failed),
	)

	if len(summary.Failures) == 0 {
		return
	}

	fmt.Fprint(writer, failureListHeaderConstant)
	for _, failure := range summary.Failures {
		fmt.Fprintf(writer, failureLineTemplateConstant, failure.Repository, failure.Reason)
	}
}
