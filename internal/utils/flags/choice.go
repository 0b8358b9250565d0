// Package flags contains helpers shared by the reposync flag definitions.
package flags

import (
	"strings"
)

const (
	choiceListOpenerConstant    = "`<"
	choiceListCloserConstant    = ">`"
	choiceListSeparatorConstant = "|"
)

// FormatChoiceUsage renders flag usage of the form "`<DEFAULT|other>`
// description" with the default choice upper-cased inside the placeholder.
// Blank and duplicate choices are dropped; a blank description yields the
// placeholder alone.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))

	renderedChoices := make([]string, 0, len(choices))
	seenChoices := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}

		normalizedChoice := strings.ToLower(trimmedChoice)
		if _, alreadySeen := seenChoices[normalizedChoice]; alreadySeen {
			continue
		}
		seenChoices[normalizedChoice] = struct{}{}

		if normalizedChoice == normalizedDefault {
			trimmedChoice = strings.ToUpper(trimmedChoice)
		}
		renderedChoices = append(renderedChoices, trimmedChoice)
	}

	placeholder := choiceListOpenerConstant + strings.Join(renderedChoices, choiceListSeparatorConstant) + choiceListCloserConstant
	if len(strings.TrimSpace(description)) == 0 {
		return placeholder
	}
	return placeholder + " " + description
}
