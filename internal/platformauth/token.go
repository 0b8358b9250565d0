// Package platformauth resolves hosting platform API tokens from the environment.
package platformauth

import (
	"os"
	"strings"
)

// Environment variable names consulted for GitHub authentication.
const (
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubAPIToken = "GITHUB_API_TOKEN"
)

// Environment variable names consulted for GitLab authentication.
const (
	EnvGitLabToken   = "GITLAB_TOKEN"
	EnvRepoSyncToken = "REPOSYNC_TOKEN"
)

var githubTokenPreference = []string{
	EnvGitHubCLIToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
}

var gitlabTokenPreference = []string{
	EnvGitLabToken,
	EnvRepoSyncToken,
}

// ResolveGitHubToken returns the first non-empty GitHub token observed in the
// provided environment map or the process environment.
func ResolveGitHubToken(environment map[string]string) (string, bool) {
	return resolveFromPreference(environment, githubTokenPreference)
}

// ResolveGitLabToken returns the first non-empty GitLab token observed in the
// provided environment map or the process environment.
func ResolveGitLabToken(environment map[string]string) (string, bool) {
	return resolveFromPreference(environment, gitlabTokenPreference)
}

func resolveFromPreference(environment map[string]string, tokenPreference []string) (string, bool) {
	for _, environmentKey := range tokenPreference {
		if tokenValue, tokenFound := lookup(environment, environmentKey); tokenFound {
			return tokenValue, true
		}
	}
	for _, environmentKey := range tokenPreference {
		if tokenValue, tokenFound := os.LookupEnv(environmentKey); tokenFound {
			tokenValue = strings.TrimSpace(tokenValue)
			if len(tokenValue) > 0 {
				return tokenValue, true
			}
		}
	}
	return "", false
}

func lookup(environment map[string]string, environmentKey string) (string, bool) {
	if environment == nil {
		return "", false
	}
	environmentValue, exists := environment[environmentKey]
	if !exists {
		return "", false
	}
	environmentValue = strings.TrimSpace(environmentValue)
	if len(environmentValue) == 0 {
		return "", false
	}
	return environmentValue, true
}
