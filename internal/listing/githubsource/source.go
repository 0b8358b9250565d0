// Package githubsource adapts the GitHub REST API to the listing.ProjectSource contract.
package githubsource

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/go-github/v81/github"
	"golang.org/x/oauth2"

	"github.com/langburd/reposync/internal/listing"
)

const (
	namespaceRequiredMessageConstant = "github listing requires a namespace"
	repositoryListTypeAllConstant    = "all"
	authenticatedUserLoginConstant   = ""
)

// ErrNamespaceRequired indicates a GitHub listing was requested without an organization or user.
var ErrNamespaceRequired = errors.New(namespaceRequiredMessageConstant)

// Source lists GitHub repositories for an organization or user namespace.
type Source struct {
	client *github.Client
}

// New constructs a Source authenticating with token when one is provided.
func New(token string) *Source {
	transport := http.DefaultTransport
	if len(token) > 0 {
		tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		transport = &oauth2.Transport{Source: tokenSource, Base: transport}
	}
	return &Source{client: github.NewClient(&http.Client{Transport: transport})}
}

// NewWithClient constructs a Source around an existing client.
func NewWithClient(client *github.Client) *Source {
	return &Source{client: client}
}

// VerifyAuthentication confirms the configured token identifies a user.
func (source *Source) VerifyAuthentication(executionContext context.Context) error {
	_, _, currentUserError := source.client.Users.Get(executionContext, authenticatedUserLoginConstant)
	return currentUserError
}

// ResolveNamespace classifies the namespace as an organization or a user, preferring organizations.
func (source *Source) ResolveNamespace(executionContext context.Context, namespace string) (listing.NamespaceKind, error) {
	_, organizationResponse, organizationError := source.client.Organizations.Get(executionContext, namespace)
	if organizationError == nil {
		return listing.NamespaceKindGroup, nil
	}
	if !isNotFoundResponse(organizationResponse) {
		return "", organizationError
	}

	_, userResponse, userError := source.client.Users.Get(executionContext, namespace)
	if userError == nil {
		return listing.NamespaceKindUser, nil
	}
	if isNotFoundResponse(userResponse) {
		return "", listing.ErrNamespaceNotFound
	}

	return "", userError
}

// ListProjectsPage fetches one page of repositories for the resolved namespace kind.
// GitHub has no "every accessible repository" namespace, so a namespace is required.
func (source *Source) ListProjectsPage(executionContext context.Context, namespace string, namespaceKind listing.NamespaceKind, pageNumber int, pageSize int) ([]listing.RepositoryDescriptor, int, error) {
	listOptions := github.ListOptions{Page: pageNumber, PerPage: pageSize}

	switch namespaceKind {
	case listing.NamespaceKindGroup:
		repositories, _, listError := source.client.Repositories.ListByOrg(
			executionContext,
			namespace,
			&github.RepositoryListByOrgOptions{Type: repositoryListTypeAllConstant, ListOptions: listOptions},
		)
		if listError != nil {
			return nil, 0, listError
		}
		return convertRepositories(repositories), len(repositories), nil

	case listing.NamespaceKindUser:
		repositories, _, listError := source.client.Repositories.ListByUser(
			executionContext,
			namespace,
			&github.RepositoryListByUserOptions{Type: repositoryListTypeAllConstant, ListOptions: listOptions},
		)
		if listError != nil {
			return nil, 0, listError
		}
		return convertRepositories(repositories), len(repositories), nil

	default:
		return nil, 0, ErrNamespaceRequired
	}
}

func convertRepositories(repositories []*github.Repository) []listing.RepositoryDescriptor {
	descriptors := make([]listing.RepositoryDescriptor, 0, len(repositories))
	for _, repository := range repositories {
		if repository == nil {
			continue
		}
		descriptors = append(descriptors, ConvertRepository(repository))
	}
	return descriptors
}

// ConvertRepository maps a GitHub repository onto a repository descriptor.
func ConvertRepository(repository *github.Repository) listing.RepositoryDescriptor {
	return listing.RepositoryDescriptor{
		Name:          repository.GetName(),
		Slug:          repository.GetName(),
		NamespacePath: repository.GetOwner().GetLogin(),
		CloneURL:      repository.GetSSHURL(),
		DefaultBranch: repository.GetDefaultBranch(),
	}
}

func isNotFoundResponse(response *github.Response) bool {
	return response != nil && response.Response != nil && response.StatusCode == http.StatusNotFound
}
