// Package gitlabsource adapts the GitLab REST API to the listing.ProjectSource contract.
package gitlabsource

import (
	"context"
	"errors"
	"net/http"
	"strings"

	gitlab "github.com/xanzy/go-gitlab"

	"github.com/langburd/reposync/internal/listing"
)

const (
	clientNotConfiguredMessageConstant = "gitlab client not configured"
	groupNamespaceKindNameConstant     = "group"
)

// ErrClientNotConfigured indicates the source was constructed without a client.
var ErrClientNotConfigured = errors.New(clientNotConfiguredMessageConstant)

// Source lists GitLab projects for a namespace.
type Source struct {
	client *gitlab.Client
}

// New constructs a Source talking to serverURL with the provided token.
func New(serverURL string, token string) (*Source, error) {
	client, clientError := gitlab.NewClient(token, gitlab.WithBaseURL(serverURL))
	if clientError != nil {
		return nil, clientError
	}
	return &Source{client: client}, nil
}

// NewWithClient constructs a Source around an existing client.
func NewWithClient(client *gitlab.Client) (*Source, error) {
	if client == nil {
		return nil, ErrClientNotConfigured
	}
	return &Source{client: client}, nil
}

// VerifyAuthentication confirms the configured token identifies a user.
func (source *Source) VerifyAuthentication(executionContext context.Context) error {
	_, _, currentUserError := source.client.Users.CurrentUser(gitlab.WithContext(executionContext))
	return currentUserError
}

// ResolveNamespace classifies the namespace as a group or a user, preferring groups.
func (source *Source) ResolveNamespace(executionContext context.Context, namespace string) (listing.NamespaceKind, error) {
	_, groupResponse, groupError := source.client.Groups.GetGroup(namespace, nil, gitlab.WithContext(executionContext))
	if groupError == nil {
		return listing.NamespaceKindGroup, nil
	}
	if !isNotFoundResponse(groupResponse) {
		return "", groupError
	}

	users, _, userError := source.client.Users.ListUsers(&gitlab.ListUsersOptions{Username: gitlab.Ptr(namespace)}, gitlab.WithContext(executionContext))
	if userError != nil {
		return "", userError
	}
	if len(users) > 0 {
		return listing.NamespaceKindUser, nil
	}

	return "", listing.ErrNamespaceNotFound
}

// ListProjectsPage fetches one page of projects for the resolved namespace kind.
//
// Group namespaces include subgroup projects. User namespaces list projects
// owned by the authenticated user, which requires the token to belong to the
// target user. Without a namespace every accessible group project is listed;
// that branch filters out personal projects after the fetch, so the returned
// raw count reflects the unfiltered API page.
func (source *Source) ListProjectsPage(executionContext context.Context, namespace string, namespaceKind listing.NamespaceKind, pageNumber int, pageSize int) ([]listing.RepositoryDescriptor, int, error) {
	listOptions := gitlab.ListOptions{Page: pageNumber, PerPage: pageSize}

	switch namespaceKind {
	case listing.NamespaceKindGroup:
		projects, _, listError := source.client.Groups.ListGroupProjects(
			namespace,
			&gitlab.ListGroupProjectsOptions{ListOptions: listOptions, IncludeSubGroups: gitlab.Ptr(true)},
			gitlab.WithContext(executionContext),
		)
		if listError != nil {
			return nil, 0, listError
		}
		return convertProjects(projects, nil), len(projects), nil

	case listing.NamespaceKindUser:
		projects, _, listError := source.client.Projects.ListProjects(
			&gitlab.ListProjectsOptions{ListOptions: listOptions, Owned: gitlab.Ptr(true)},
			gitlab.WithContext(executionContext),
		)
		if listError != nil {
			return nil, 0, listError
		}
		return convertProjects(projects, nil), len(projects), nil

	default:
		projects, _, listError := source.client.Projects.ListProjects(
			&gitlab.ListProjectsOptions{ListOptions: listOptions},
			gitlab.WithContext(executionContext),
		)
		if listError != nil {
			return nil, 0, listError
		}
		return convertProjects(projects, isGroupProject), len(projects), nil
	}
}

func isGroupProject(project *gitlab.Project) bool {
	return project.Namespace != nil && project.Namespace.Kind == groupNamespaceKindNameConstant
}

func convertProjects(projects []*gitlab.Project, includeProject func(*gitlab.Project) bool) []listing.RepositoryDescriptor {
	descriptors := make([]listing.RepositoryDescriptor, 0, len(projects))
	for _, project := range projects {
		if project == nil {
			continue
		}
		if includeProject != nil && !includeProject(project) {
			continue
		}
		descriptors = append(descriptors, ConvertProject(project))
	}
	return descriptors
}

// ConvertProject maps a GitLab project onto a repository descriptor.
func ConvertProject(project *gitlab.Project) listing.RepositoryDescriptor {
	namespacePath := ""
	if project.Namespace != nil {
		namespacePath = strings.TrimSpace(project.Namespace.FullPath)
	}

	return listing.RepositoryDescriptor{
		Name:          project.Name,
		Slug:          project.Path,
		NamespacePath: namespacePath,
		CloneURL:      project.SSHURLToRepo,
		DefaultBranch: project.DefaultBranch,
	}
}

func isNotFoundResponse(response *gitlab.Response) bool {
	return response != nil && response.Response != nil && response.StatusCode == http.StatusNotFound
}
