package gitlabsource_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	gitlab "github.com/xanzy/go-gitlab"
	"go.uber.org/zap"

	"github.com/langburd/reposync/internal/listing"
	"github.com/langburd/reposync/internal/listing/gitlabsource"
)

func projectPayload(fullPath string, slug string, namespaceKind string) string {
	return fmt.Sprintf(
		`{"name":%q,"path":%q,"ssh_url_to_repo":"git@gitlab.example.com:%s/%s.git","default_branch":"main","namespace":{"full_path":%q,"kind":%q}}`,
		slug, slug, fullPath, slug, fullPath, namespaceKind,
	)
}

func TestConvertProject(testInstance *testing.T) {
	project := &gitlab.Project{
		Name:          "API Gateway",
		Path:          "api-gateway",
		SSHURLToRepo:  "git@gitlab.example.com:acme/platform/api-gateway.git",
		DefaultBranch: "main",
		Namespace:     &gitlab.ProjectNamespace{FullPath: "acme/platform", Kind: "group"},
	}

	descriptor := gitlabsource.ConvertProject(project)

	require.Equal(testInstance, "API Gateway", descriptor.Name)
	require.Equal(testInstance, "api-gateway", descriptor.Slug)
	require.Equal(testInstance, "acme/platform", descriptor.NamespacePath)
	require.Equal(testInstance, "git@gitlab.example.com:acme/platform/api-gateway.git", descriptor.CloneURL)
	require.Equal(testInstance, "main", descriptor.DefaultBranch)
}

func TestConvertProjectWithoutNamespace(testInstance *testing.T) {
	project := &gitlab.Project{Name: "standalone", Path: "standalone"}

	descriptor := gitlabsource.ConvertProject(project)

	require.Empty(testInstance, descriptor.NamespacePath)
	require.Equal(testInstance, "standalone", descriptor.Label())
}

func TestListProjectsPageReportsUnfilteredItemCount(testInstance *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, "/api/v4/projects", request.URL.Path)
		responseWriter.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(
			responseWriter,
			"[%s,%s]",
			projectPayload("acme", "gateway", "group"),
			projectPayload("jdoe", "notes", "user"),
		)
	}))
	defer server.Close()

	source, creationError := gitlabsource.New(server.URL, "test-token")
	require.NoError(testInstance, creationError)

	descriptors, retrievedCount, listError := source.ListProjectsPage(context.Background(), "", listing.NamespaceKindAll, 1, 2)

	require.NoError(testInstance, listError)
	require.Len(testInstance, descriptors, 1)
	require.Equal(testInstance, "acme/gateway", descriptors[0].Label())
	require.Equal(testInstance, 2, retrievedCount)
}

func TestListRepositoriesKeepsPagingWhenPersonalProjectsAreFiltered(testInstance *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, "/api/v4/projects", request.URL.Path)
		responseWriter.Header().Set("Content-Type", "application/json")
		switch request.URL.Query().Get("page") {
		case "1":
			fmt.Fprintf(
				responseWriter,
				"[%s,%s]",
				projectPayload("acme", "gateway", "group"),
				projectPayload("jdoe", "notes", "user"),
			)
		default:
			fmt.Fprintf(responseWriter, "[%s]", projectPayload("acme", "billing", "group"))
		}
	}))
	defer server.Close()

	source, creationError := gitlabsource.New(server.URL, "test-token")
	require.NoError(testInstance, creationError)
	service, serviceError := listing.NewService(zap.NewNop(), source)
	require.NoError(testInstance, serviceError)

	descriptors, listError := service.ListRepositories(context.Background(), "", 2)

	require.NoError(testInstance, listError)
	require.Len(testInstance, descriptors, 2)
	require.Equal(testInstance, "acme/gateway", descriptors[0].Label())
	require.Equal(testInstance, "acme/billing", descriptors[1].Label())
}

func TestNewWithClientRequiresClient(testInstance *testing.T) {
	source, creationError := gitlabsource.NewWithClient(nil)
	require.Nil(testInstance, source)
	require.ErrorIs(testInstance, creationError, gitlabsource.ErrClientNotConfigured)
}
