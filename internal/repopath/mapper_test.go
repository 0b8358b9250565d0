package repopath_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/langburd/reposync/internal/repopath"
)

func TestMapToLocalPath(testInstance *testing.T) {
	testCases := []struct {
		name              string
		rootNamespace     string
		fullNamespacePath string
		repositorySlug    string
		expectedPath      string
	}{
		{
			name:              "nested_subgroup_drops_root_segment",
			rootNamespace:     "acme",
			fullNamespacePath: "acme/platform/api",
			repositorySlug:    "gateway",
			expectedPath:      "platform/api/gateway",
		},
		{
			name:              "root_level_repository_maps_directly_under_clone_root",
			rootNamespace:     "acme",
			fullNamespacePath: "acme",
			repositorySlug:    "root-tool",
			expectedPath:      "root-tool",
		},
		{
			name:              "foreign_namespace_is_kept_unchanged",
			rootNamespace:     "acme",
			fullNamespacePath: "other-org/app",
			repositorySlug:    "app",
			expectedPath:      "other-org/app/app",
		},
		{
			name:              "empty_root_namespace_keeps_full_path",
			rootNamespace:     "",
			fullNamespacePath: "acme/platform",
			repositorySlug:    "gateway",
			expectedPath:      "acme/platform/gateway",
		},
		{
			name:              "root_prefix_must_match_a_whole_segment",
			rootNamespace:     "acme",
			fullNamespacePath: "acme-labs/tools",
			repositorySlug:    "cli",
			expectedPath:      "acme-labs/tools/cli",
		},
		{
			name:              "empty_namespace_path_uses_slug_only",
			rootNamespace:     "acme",
			fullNamespacePath: "",
			repositorySlug:    "standalone",
			expectedPath:      "standalone",
		},
		{
			name:              "surrounding_separators_are_ignored",
			rootNamespace:     "acme",
			fullNamespacePath: "/acme/platform/",
			repositorySlug:    "gateway",
			expectedPath:      "platform/gateway",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			mappedPath := repopath.MapToLocalPath(testCase.rootNamespace, testCase.fullNamespacePath, testCase.repositorySlug)
			require.Equal(subTest, testCase.expectedPath, mappedPath)
		})
	}
}
