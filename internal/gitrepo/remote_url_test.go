package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/langburd/reposync/internal/gitrepo"
)

func TestParseRemoteURL(testInstance *testing.T) {
	testCases := []struct {
		name           string
		remote         string
		expectedResult gitrepo.RemoteURL
		expectError    bool
	}{
		{
			name:   "scp_style_ssh_remote",
			remote: "git@gitlab.example.com:acme/api.git",
			expectedResult: gitrepo.RemoteURL{
				Protocol:   gitrepo.RemoteProtocolSSH,
				Host:       "gitlab.example.com",
				Owner:      "acme",
				Repository: "api",
			},
		},
		{
			name:   "ssh_remote_with_nested_subgroups",
			remote: "git@gitlab.example.com:acme/platform/infra/api.git",
			expectedResult: gitrepo.RemoteURL{
				Protocol:   gitrepo.RemoteProtocolSSH,
				Host:       "gitlab.example.com",
				Owner:      "acme/platform/infra",
				Repository: "api",
			},
		},
		{
			name:   "https_remote",
			remote: "https://gitlab.example.com/acme/platform/api.git",
			expectedResult: gitrepo.RemoteURL{
				Protocol:   gitrepo.RemoteProtocolHTTPS,
				Host:       "gitlab.example.com",
				Owner:      "acme/platform",
				Repository: "api",
			},
		},
		{
			name:        "unsupported_protocol",
			remote:      "ftp://gitlab.example.com/acme/api.git",
			expectError: true,
		},
		{
			name:        "empty_remote",
			remote:      "  ",
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			parsedRemote, parseError := gitrepo.ParseRemoteURL(testCase.remote)
			if testCase.expectError {
				require.Error(subTest, parseError)
				return
			}
			require.NoError(subTest, parseError)
			require.Equal(subTest, testCase.expectedResult, parsedRemote)
		})
	}
}

func TestConvertRemoteProtocol(testInstance *testing.T) {
	testCases := []struct {
		name           string
		remote         string
		targetProtocol gitrepo.RemoteProtocol
		expectedRemote string
	}{
		{
			name:           "ssh_to_https",
			remote:         "git@gitlab.example.com:acme/platform/api.git",
			targetProtocol: gitrepo.RemoteProtocolHTTPS,
			expectedRemote: "https://gitlab.example.com/acme/platform/api.git",
		},
		{
			name:           "https_to_ssh",
			remote:         "https://gitlab.example.com/acme/api.git",
			targetProtocol: gitrepo.RemoteProtocolSSH,
			expectedRemote: "git@gitlab.example.com:acme/api.git",
		},
		{
			name:           "matching_protocol_is_unchanged",
			remote:         "git@gitlab.example.com:acme/api.git",
			targetProtocol: gitrepo.RemoteProtocolSSH,
			expectedRemote: "git@gitlab.example.com:acme/api.git",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			convertedRemote, conversionError := gitrepo.ConvertRemoteProtocol(testCase.remote, testCase.targetProtocol)
			require.NoError(subTest, conversionError)
			require.Equal(subTest, testCase.expectedRemote, convertedRemote)
		})
	}
}
