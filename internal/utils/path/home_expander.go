package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const homeShortcutConstant = "~"

// HomeDirectoryProvider resolves the current user's home directory.
type HomeDirectoryProvider func() (string, error)

// HomeExpander rewrites a leading "~" shortcut to the user's home directory
// so a clone directory configured as "~/mirror" lands in the expected place.
// The home lookup runs once per expander and its result, including a lookup
// failure, is cached.
type HomeExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	homeDirectoryError    error
	lookupOnce            sync.Once
}

// NewHomeExpander constructs a HomeExpander backed by os.UserHomeDir.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom home
// directory lookup. A nil provider falls back to os.UserHomeDir.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{homeDirectoryProvider: provider}
}

// Expand resolves a bare "~" or a "~"-plus-separator prefix against the home
// directory. Paths without the shortcut, and every path when the home lookup
// fails, come back unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || !strings.HasPrefix(candidatePath, homeShortcutConstant) {
		return candidatePath
	}

	homeDirectory := expander.resolveHomeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}

	remainder := candidatePath[len(homeShortcutConstant):]
	if len(remainder) == 0 {
		return homeDirectory
	}
	if remainder[0] == '/' || remainder[0] == os.PathSeparator {
		return filepath.Join(homeDirectory, remainder[1:])
	}

	return candidatePath
}

func (expander *HomeExpander) resolveHomeDirectory() string {
	expander.lookupOnce.Do(func() {
		expander.homeDirectory, expander.homeDirectoryError = expander.homeDirectoryProvider()
	})
	if expander.homeDirectoryError != nil {
		return ""
	}
	return expander.homeDirectory
}
