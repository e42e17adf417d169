package operations

import (
	"fmt"
	"os"
	"strings"
)

// filenameSanitizer replaces spaces and filesystem-unsafe characters in
// report names so they are usable as file and archive entry names.
var filenameSanitizer = strings.NewReplacer(
	" ", "_",
	"<", "_",
	">", "_",
	":", "_",
	`"`, "_",
	"/", "_",
	`\`, "_",
	"|", "_",
	"?", "_",
	"*", "_",
)

// SanitizeName returns a report name safe for filesystem and archive
// entry use.
func SanitizeName(name string) string {
	return filenameSanitizer.Replace(name)
}

// EnsureDirectoryExist creates the directory if it is missing.
func EnsureDirectoryExist(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dirPath, err)
	}
	return nil
}
