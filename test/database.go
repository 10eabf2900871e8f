package test

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

// TmpFile returns the path of a sqlite database file in a temporary
// directory that is removed when the test finishes. The file name is
// derived from the test name.
func TmpFile(t *testing.T) string {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return filepath.Join(t.TempDir(), fmt.Sprintf("%s.db", name))
}
