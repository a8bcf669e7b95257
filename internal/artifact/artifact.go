// Package artifact finds the library produced by a cargo release build.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qiniu/x/log"
)

// Dynamic formats come before the static archive. The same order is used
// for every platform; only the right format exists on disk for a given one.
var patterns = []string{
	"%s.dll",
	"lib%s.so",
	"lib%s.dylib",
	"lib%s.a",
}

// NotFoundError reports that no candidate existed in Dir.
type NotFoundError struct {
	Dir   string
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find built library in %s (tried %s)", e.Dir, strings.Join(e.Tried, ", "))
}

// Dir returns the directory cargo writes release outputs for triple into.
func Dir(buildDir, triple string) string {
	return filepath.Join(buildDir, triple, "release")
}

// Candidates returns the file names tried for library name, in order.
func Candidates(name string) []string {
	names := make([]string, len(patterns))
	for i, p := range patterns {
		names[i] = fmt.Sprintf(p, name)
	}
	return names
}

// Locate returns the first candidate for name that exists under the
// release directory of triple.
func Locate(buildDir, triple, name string) (string, error) {
	dir := Dir(buildDir, triple)
	tried := Candidates(name)
	for _, file := range tried {
		path := filepath.Join(dir, file)
		log.Debugf("src_path %s", path)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", &NotFoundError{Dir: dir, Tried: tried}
}

// IsStaticArchive reports whether path names a static archive.
func IsStaticArchive(path string) bool {
	return filepath.Ext(path) == ".a"
}
