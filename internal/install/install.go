// Package install places the built library at its destination.
package install

import (
	"io"
	"os"
	"path/filepath"

	"github.com/qiniu/x/log"
)

// Copy copies src to dst byte for byte. The destination directory is
// created if needed and an existing dst is overwritten.
func Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	log.Infof("installed %s -> %s", src, dst)
	return nil
}
