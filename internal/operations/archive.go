package operations

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
)

// CreateArchive writes the staged report files into one zip archive.
// Entries carry sanitized base names only, never paths. The archive is
// written fully before the function returns success; on any failure the
// partial archive is removed and the staged files are left untouched.
func CreateArchive(archivePath string, files []string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("%w: create %q: %v", ErrArchive, archivePath, err)
	}

	if err := writeArchive(out, files); err != nil {
		out.Close()
		os.Remove(archivePath)
		return err
	}

	if err := out.Close(); err != nil {
		os.Remove(archivePath)
		return fmt.Errorf("%w: close %q: %v", ErrArchive, archivePath, err)
	}
	return nil
}

func writeArchive(out io.Writer, files []string) error {
	zw := zip.NewWriter(out)

	for _, file := range files {
		entry, err := zw.Create(SanitizeName(filepath.Base(file)))
		if err != nil {
			zw.Close()
			return fmt.Errorf("%w: add entry for %q: %v", ErrArchive, file, err)
		}
		in, err := os.Open(file)
		if err != nil {
			zw.Close()
			return fmt.Errorf("%w: open %q: %v", ErrArchive, file, err)
		}
		_, err = io.Copy(entry, in)
		in.Close()
		if err != nil {
			zw.Close()
			return fmt.Errorf("%w: write %q: %v", ErrArchive, file, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: finalize archive: %v", ErrArchive, err)
	}
	return nil
}
