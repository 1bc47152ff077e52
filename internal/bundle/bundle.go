// Package bundle packs generated config files into a zip archive so they
// can be shipped alongside a release.
package bundle

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const dirPerm = 0o755

// Write zips files into dest. Entries are named by their path relative to
// root using forward slashes. Parent directories of dest are created.
// example usage:
// err := Write("dist/config.zip", "path/to/project", []string{"path/to/project/config/database.yml"})
func Write(dest, root string, files []string) (err error) {
	if err := os.MkdirAll(filepath.Dir(dest), dirPerm); err != nil {
		return err
	}
	zipfile, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := zipfile.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	archive := zip.NewWriter(zipfile)
	for _, path := range files {
		if err := addFile(archive, root, path); err != nil {
			archive.Close()
			return err
		}
	}
	return archive.Close()
}

func addFile(archive *zip.Writer, root, path string) error {
	relPath, err := filepath.Rel(root, path)
	if err != nil {
		return err
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%s is outside %s", path, root)
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = filepath.ToSlash(relPath)
	header.Method = zip.Deflate

	w, err := archive.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, file)
	return err
}
