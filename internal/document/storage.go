package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DiskStore keeps uploaded binaries on local disk under one directory,
// named by a random stored filename so originals can collide freely.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save streams src to a new file and returns the stored name and size.
// On any error the partial file is removed.
func (d *DiskStore) Save(src io.Reader, ext string) (string, int64, error) {
	storedName := uuid.NewString() + ext
	path := filepath.Join(d.dir, storedName)

	dst, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}

	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	return storedName, size, nil
}

// Open opens a stored file for reading.
func (d *DiskStore) Open(storedName string) (*os.File, error) {
	return os.Open(filepath.Join(d.dir, filepath.Base(storedName)))
}

// Remove deletes a stored file. Missing files are not an error.
func (d *DiskStore) Remove(storedName string) error {
	err := os.Remove(filepath.Join(d.dir, filepath.Base(storedName)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether a stored file is present.
func (d *DiskStore) Exists(storedName string) bool {
	_, err := os.Stat(filepath.Join(d.dir, filepath.Base(storedName)))
	return err == nil
}
