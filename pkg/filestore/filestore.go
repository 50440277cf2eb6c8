package filestore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/admitdesk/admitdesk/pkg/models"
)

const documentsDir = "documents"

var _ models.FileStore = &AferoFileStore{}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// AferoFileStore writes uploads to an afero filesystem. Keys are slash-separated
// paths relative to the filesystem root.
type AferoFileStore struct {
	fs afero.Fs
}

func New(fs afero.Fs) *AferoFileStore {
	return &AferoFileStore{fs: fs}
}

// NewOsFileStore stores files on disk beneath root, creating it if needed.
func NewOsFileStore(root string) (*AferoFileStore, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", root, err)
	}
	return New(afero.NewBasePathFs(osFs, root)), nil
}

// Save writes r to documents/<admissionCode>/<random>-<fileName> and returns the key.
func (s *AferoFileStore) Save(admissionCode string, fileName string, r io.Reader) (string, error) {
	dir := path.Join(documentsDir, sanitize(admissionCode))
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	key := path.Join(dir, uuid.NewString()+"-"+sanitize(fileName))
	f, err := s.fs.OpenFile(key, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", key, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(key)
		return "", fmt.Errorf("failed to write file %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close file %s: %w", key, err)
	}

	return key, nil
}

func (s *AferoFileStore) Open(key string) (io.ReadCloser, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	f, err := s.fs.Open(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, models.NewNotFoundError("file " + key)
		}
		return nil, err
	}
	return f, nil
}

// Remove deletes the file at key. Removing a missing file is not an error.
func (s *AferoFileStore) Remove(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	err := s.fs.Remove(key)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func checkKey(key string) error {
	clean := path.Clean(key)
	if key == "" || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return models.NewBadRequestError("invalid file key")
	}
	return nil
}

func sanitize(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	return name
}
