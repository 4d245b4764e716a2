package files

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"billingdash/internal/config"
	apierrors "billingdash/internal/errors"
	"billingdash/internal/infrastructure"
)

// Manager errors are returned wrapped in an *apierrors.AppError: validation
// for ErrInvalidFilename and ErrUnsupportedType, not found for ErrNotFound.
// Filesystem failures are storage errors.
var (
	// ErrInvalidFilename is returned for names that sanitise to nothing or
	// that differ from their sanitised form on lookup.
	ErrInvalidFilename = errors.New("invalid filename")
	// ErrUnsupportedType is returned when the extension is not allowed.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrNotFound is returned when the upload does not exist.
	ErrNotFound = errors.New("file not found")
)

func invalidFilename(name string) error {
	return apierrors.NewAppValidationError("filename must be a valid filename").
		WithCause(ErrInvalidFilename).
		WithContext("filename", name)
}

func notFound(name string) error {
	return apierrors.NewNotFoundError("File " + name).
		WithCause(ErrNotFound).
		WithContext("filename", name)
}

func storageError(message, name string, cause error) error {
	return apierrors.NewStorageError(message, cause).WithContext("filename", name)
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces name to a flat ASCII file name. Path separators
// become spaces, runs of whitespace become "_", every other character outside
// [A-Za-z0-9_.-] is dropped, and leading or trailing dots and underscores are
// trimmed. The result may be empty.
func SecureFilename(name string) string {
	name = strings.NewReplacer("/", " ", `\`, " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// Manager provides file management operations over the upload directory
type Manager struct {
	dir     string
	allowed map[string]struct{}
	logger  *slog.Logger
}

// NewManager creates the upload directory if needed
func NewManager(cfg config.StorageConfig, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, apierrors.NewStorageError("failed to create upload directory", err).
			WithContext("dir", cfg.UploadDir)
	}

	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	return &Manager{
		dir:     cfg.UploadDir,
		allowed: allowed,
		logger:  infrastructure.WithComponent(logger, "files"),
	}, nil
}

// Dir returns the upload directory
func (m *Manager) Dir() string {
	return m.dir
}

// AllowedExtensions returns the accepted extensions without the dot
func (m *Manager) AllowedExtensions() []string {
	exts := make([]string, 0, len(m.allowed))
	for ext := range m.allowed {
		exts = append(exts, ext)
	}
	return exts
}

// Allowed reports whether name carries an accepted extension
func (m *Manager) Allowed(name string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}
	_, ok := m.allowed[strings.ToLower(ext[1:])]
	return ok
}

// Save writes r under the sanitised form of name and returns the stored
// name. An existing upload with the same name is replaced.
func (m *Manager) Save(name string, r io.Reader) (string, error) {
	if !m.Allowed(name) {
		return "", apierrors.NewAppValidationError(fmt.Sprintf("unsupported file type: %s", name)).
			WithCause(ErrUnsupportedType).
			WithContext("filename", name)
	}
	stored := SecureFilename(name)
	if stored == "" || !m.Allowed(stored) {
		return "", invalidFilename(name)
	}

	tmp, err := os.CreateTemp(m.dir, ".upload-*")
	if err != nil {
		return "", storageError("failed to create temp file", stored, err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return "", storageError("failed to write upload", stored, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", storageError("failed to sync upload", stored, err)
	}
	if err := tmp.Close(); err != nil {
		return "", storageError("failed to close upload", stored, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(m.dir, stored)); err != nil {
		return "", storageError("failed to store upload", stored, err)
	}

	m.logger.Info("upload saved",
		slog.String("filename", stored),
		slog.Int64("size_bytes", n))
	return stored, nil
}

// Path resolves a stored name to its path. The file need not exist.
func (m *Manager) Path(name string) (string, error) {
	if name == "" || SecureFilename(name) != name {
		return "", invalidFilename(name)
	}
	return filepath.Join(m.dir, name), nil
}

// Exists checks if an upload exists
func (m *Manager) Exists(name string) bool {
	path, err := m.Path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Open resolves name and fails with ErrNotFound when it is missing
func (m *Manager) Open(name string) (string, error) {
	path, err := m.Path(name)
	if err != nil {
		return "", err
	}
	if !m.Exists(name) {
		return "", notFound(name)
	}
	return path, nil
}

// Delete removes an upload
func (m *Manager) Delete(name string) error {
	path, err := m.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return notFound(name)
		}
		return storageError("failed to delete upload", name, err)
	}

	m.logger.Info("upload deleted", slog.String("filename", name))
	return nil
}

// List returns the stored workbooks, newest first
func (m *Manager) List() ([]FileInfo, error) {
	found, err := FindWorkbooks(m.dir)
	if err != nil {
		return nil, apierrors.NewStorageError("failed to list uploads", err)
	}
	out := make([]FileInfo, 0, len(found))
	for i := len(found) - 1; i >= 0; i-- {
		if m.Allowed(found[i].Name) {
			out = append(out, found[i])
		}
	}
	return out, nil
}
