package batch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxFiles is the largest batch a guest may select at once.
const MaxFiles = 50

const fallbackContentType = "application/octet-stream"

// File is one selected photo or video.
type File struct {
	Name        string
	ContentType string
	Size        int64

	open func() (io.ReadCloser, error)
}

// Open returns a fresh reader over the file's bytes.
func (f File) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("file %q has no content", f.Name)
	}
	return f.open()
}

// NewFile wraps in-memory content.
func NewFile(name, contentType string, content []byte) File {
	return File{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(content)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}

// FromPath describes a file on disk. The content type comes from the
// extension, falling back to sniffing the content.
func FromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("stat %q: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%q is a directory", path)
	}

	contentType, err := detectContentType(path)
	if err != nil {
		return File{}, err
	}

	return File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

func detectContentType(path string) (string, error) {
	if ct := baseType(mime.TypeByExtension(filepath.Ext(path))); ct != "" {
		return ct, nil
	}

	m, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("detect content type of %q: %w", path, err)
	}
	if ct := baseType(m.String()); ct != "" {
		return ct, nil
	}
	return fallbackContentType, nil
}

func baseType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mediaType
}

func isMedia(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || strings.HasPrefix(contentType, "video/")
}

// Selection errors.
var (
	ErrNoFiles       = errors.New("Please select your photos or videos to share")
	ErrTooManyFiles  = fmt.Errorf("Maximum %d files can be uploaded at once", MaxFiles)
	ErrNoEventCode   = errors.New("No event code provided. Pass --code or set EVENT_CODE")
	ErrInvalidFormat = errors.New("Only images and videos are allowed")
)

// ValidateSelection rejects empty or oversized selections and any file that
// is not an image or video.
func ValidateSelection(files []File) error {
	if len(files) == 0 {
		return ErrNoFiles
	}

	var invalid []string
	for _, f := range files {
		if !isMedia(f.ContentType) {
			invalid = append(invalid, f.Name)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("Invalid file type(s): %s. %w.", strings.Join(invalid, ", "), ErrInvalidFormat)
	}

	if len(files) > MaxFiles {
		return ErrTooManyFiles
	}
	return nil
}
