package loader

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

type FromDisk struct {
	path      string
	sourceURL *url.URL
}

func NewFromDisk(path string) (*FromDisk, error) {
	path = strings.TrimPrefix(path, "file://")

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return nil, fmt.Errorf("%w: %s", ErrSchemeUnsupported, path)
	}

	// Reject relative paths
	if !filepath.IsAbs(path) {
		return nil, fmt.Errorf("%w: relative paths are not supported", ErrScriptNotAvailable)
	}

	path = filepath.Clean(path)
	if path == "/" {
		return nil, fmt.Errorf("%w: path is empty or invalid", ErrScriptNotAvailable)
	}

	u, err := url.Parse("file://" + path)
	if err != nil {
		return nil, fmt.Errorf("unable to parse URL: %w", err)
	}

	return &FromDisk{
		path:      path,
		sourceURL: u,
	}, nil
}

func (l *FromDisk) String() string {
	return fmt.Sprintf("loader.FromDisk{Path: %s}", l.path)
}

// Path returns the cleaned filesystem path.
func (l *FromDisk) Path() string {
	return l.path
}

func (l *FromDisk) GetReader() (io.ReadCloser, error) {
	return os.Open(l.path)
}

// GetSourceURL returns the source URL of the script.
func (l *FromDisk) GetSourceURL() *url.URL {
	return l.sourceURL
}
