// Package loader reads script definitions from their source.
package loader

import (
	"io"
	"net/url"
)

// Loader supplies the raw bytes of a script definition.
type Loader interface {
	GetReader() (io.ReadCloser, error)
	GetSourceURL() *url.URL
}

// ReadAll drains a loader and closes its reader.
func ReadAll(l Loader) ([]byte, error) {
	if l == nil {
		return nil, ErrInputEmpty
	}
	reader, err := l.GetReader()
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()
	return io.ReadAll(reader)
}
