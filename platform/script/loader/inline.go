package loader

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"path"

	"github.com/robbyt/go-logiclet/internal/helpers"
)

// Inline serves a definition held in memory, such as one embedded in a
// program. Its source URL is inline:///<name>. An unnamed definition is named
// after its short id, so equal content always gets the same URL.
type Inline struct {
	name      string
	content   []byte
	sourceURL *url.URL
}

// NewInline copies content without surrounding whitespace. name may carry an
// extension ("greet.yaml") for callers that infer the format from it.
func NewInline(name string, content []byte) (*Inline, error) {
	content = bytes.TrimSpace(content)
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: inline definition %q", ErrInputEmpty, name)
	}
	if name == "" {
		name = helpers.ShortID(content)
	}
	name = path.Base(name)

	return &Inline{
		name:      name,
		content:   bytes.Clone(content),
		sourceURL: &url.URL{Scheme: "inline", Path: "/" + name},
	}, nil
}

// NewFromString is NewInline for an unnamed string.
func NewFromString(content string) (*Inline, error) {
	return NewInline("", []byte(content))
}

func (l *Inline) String() string {
	return fmt.Sprintf("loader.Inline{Name: %s, Bytes: %d}", l.name, len(l.content))
}

// Name returns the definition name.
func (l *Inline) Name() string {
	return l.name
}

func (l *Inline) GetReader() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(l.content)), nil
}

func (l *Inline) GetSourceURL() *url.URL {
	return l.sourceURL
}
