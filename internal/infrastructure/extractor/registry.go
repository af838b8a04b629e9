// Package extractor routes each stored document to the extractor that
// understands its format.
package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/corpagent/adgm-compliance/internal/core/domain"
	"github.com/corpagent/adgm-compliance/internal/core/ports"
)

// Registry picks an extractor by file extension, falling back to the MIME
// type when the extension is unknown.
type Registry struct {
	byExtension map[string]ports.TextExtractor
	byMimeType  map[string]ports.TextExtractor
}

func NewRegistry() *Registry {
	return &Registry{
		byExtension: make(map[string]ports.TextExtractor),
		byMimeType:  make(map[string]ports.TextExtractor),
	}
}

func (r *Registry) RegisterExtension(ext string, e ports.TextExtractor) *Registry {
	r.byExtension[strings.ToLower(ext)] = e
	return r
}

func (r *Registry) RegisterMimeType(mimeType string, e ports.TextExtractor) *Registry {
	r.byMimeType[strings.ToLower(mimeType)] = e
	return r
}

func (r *Registry) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	if e, ok := r.byExtension[strings.ToLower(filepath.Ext(doc.Filename))]; ok {
		return e.Extract(ctx, doc)
	}

	mimeType := strings.ToLower(doc.MimeType)
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if e, ok := r.byMimeType[mimeType]; ok {
		return e.Extract(ctx, doc)
	}

	return "", domain.WrapError(domain.ErrInvalidInput, "extract text",
		fmt.Errorf("unsupported document format: %s (%s)", doc.Filename, doc.MimeType))
}
