// Package attach turns user-selected image files into self-contained data URIs.
package attach

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	apierrors "github.com/diogo/jewelchat/internal/errors"
	"github.com/diogo/jewelchat/internal/models"
)

const (
	MaxImageSize = 20 * 1024 * 1024 // 20MB
)

// SupportedImageTypes returns the list of MIME types accepted as attachments
func SupportedImageTypes() []string {
	return []string{
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
	}
}

// SupportedExtensions returns the file extensions offered by the file picker
func SupportedExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
}

// Result is delivered once by EncodeAsync
type Result struct {
	Path       string
	Attachment *models.Attachment
	Err        error
}

// Encoder reads image files and encodes them as data URIs.
// The full file content is encoded; nothing is resized or recompressed.
type Encoder struct {
	maxSize int64
	open    func(name string) (io.ReadCloser, error)
}

// EncoderOption configures an Encoder
type EncoderOption func(*Encoder)

// WithMaxSize overrides MaxImageSize
func WithMaxSize(n int64) EncoderOption {
	return func(e *Encoder) {
		e.maxSize = n
	}
}

// NewEncoder creates a new Encoder
func NewEncoder(opts ...EncoderOption) *Encoder {
	e := &Encoder{
		maxSize: MaxImageSize,
		open: func(name string) (io.ReadCloser, error) {
			return os.Open(name)
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode reads the image at path and returns it as an attachment
func (e *Encoder) Encode(path string) (*models.Attachment, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, apierrors.NewEncodingError(path, "failed to stat file", err)
	}
	if fileInfo.IsDir() {
		return nil, apierrors.NewEncodingError(path, "is a directory", nil)
	}
	if fileInfo.Size() > e.maxSize {
		return nil, apierrors.NewEncodingError(path, fmt.Sprintf("file size exceeds maximum %d bytes", e.maxSize), nil)
	}

	file, err := e.open(path)
	if err != nil {
		return nil, apierrors.NewEncodingError(path, "failed to open file", err)
	}
	defer func() {
		_ = file.Close()
	}()

	att, err := e.EncodeReader(file, filepath.Base(path))
	if err != nil {
		if encErr, ok := err.(*apierrors.EncodingError); ok {
			encErr.Path = path
		}
		return nil, err
	}
	return att, nil
}

// EncodeReader encodes image data read from r. name is used for MIME detection and display.
func (e *Encoder) EncodeReader(r io.Reader, name string) (*models.Attachment, error) {
	// Read one byte past the limit so oversized streams are detected without reading them whole
	data, err := io.ReadAll(io.LimitReader(r, e.maxSize+1))
	if err != nil {
		return nil, apierrors.NewEncodingError("", "failed to read data", err)
	}
	if int64(len(data)) > e.maxSize {
		return nil, apierrors.NewEncodingError("", fmt.Sprintf("data size exceeds maximum %d bytes", e.maxSize), nil)
	}
	if len(data) == 0 {
		return nil, apierrors.NewEncodingError("", "file is empty", nil)
	}

	mimeType := DetectMIMEType(name, data)
	if !IsSupportedType(mimeType) {
		return nil, apierrors.NewEncodingError("", "unsupported image type: "+mimeType, nil)
	}

	return &models.Attachment{
		Name:     name,
		MIMEType: mimeType,
		Size:     int64(len(data)),
		DataURI:  EncodeDataURI(mimeType, data),
	}, nil
}

// EncodeAsync encodes path on its own goroutine. Exactly one Result is sent on the
// returned channel, which is then closed. Cancelling ctx abandons the read result.
func (e *Encoder) EncodeAsync(ctx context.Context, path string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		att, err := e.Encode(path)
		if ctxErr := ctx.Err(); ctxErr != nil && err == nil {
			att, err = nil, apierrors.NewEncodingError(path, "selection abandoned", ctxErr)
		}
		out <- Result{Path: path, Attachment: att, Err: err}
	}()
	return out
}

// DetectMIMEType uses the file extension first and falls back to content sniffing
func DetectMIMEType(name string, data []byte) string {
	if ext := filepath.Ext(name); ext != "" {
		if mimeType := mime.TypeByExtension(strings.ToLower(ext)); mimeType != "" {
			// Drop parameters such as "; charset=utf-8"
			if i := strings.IndexByte(mimeType, ';'); i >= 0 {
				mimeType = strings.TrimSpace(mimeType[:i])
			}
			return mimeType
		}
	}
	return http.DetectContentType(data)
}

// IsSupportedType reports whether mimeType may be attached
func IsSupportedType(mimeType string) bool {
	for _, supported := range SupportedImageTypes() {
		if strings.HasPrefix(mimeType, supported) {
			return true
		}
	}
	return false
}

// EncodeDataURI builds data:<mime>;base64,<payload>
func EncodeDataURI(mimeType string, data []byte) string {
	var b bytes.Buffer
	b.Grow(len("data:;base64,") + len(mimeType) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mimeType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}
