package api

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"go.uber.org/zap"

	"github.com/diogo/jewelchat/internal/attach"
	apierrors "github.com/diogo/jewelchat/internal/errors"
)

// ImageDownloadOptions configures image saving
type ImageDownloadOptions struct {
	// Directory is the destination directory (default: ~/.jewelchat/images)
	Directory string
	// Filename is the output filename (auto-generated if empty)
	Filename string
}

// DefaultDownloadOptions returns the default download options
func DefaultDownloadOptions() ImageDownloadOptions {
	homeDir, _ := os.UserHomeDir()
	return ImageDownloadOptions{
		Directory: filepath.Join(homeDir, ".jewelchat", "images"),
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// SaveImage writes one image reference from a message to disk and returns its path.
// Data URIs are decoded locally; http(s) URLs are downloaded.
func (c *Client) SaveImage(ref string, opts ImageDownloadOptions) (string, error) {
	if opts.Directory == "" {
		opts.Directory = DefaultDownloadOptions().Directory
	}
	if err := os.MkdirAll(opts.Directory, 0o700); err != nil {
		return "", apierrors.NewDownloadError("failed to create directory: "+err.Error(), ref)
	}

	var (
		data        []byte
		contentType string
		err         error
	)

	switch {
	case attach.IsDataURI(ref):
		contentType, data, err = attach.DecodeDataURI(ref)
		if err != nil {
			return "", apierrors.NewDownloadError(err.Error(), ref)
		}
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		data, contentType, err = c.fetchImage(ref)
		if err != nil {
			return "", err
		}
	default:
		return "", apierrors.NewDownloadError("unsupported image reference", ref)
	}

	if !strings.HasPrefix(contentType, "image/") {
		return "", apierrors.NewDownloadError("not an image: "+contentType, ref)
	}

	filename := opts.Filename
	if filename == "" {
		filename = generateFilename(ref, contentType)
	}
	destPath := filepath.Join(opts.Directory, sanitizeFilename(filename))

	if err := os.WriteFile(destPath, data, 0o600); err != nil {
		return "", apierrors.NewDownloadError("failed to save file: "+err.Error(), ref)
	}

	c.logger.Debug("image saved", zap.String("path", destPath), zap.Int("bytes", len(data)))

	absPath, err := filepath.Abs(destPath)
	if err != nil {
		return destPath, nil
	}
	return absPath, nil
}

// SaveImages saves every reference, skipping failures.
// It returns the saved paths and the last error when nothing could be saved.
func (c *Client) SaveImages(refs []string, opts ImageDownloadOptions) ([]string, error) {
	var paths []string
	var lastError error

	for i, ref := range refs {
		imgOpts := opts
		if imgOpts.Filename != "" && len(refs) > 1 {
			ext := filepath.Ext(imgOpts.Filename)
			imgOpts.Filename = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(imgOpts.Filename, ext), i+1, ext)
		}

		path, err := c.SaveImage(ref, imgOpts)
		if err != nil {
			lastError = err
			continue
		}
		paths = append(paths, path)
	}

	if len(paths) == 0 && lastError != nil {
		return nil, lastError
	}
	return paths, nil
}

// fetchImage downloads an image over HTTP
func (c *Client) fetchImage(url string) ([]byte, string, error) {
	req, err := fhttp.NewRequest(fhttp.MethodGet, url, nil)
	if err != nil {
		return nil, "", apierrors.NewDownloadError("failed to create request: "+err.Error(), url)
	}
	req.Header.Set("Accept", "image/webp,image/apng,image/*,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", apierrors.NewDownloadError("request failed: "+err.Error(), url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		return nil, "", apierrors.NewDownloadErrorWithStatus(url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", apierrors.NewDownloadError("failed to read response: "+err.Error(), url)
	}

	contentType := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return body, strings.TrimSpace(contentType), nil
}

// generateFilename derives a file name from the reference and its content type
func generateFilename(ref, contentType string) string {
	ext := ".jpg"
	switch {
	case strings.Contains(contentType, "png"):
		ext = ".png"
	case strings.Contains(contentType, "gif"):
		ext = ".gif"
	case strings.Contains(contentType, "webp"):
		ext = ".webp"
	}

	if !attach.IsDataURI(ref) {
		urlParts := strings.Split(strings.Split(ref, "?")[0], "/")
		lastPart := urlParts[len(urlParts)-1]
		if filepath.Ext(lastPart) != "" && len(lastPart) <= 100 {
			return lastPart
		}
	}

	return fmt.Sprintf("image_%s%s", time.Now().Format("20060102_150405.000000"), ext)
}

// sanitizeFilename removes characters not allowed in filenames
func sanitizeFilename(name string) string {
	return strings.TrimSpace(unsafeFilenameChars.ReplaceAllString(name, "_"))
}
