package dist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"elan/internal/notify"
)

// DownloadCfg carries the directories and notification sink a distribution
// install uses.
type DownloadCfg struct {
	DownloadDir string
	TmpDir      string
	Notify      notify.Handler
}

// HTTPDownloader fetches http(s) and file URLs.
type HTTPDownloader struct {
	Client    *http.Client
	UserAgent string
}

// NewHTTPDownloader returns a downloader using client.
func NewHTTPDownloader(client *http.Client, userAgent string) *HTTPDownloader {
	return &HTTPDownloader{Client: client, UserAgent: userAgent}
}

// Download writes the content at rawURL to dest. When checksum is non-empty
// the sha256 of the content must match it. dest is only created once the
// content is complete and verified.
func (d *HTTPDownloader) Download(ctx context.Context, rawURL, dest, checksum string, h notify.Handler) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("prepare download destination: %w", err)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse download url: %w", err)
	}

	h.Emit(notify.Notification{Kind: notify.DownloadingFile, URL: rawURL})

	body, length, err := d.open(ctx, parsed)
	if err != nil {
		return err
	}
	defer body.Close()
	if length > 0 {
		h.Emit(notify.Notification{Kind: notify.DownloadContentLength, Bytes: length})
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dest), "download-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	hash := sha256.New()
	w := io.MultiWriter(tmpFile, hash, progressWriter{h: h})
	if _, err := io.Copy(w, body); err != nil {
		tmpFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if checksum != "" {
		sum := hex.EncodeToString(hash.Sum(nil))
		if !strings.EqualFold(sum, strings.TrimPrefix(checksum, "sha256:")) {
			return fmt.Errorf("checksum mismatch for %s: expected %s, got %s", rawURL, checksum, sum)
		}
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("finalize download: %w", err)
	}
	h.Emit(notify.Notification{Kind: notify.DownloadFinished, URL: rawURL})
	return nil
}

func (d *HTTPDownloader) open(ctx context.Context, u *url.URL) (io.ReadCloser, int64, error) {
	switch u.Scheme {
	case "file":
		f, err := os.Open(filepath.FromSlash(u.Path))
		if err != nil {
			return nil, 0, fmt.Errorf("open %s: %w", u, err)
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, 0, fmt.Errorf("stat %s: %w", u, err)
		}
		return f, info.Size(), nil
	case "http", "https":
	default:
		return nil, 0, fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	if d.UserAgent != "" {
		req.Header.Set("User-Agent", d.UserAgent)
	}

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("download %s: %w", u, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("download %s: unexpected status %s", u, resp.Status)
	}
	return resp.Body, resp.ContentLength, nil
}

type progressWriter struct {
	h notify.Handler
}

func (p progressWriter) Write(b []byte) (int, error) {
	p.h.Emit(notify.Notification{Kind: notify.DownloadDataReceived, Bytes: int64(len(b))})
	return len(b), nil
}

// ComputeChecksum returns the hex sha256 of the file at path.
func ComputeChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for checksum: %w", err)
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
