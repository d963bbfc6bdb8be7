package dist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elan/internal/notify"
)

func sha(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

func TestDownloadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "elan-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	var kinds []notify.Kind
	h := func(n notify.Notification) { kinds = append(kinds, n.Kind) }

	dest := filepath.Join(t.TempDir(), "dl", "a.tar.gz")
	d := NewHTTPDownloader(srv.Client(), "elan-test")
	require.NoError(t, d.Download(context.Background(), srv.URL+"/a.tar.gz", dest, sha("payload"), h))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	assert.Equal(t, notify.DownloadingFile, kinds[0])
	assert.Contains(t, kinds, notify.DownloadDataReceived)
	assert.Equal(t, notify.DownloadFinished, kinds[len(kinds)-1])
}

func TestDownloadChecksumMismatchLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "a.tar.gz")
	err := NewHTTPDownloader(nil, "").Download(context.Background(), srv.URL, dest, sha("other"), nil)
	require.ErrorContains(t, err, "checksum mismatch")
	assert.NoFileExists(t, dest)
}

func TestDownloadStatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	err := NewHTTPDownloader(nil, "").Download(context.Background(), srv.URL, filepath.Join(t.TempDir(), "x"), "", nil)
	require.ErrorContains(t, err, "unexpected status")
}

func TestDownloadFileURL(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src.tar.gz")
	require.NoError(t, os.WriteFile(src, []byte("local"), 0o644))

	dest := filepath.Join(t.TempDir(), "dst.tar.gz")
	url := "file://" + filepath.ToSlash(src)
	require.NoError(t, NewHTTPDownloader(nil, "").Download(context.Background(), url, dest, "", nil))

	sum, err := ComputeChecksum(dest)
	require.NoError(t, err)
	assert.Equal(t, sha("local"), sum)
}

func TestDownloadUnsupportedScheme(t *testing.T) {
	err := NewHTTPDownloader(nil, "").Download(context.Background(), "ftp://x/y", filepath.Join(t.TempDir(), "y"), "", nil)
	require.ErrorContains(t, err, "unsupported url scheme")
}
