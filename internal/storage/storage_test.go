package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFilename(t *testing.T) {
	got := normalizeFilename("my holiday photo!.jpg")
	assert.True(t, strings.HasPrefix(got, "my_holiday_photo_"), got)
	assert.True(t, strings.HasSuffix(got, ".jpg"), got)
	assert.NotContains(t, got, " ")
	assert.NotContains(t, got, "!")

	// nothing left after cleaning falls back to a generic base
	got = normalizeFilename("@@@.png")
	assert.True(t, strings.HasPrefix(got, "file_"), got)
	assert.True(t, strings.HasSuffix(got, ".png"), got)
}

func TestDisplayURL(t *testing.T) {
	got := DisplayURL("http://img.test/uploads/x.jpg")
	assert.Contains(t, got, "w=300")
	assert.Contains(t, got, "h=300")
	assert.Contains(t, got, "fit=crop")
	assert.True(t, strings.HasPrefix(got, "http://img.test/uploads/x.jpg?"), got)

	// unparseable input passes through untouched
	assert.Equal(t, "http://[::1", DisplayURL("http://[::1"))
}

func TestGetContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", getContentType("a.JPG"))
	assert.Equal(t, "image/png", getContentType("a.png"))
	assert.Equal(t, "application/octet-stream", getContentType("a.exe"))
}

// builds a *multipart.FileHeader the way gin would hand it to us.
func uploadedFile(t *testing.T, name, contents string) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	_, fh, err := req.FormFile("image")
	require.NoError(t, err)
	return fh
}

func TestLocalStorageSaveFile(t *testing.T) {
	dir := t.TempDir()
	ls := NewLocalStorage(dir)

	fh := uploadedFile(t, "beach day.jpg", "jpeg bytes")
	url, err := ls.SaveFile(fh, fh.Filename)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/"), url)
	assert.Contains(t, url, "beach_day_")

	matches, err := filepath.Glob(filepath.Join(dir, "beach_day_*.jpg"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))
}
