// internal/domain/upload/service_test.go
package upload

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/pharmacy-backend/internal/config"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func testService() *Service {
	cfg := &config.Config{}
	cfg.Upload.MaxSize = 10 * 1024 * 1024
	cfg.Upload.AllowedMimeTypes = []string{"image/jpeg", "image/png", "image/webp"}
	return NewService(nil, cfg)
}

func makeFileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

func TestValidateImage_AcceptsPNG(t *testing.T) {
	svc := testService()
	header := makeFileHeader(t, "passport.png", pngHeader)

	assert.NoError(t, svc.ValidateImage(header))
}

func TestValidateImage_AcceptsJPEG(t *testing.T) {
	svc := testService()
	jpeg := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0}, 16)...)
	header := makeFileHeader(t, "passport.jpg", jpeg)

	assert.NoError(t, svc.ValidateImage(header))
}

func TestValidateImage_RejectsNonImage(t *testing.T) {
	svc := testService()
	header := makeFileHeader(t, "notes.pdf", []byte("%PDF-1.4 not an image"))

	assert.ErrorIs(t, svc.ValidateImage(header), ErrInvalidFileType)
}

func TestValidateImage_SniffsContentNotHeader(t *testing.T) {
	svc := testService()
	// Declared as an image but carrying text bytes
	header := makeFileHeader(t, "fake.png", []byte("just some plain text"))
	header.Header.Set("Content-Type", "image/png")

	assert.ErrorIs(t, svc.ValidateImage(header), ErrInvalidFileType)
}

func TestValidateImage_RejectsOversize(t *testing.T) {
	svc := testService()
	svc.config.Upload.MaxSize = 8

	header := makeFileHeader(t, "big.png", pngHeader)
	assert.ErrorIs(t, svc.ValidateImage(header), ErrFileTooLarge)
}
