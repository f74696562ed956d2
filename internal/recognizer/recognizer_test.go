package recognizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRunner records invocations and answers per binary name.
type stubRunner struct {
	calls   []string
	replies map[string]func(args []string) ([]byte, error)
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, name)
	if fn, ok := s.replies[name]; ok {
		out, err := fn(args)
		return out, nil, err
	}
	return nil, nil, errors.New("unexpected command: " + name)
}

func TestRecognizePDFTextLayer(t *testing.T) {
	stub := &stubRunner{replies: map[string]func([]string) ([]byte, error){
		"pdftotext": func(args []string) ([]byte, error) {
			assert.Contains(t, args, "-layout")
			return []byte("INVOICE\nGRAINGER\nPO 00044162\n\fpage two text here"), nil
		},
	}}
	rec := NewWithRunner(Config{}, stub, nil)

	res, err := rec.Recognize(context.Background(), "/in/doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf-text", res.Method)
	assert.Equal(t, 2, res.Pages)
	assert.Contains(t, res.Text, "PO 00044162")
	assert.Equal(t, []string{"pdftotext"}, stub.calls)
}

func TestRecognizePDFFallsBackToOCR(t *testing.T) {
	// empty text layer forces the rasterize path; pdftoppm renders no
	// images here so the fallback surfaces its own error.
	stub := &stubRunner{replies: map[string]func([]string) ([]byte, error){
		"pdftotext": func([]string) ([]byte, error) { return []byte("  \n"), nil },
		"pdftoppm":  func([]string) ([]byte, error) { return nil, nil },
	}}
	rec := NewWithRunner(Config{}, stub, nil)

	res, err := rec.Recognize(context.Background(), "/in/scan.pdf")
	require.Error(t, err)
	assert.Equal(t, "pdf-ocr", res.Method)
	assert.Equal(t, []string{"pdftotext", "pdftoppm"}, stub.calls)
	assert.NotEmpty(t, res.Warnings)
}

func TestRecognizeImage(t *testing.T) {
	stub := &stubRunner{replies: map[string]func([]string) ([]byte, error){
		"tesseract": func(args []string) ([]byte, error) {
			assert.Equal(t, "stdout", args[1])
			return []byte("HOME DEPOT\nTOTAL 12.99"), nil
		},
	}}
	rec := NewWithRunner(Config{}, stub, nil)

	res, err := rec.Recognize(context.Background(), "/in/receipt.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image-ocr", res.Method)
	assert.Equal(t, 1, res.Pages)
	assert.Contains(t, res.Text, "HOME DEPOT")
}

func TestRecognizePlainTextBypass(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("PACKING SLIP\nULINE\n"), 0o644))

	stub := &stubRunner{replies: map[string]func([]string) ([]byte, error){}}
	rec := NewWithRunner(Config{}, stub, nil)

	res, err := rec.Recognize(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "plain-text", res.Method)
	assert.Empty(t, stub.calls, "plain text must not shell out")
	assert.True(t, strings.HasPrefix(res.Text, "PACKING SLIP"))
}

func TestRecognizeUnsupportedExtension(t *testing.T) {
	rec := NewWithRunner(Config{}, &stubRunner{}, nil)
	_, err := rec.Recognize(context.Background(), "/in/archive.zip")
	assert.Error(t, err)
}
