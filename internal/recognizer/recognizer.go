// Package recognizer turns a source document file into plain text. PDFs go
// through pdftotext first and fall back to rasterize-then-OCR when the
// text layer is empty; images go straight to tesseract; .txt files are
// read as-is. Multi-page output is joined with a "\n\f\n" page break so
// downstream analysis sees one string per document.
package recognizer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/docsorter/docsorter/constants"
)

// PageBreak separates pages in recognized multi-page text.
const PageBreak = "\n\f\n"

// pdftotext output below this many characters is treated as a scanned PDF
// with no usable text layer.
const minTextLayerChars = 16

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit
}

type RecognitionResult struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "pdf-ocr" | "image-ocr" | "plain-text"
	Duration time.Duration
	Warnings []string
}

// TextRecognizer is the seam the pipeline depends on; the exec-backed
// adapter below is the default implementation.
type TextRecognizer interface {
	Recognize(ctx context.Context, path string) (RecognitionResult, error)
}

type Recognizer struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Recognizer{cfg: cfg, runner: execRunner{}, logger: logger}
}

// NewWithRunner is the test constructor.
func NewWithRunner(cfg Config, r Runner, logger *slog.Logger) *Recognizer {
	rec := New(cfg, logger)
	rec.runner = r
	return rec
}

// Recognize picks a strategy based on file extension.
func (r *Recognizer) Recognize(ctx context.Context, path string) (RecognitionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	r.logger.Debug("recognizer.start", "path", path, "ext", ext)

	var res RecognitionResult
	var err error
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err = r.recognizePDF(ctx, path)
	case constants.IMAGE:
		res, err = r.recognizeImage(ctx, path)
	case constants.TEXT:
		res, err = r.readPlainText(path)
	default:
		r.logger.Error("recognizer.unsupported_extension", "extension", ext)
		return RecognitionResult{}, fmt.Errorf("unsupported extension: %q", ext)
	}
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}

	r.logger.Info("recognizer.ok",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (r *Recognizer) recognizePDF(ctx context.Context, path string) (RecognitionResult, error) {
	text, pages, warns, err := r.pdfToText(ctx, path)
	if err == nil && len(strings.TrimSpace(text)) >= minTextLayerChars {
		return RecognitionResult{Text: text, Pages: pages, Method: "pdf-text", Warnings: warns}, nil
	}
	if err != nil {
		warns = append(warns, err.Error())
	} else {
		warns = append(warns, "pdf text layer empty, falling back to ocr")
	}
	r.logger.Warn("recognizer.pdf_text_fallback", "path", path, "warnings", len(warns))

	text, pages, w2, err := r.pdfToOCR(ctx, path)
	warns = append(warns, w2...)
	if err != nil {
		return RecognitionResult{Method: "pdf-ocr", Warnings: warns}, err
	}
	return RecognitionResult{Text: text, Pages: pages, Method: "pdf-ocr", Warnings: warns}, nil
}

func (r *Recognizer) pdfToText(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := r.runner.Run(ctx, r.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", 0, []string{string(errb)}, err
	}
	text = string(out)
	// pdftotext emits a form feed between pages
	pages = 1 + strings.Count(text, "\f")
	return text, pages, nil, nil
}

func (r *Recognizer) pdfToOCR(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	tmpDir, err := os.MkdirTemp("", "ds-pp-*")
	if err != nil {
		return "", 0, nil, err
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			r.logger.Warn("recognizer.tmpdir_remove_failed", "dir", tmpDir, "error", rerr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", r.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", 0, []string{string(errb)}, err
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if r.cfg.MaxPages > 0 && len(matches) > r.cfg.MaxPages {
		matches = matches[:r.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", 0, []string{"pdftoppm produced no images"}, fmt.Errorf("no pages rendered")
	}

	var b strings.Builder
	var warns []string
	for _, img := range matches {
		txt, w, terr := r.tesseractOCR(ctx, img)
		if terr != nil {
			warns = append(warns, terr.Error())
			continue
		}
		if b.Len() > 0 {
			b.WriteString(PageBreak)
		}
		b.WriteString(txt)
		warns = append(warns, w...)
	}
	return b.String(), len(matches), warns, nil
}

func (r *Recognizer) recognizeImage(ctx context.Context, path string) (RecognitionResult, error) {
	txt, warns, err := r.tesseractOCR(ctx, path)
	if err != nil {
		return RecognitionResult{Method: "image-ocr", Warnings: warns}, err
	}
	return RecognitionResult{Text: txt, Pages: 1, Method: "image-ocr", Warnings: warns}, nil
}

func (r *Recognizer) tesseractOCR(ctx context.Context, path string) (string, []string, error) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := r.runner.Run(ctx, r.cfg.Tesseract, path, "stdout", "-l", r.cfg.TesseractLang)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil, nil
}

func (r *Recognizer) readPlainText(path string) (RecognitionResult, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return RecognitionResult{Method: "plain-text"}, err
	}
	text := string(b)
	return RecognitionResult{
		Text:   text,
		Pages:  1 + strings.Count(text, "\f"),
		Method: "plain-text",
	}, nil
}
