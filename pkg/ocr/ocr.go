package ocr

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Media kind hints accepted by ExtractText.
const (
	KindImage = "image"
	KindPDF   = "pdf"
)

// Config holds the knobs for the OCR service. Zero values fall back to
// defaults.
type Config struct {
	TesseractPath string        // default: "tesseract" on PATH
	PdftoppmPath  string        // default: "pdftoppm" on PATH
	Languages     string        // tesseract -l value, default "eng"
	CacheSize     int           // max cached extractions, default 128
	CacheTTL      time.Duration // cache entry lifetime, default 1h
}

// Service extracts text from image and PDF blobs by shelling out to
// tesseract. Successful extractions are cached by content hash so a
// retried item does not re-OCR unchanged attachments.
type Service struct {
	cfg   Config
	cache *expirable.LRU[string, string]
}

// New creates the OCR service.
func New(cfg Config) *Service {
	if cfg.TesseractPath == "" {
		cfg.TesseractPath = "tesseract"
	}
	if cfg.PdftoppmPath == "" {
		cfg.PdftoppmPath = "pdftoppm"
	}
	if cfg.Languages == "" {
		cfg.Languages = "eng"
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 128
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}

	return &Service{
		cfg:   cfg,
		cache: expirable.NewLRU[string, string](cfg.CacheSize, nil, cfg.CacheTTL),
	}
}

// ExtractText OCRs the blob. kind must be KindImage or KindPDF.
func (s *Service) ExtractText(ctx context.Context, data []byte, kind string) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	key := cacheKey(data, kind)
	if text, ok := s.cache.Get(key); ok {
		return text, nil
	}

	var text string
	var err error
	switch kind {
	case KindImage:
		text, err = s.extractImage(ctx, data)
	case KindPDF:
		text, err = s.extractPDF(ctx, data)
	default:
		return "", fmt.Errorf("unsupported media kind %q", kind)
	}
	if err != nil {
		return "", err
	}

	s.cache.Add(key, text)
	return text, nil
}

// extractImage pipes the image through tesseract stdin/stdout.
func (s *Service) extractImage(ctx context.Context, data []byte) (string, error) {
	var out, errOut bytes.Buffer

	cmd := exec.CommandContext(ctx, s.cfg.TesseractPath, "stdin", "stdout", "-l", s.cfg.Languages)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract failed: %w: %s", err, strings.TrimSpace(errOut.String()))
	}
	return out.String(), nil
}

// extractPDF rasterizes each page with pdftoppm and OCRs the pages in
// order.
func (s *Service) extractPDF(ctx context.Context, data []byte) (string, error) {
	dir, err := os.MkdirTemp("", "ocr-pdf-")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	pdfPath := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(pdfPath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write temp pdf: %w", err)
	}

	var errOut bytes.Buffer
	cmd := exec.CommandContext(ctx, s.cfg.PdftoppmPath, "-r", "300", "-png", pdfPath, filepath.Join(dir, "page"))
	cmd.Stderr = &errOut
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftoppm failed: %w: %s", err, strings.TrimSpace(errOut.String()))
	}

	pages, err := filepath.Glob(filepath.Join(dir, "page*.png"))
	if err != nil {
		return "", err
	}
	sort.Strings(pages)
	if len(pages) == 0 {
		return "", fmt.Errorf("pdftoppm produced no pages")
	}

	var text strings.Builder
	for _, page := range pages {
		pageData, err := os.ReadFile(page)
		if err != nil {
			return "", fmt.Errorf("failed to read page %s: %w", page, err)
		}
		pageText, err := s.extractImage(ctx, pageData)
		if err != nil {
			return "", err
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}
	return text.String(), nil
}

// KindForFilename maps an attachment filename to a media kind hint.
// Returns "" for unsupported types.
func KindForFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp", ".gif":
		return KindImage
	default:
		return ""
	}
}

func cacheKey(data []byte, kind string) string {
	sum := sha256.Sum256(data)
	return kind + ":" + hex.EncodeToString(sum[:])
}
