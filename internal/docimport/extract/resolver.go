package extract

import (
	"context"
	"os"
	"strings"
	"unicode"

	"github.com/taskhub/taskhub-backend/pkg/config"
	"github.com/taskhub/taskhub-backend/pkg/logger"
)

// mostlyEmptyThreshold is the minimum number of non-whitespace runes
// pdftotext output must contain before we trust it. Below that the
// PDF is treated as scanned and sent through OCR instead. The value
// is fixed for compatibility with existing imports.
const mostlyEmptyThreshold = 10

// Resolver turns an uploaded document into plain text. It is a total
// function over its inputs: every failure mode degrades to "" so an
// unreadable document still produces an import record.
type Resolver struct {
	runner Runner
	config *config.ExtractionConfig
	logger *logger.Logger
}

// NewResolver creates a new text source resolver
func NewResolver(runner Runner, cfg *config.ExtractionConfig, log *logger.Logger) *Resolver {
	return &Resolver{
		runner: runner,
		config: cfg,
		logger: log,
	}
}

// Resolve extracts text from the file at path. PDFs go through
// pdftotext first, falling back to OCR when the text layer is mostly
// empty; every other extension goes straight to OCR. Resolve never
// returns an error.
func (r *Resolver) Resolve(ctx context.Context, path, extension string) string {
	if _, err := os.Stat(path); err != nil {
		r.logger.Error().Err(err).Str("path", path).Msg("import file not accessible")
		return ""
	}

	if strings.EqualFold(extension, "pdf") {
		text := r.pdfText(ctx, path)
		if !mostlyEmpty(text) {
			return text
		}
		r.logger.Info().Str("path", path).Msg("pdf text layer mostly empty, falling back to ocr")
	}

	return r.ocrText(ctx, path)
}

func (r *Resolver) pdfText(ctx context.Context, path string) string {
	ctx, cancel := context.WithTimeout(ctx, r.config.PdftotextTimeout)
	defer cancel()

	stdout, _, err := r.runner.Run(ctx, r.config.PdftotextPath,
		"-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return ""
	}

	return string(stdout)
}

func (r *Resolver) ocrText(ctx context.Context, path string) string {
	ctx, cancel := context.WithTimeout(ctx, r.config.TesseractTimeout)
	defer cancel()

	stdout, _, err := r.runner.Run(ctx, r.config.TesseractPath,
		path, "stdout", "-l", r.config.TesseractLang)
	if err != nil {
		return ""
	}

	return string(stdout)
}

// mostlyEmpty strips all whitespace and reports whether fewer than
// mostlyEmptyThreshold runes remain.
func mostlyEmpty(text string) bool {
	count := 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		count++
		if count >= mostlyEmptyThreshold {
			return false
		}
	}
	return true
}
