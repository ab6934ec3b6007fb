package extract_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub-backend/internal/docimport/extract"
	"github.com/taskhub/taskhub-backend/pkg/config"
	"github.com/taskhub/taskhub-backend/pkg/logger"
)

// stubRunner records invocations and returns canned output per command.
type stubRunner struct {
	calls   []string
	outputs map[string]string
	errs    map[string]error
}

func (r *stubRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.calls = append(r.calls, name)
	if err := r.errs[name]; err != nil {
		return nil, []byte("boom"), err
	}
	return []byte(r.outputs[name]), nil, nil
}

func testConfig() *config.ExtractionConfig {
	return &config.ExtractionConfig{
		PdftotextPath:    "pdftotext",
		TesseractPath:    "tesseract",
		TesseractLang:    "eng",
		PdftotextTimeout: 30 * time.Second,
		TesseractTimeout: 120 * time.Second,
	}
}

func testLogger() *logger.Logger {
	return logger.New("test", "test")
}

func tempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolve_PDFWithTextLayer(t *testing.T) {
	runner := &stubRunner{outputs: map[string]string{
		"pdftotext": "Name: John Doe Email: john@example.com",
	}}
	resolver := extract.NewResolver(runner, testConfig(), testLogger())

	text := resolver.Resolve(context.Background(), tempFile(t, "%PDF"), "pdf")

	assert.Equal(t, "Name: John Doe Email: john@example.com", text)
	assert.Equal(t, []string{"pdftotext"}, runner.calls)
}

func TestResolve_MostlyEmptyPDFFallsBackToOCR(t *testing.T) {
	runner := &stubRunner{outputs: map[string]string{
		"pdftotext": "  a b c  \n",
		"tesseract": "Name: Scanned Person",
	}}
	resolver := extract.NewResolver(runner, testConfig(), testLogger())

	text := resolver.Resolve(context.Background(), tempFile(t, "%PDF"), "pdf")

	assert.Equal(t, "Name: Scanned Person", text)
	assert.Equal(t, []string{"pdftotext", "tesseract"}, runner.calls)
}

func TestResolve_MostlyEmptyThreshold(t *testing.T) {
	t.Run("nine non-whitespace chars falls back", func(t *testing.T) {
		runner := &stubRunner{outputs: map[string]string{
			"pdftotext": " 1 2 3 4 5 6 7 8 9 ",
			"tesseract": "ocr output here",
		}}
		resolver := extract.NewResolver(runner, testConfig(), testLogger())

		text := resolver.Resolve(context.Background(), tempFile(t, "%PDF"), "pdf")

		assert.Equal(t, "ocr output here", text)
		assert.Equal(t, []string{"pdftotext", "tesseract"}, runner.calls)
	})

	t.Run("ten non-whitespace chars is trusted", func(t *testing.T) {
		output := " 1 2 3 4 5 6 7 8 9 0 "
		require.Equal(t, 10, len(strings.Join(strings.Fields(output), "")))

		runner := &stubRunner{outputs: map[string]string{
			"pdftotext": output,
		}}
		resolver := extract.NewResolver(runner, testConfig(), testLogger())

		text := resolver.Resolve(context.Background(), tempFile(t, "%PDF"), "pdf")

		assert.Equal(t, output, text)
		assert.Equal(t, []string{"pdftotext"}, runner.calls)
	})
}

func TestResolve_ImageGoesStraightToOCR(t *testing.T) {
	runner := &stubRunner{outputs: map[string]string{
		"tesseract": "Name: From Image",
	}}
	resolver := extract.NewResolver(runner, testConfig(), testLogger())

	text := resolver.Resolve(context.Background(), tempFile(t, "fake-image"), "jpg")

	assert.Equal(t, "Name: From Image", text)
	assert.Equal(t, []string{"tesseract"}, runner.calls)
}

func TestResolve_MissingFileReturnsEmpty(t *testing.T) {
	runner := &stubRunner{}
	resolver := extract.NewResolver(runner, testConfig(), testLogger())

	text := resolver.Resolve(context.Background(), "/nonexistent/path/doc.pdf", "pdf")

	assert.Equal(t, "", text)
	assert.Empty(t, runner.calls)
}

func TestResolve_NeverErrors(t *testing.T) {
	t.Run("pdftotext failure degrades to ocr", func(t *testing.T) {
		runner := &stubRunner{
			outputs: map[string]string{"tesseract": "rescued by ocr"},
			errs:    map[string]error{"pdftotext": errors.New("exit status 1")},
		}
		resolver := extract.NewResolver(runner, testConfig(), testLogger())

		text := resolver.Resolve(context.Background(), tempFile(t, "%PDF"), "pdf")

		assert.Equal(t, "rescued by ocr", text)
	})

	t.Run("both commands failing yields empty string", func(t *testing.T) {
		runner := &stubRunner{
			errs: map[string]error{
				"pdftotext": errors.New("exit status 1"),
				"tesseract": errors.New("exit status 1"),
			},
		}
		resolver := extract.NewResolver(runner, testConfig(), testLogger())

		text := resolver.Resolve(context.Background(), tempFile(t, "%PDF"), "pdf")

		assert.Equal(t, "", text)
	})

	t.Run("zero-byte file yields empty string", func(t *testing.T) {
		runner := &stubRunner{
			errs: map[string]error{
				"pdftotext": errors.New("exit status 1"),
				"tesseract": errors.New("exit status 1"),
			},
		}
		resolver := extract.NewResolver(runner, testConfig(), testLogger())

		text := resolver.Resolve(context.Background(), tempFile(t, ""), "pdf")

		assert.Equal(t, "", text)
	})
}

func TestResolve_ExtensionCaseInsensitive(t *testing.T) {
	runner := &stubRunner{outputs: map[string]string{
		"pdftotext": "plenty of extracted text here",
	}}
	resolver := extract.NewResolver(runner, testConfig(), testLogger())

	text := resolver.Resolve(context.Background(), tempFile(t, "%PDF"), "PDF")

	assert.Equal(t, "plenty of extracted text here", text)
	assert.Equal(t, []string{"pdftotext"}, runner.calls)
}
