package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/syllabussync/syllabus-sync/internal/core/domain"
)

type ocrFake struct {
	pages []string
	err   error
	calls [][]byte
}

func (f *ocrFake) RecognizePage(_ context.Context, payload []byte) (string, error) {
	f.calls = append(f.calls, payload)
	if f.err != nil {
		return "", f.err
	}
	return f.pages[len(f.calls)-1], nil
}

func tempPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "syllabus.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 stub"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractUsesTextLayerWhenSufficient(t *testing.T) {
	ocr := &ocrFake{}
	e := NewExtractor(ocr, nil)
	layerText := strings.Repeat("syllabus text ", 10)
	e.textLayer = func(string) (string, int, error) { return layerText, 3, nil }

	got, err := e.Extract(context.Background(), tempPDF(t))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got.Method != domain.MethodTextLayer {
		t.Fatalf("expected text_layer, got %s", got.Method)
	}
	if got.Text != layerText || got.Pages != 3 {
		t.Fatalf("unexpected extraction %+v", got)
	}
	if len(ocr.calls) != 0 {
		t.Fatalf("OCR must not run when the text layer suffices")
	}
}

func TestExtractFallsBackToOCRInPageOrder(t *testing.T) {
	ocr := &ocrFake{pages: []string{"page one", "page two"}}
	e := NewExtractor(ocr, nil)
	e.textLayer = func(string) (string, int, error) { return "thin", 2, nil }
	e.pageCount = func(string) (int, error) { return 2, nil }
	e.pageBytes = func(_ string, page int) ([]byte, error) {
		return []byte(fmt.Sprintf("pdf-page-%d", page)), nil
	}

	got, err := e.Extract(context.Background(), tempPDF(t))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got.Method != domain.MethodOCR {
		t.Fatalf("expected ocr, got %s", got.Method)
	}
	if got.Text != "page one\npage two" {
		t.Fatalf("pages joined out of order: %q", got.Text)
	}
	if len(ocr.calls) != 2 || string(ocr.calls[0]) != "pdf-page-1" {
		t.Fatalf("expected one OCR call per page in order, got %d", len(ocr.calls))
	}
}

func TestExtractOCRPageFailureYieldsEmptyPage(t *testing.T) {
	ocr := &ocrFake{err: errors.New("model unavailable")}
	e := NewExtractor(ocr, nil)
	e.textLayer = func(string) (string, int, error) { return "", 1, nil }
	e.pageCount = func(string) (int, error) { return 1, nil }
	e.pageBytes = func(string, int) ([]byte, error) { return []byte("p"), nil }

	got, err := e.Extract(context.Background(), tempPDF(t))
	if err != nil {
		t.Fatalf("per-page OCR failure must not fail the extraction: %v", err)
	}
	if got.Text != "" || got.Method != domain.MethodOCR {
		t.Fatalf("unexpected extraction %+v", got)
	}
}

func TestExtractPageCountFailureKeepsTextLayerResult(t *testing.T) {
	ocr := &ocrFake{}
	e := NewExtractor(ocr, nil)
	e.textLayer = func(string) (string, int, error) { return "thin", 2, nil }
	e.pageCount = func(string) (int, error) { return 0, errors.New("corrupt xref table") }

	got, err := e.Extract(context.Background(), tempPDF(t))
	if err != nil {
		t.Fatalf("page count failure must not fail the extraction: %v", err)
	}
	if got.Text != "thin" || got.Method != domain.MethodNone || got.Pages != 2 {
		t.Fatalf("expected the text layer result back, got %+v", got)
	}
	if len(ocr.calls) != 0 {
		t.Fatalf("OCR must not run when the document cannot be split")
	}
}

func TestExtractMissingFileIsInvalidInput(t *testing.T) {
	e := NewExtractor(&ocrFake{}, nil)

	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestExtractWithoutOCRReturnsThinText(t *testing.T) {
	e := NewExtractor(nil, nil)
	e.textLayer = func(string) (string, int, error) { return "thin", 1, nil }

	got, err := e.Extract(context.Background(), tempPDF(t))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got.Method != domain.MethodNone {
		t.Fatalf("expected none, got %s", got.Method)
	}
}
