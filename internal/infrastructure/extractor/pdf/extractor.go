package pdf

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	ledong "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/syllabussync/syllabus-sync/internal/core/domain"
	"github.com/syllabussync/syllabus-sync/internal/core/ports"
)

// Extractor pulls plain text out of a PDF. The text layer is tried first;
// when it yields too little text the document is split page by page and each
// page is transcribed through the OCR port.
type Extractor struct {
	ocr ports.PageOCR
	log *slog.Logger

	textLayer func(path string) (string, int, error)
	pageCount func(path string) (int, error)
	pageBytes func(path string, page int) ([]byte, error)
}

func NewExtractor(ocr ports.PageOCR, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{
		ocr:       ocr,
		log:       log,
		textLayer: textLayerExtract,
		pageCount: countPages,
		pageBytes: extractSinglePage,
	}
}

func (e *Extractor) Extract(ctx context.Context, path string) (domain.Extraction, error) {
	var none domain.Extraction

	if _, err := os.Stat(path); err != nil {
		return none, domain.WrapError(domain.ErrInvalidInput, "open pdf", err)
	}

	text, pages, err := e.textLayer(path)
	if err != nil {
		e.log.Warn("text layer extraction failed", "path", path, "error", err)
		text = ""
	}
	if len(strings.TrimSpace(text)) >= domain.MinExtractedTextChars {
		return domain.Extraction{Text: text, Method: domain.MethodTextLayer, Pages: pages}, nil
	}

	fallback := domain.Extraction{Text: text, Method: domain.MethodNone, Pages: pages}
	if e.ocr == nil {
		return fallback, nil
	}
	return e.recognizePages(ctx, path, fallback)
}

// recognizePages splits the document into single-page PDFs and transcribes
// them in page order. A failing page logs and contributes an empty page so
// the rest of the document still comes through. When the document cannot be
// split at all the thin text-layer result is returned instead.
func (e *Extractor) recognizePages(ctx context.Context, path string, fallback domain.Extraction) (domain.Extraction, error) {
	var none domain.Extraction

	total, err := e.pageCount(path)
	if err != nil {
		e.log.Warn("page count failed, keeping text layer result", "path", path, "error", err)
		return fallback, nil
	}

	pageTexts := make([]string, 0, total)
	for page := 1; page <= total; page++ {
		if err := ctx.Err(); err != nil {
			return none, err
		}

		payload, err := e.pageBytes(path, page)
		if err != nil {
			e.log.Warn("page split failed", "path", path, "page", page, "error", err)
			pageTexts = append(pageTexts, "")
			continue
		}
		text, err := e.ocr.RecognizePage(ctx, payload)
		if err != nil {
			e.log.Warn("page transcription failed", "path", path, "page", page, "error", err)
			pageTexts = append(pageTexts, "")
			continue
		}
		pageTexts = append(pageTexts, text)
	}

	return domain.Extraction{
		Text:   strings.Join(pageTexts, "\n"),
		Method: domain.MethodOCR,
		Pages:  total,
	}, nil
}

func textLayerExtract(path string) (string, int, error) {
	f, r, err := ledong.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open pdf text layer: %w", err)
	}
	defer f.Close()

	total := r.NumPage()
	pageTexts := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pageTexts = append(pageTexts, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			pageTexts = append(pageTexts, "")
			continue
		}
		pageTexts = append(pageTexts, strings.TrimSpace(text))
	}
	return strings.Join(pageTexts, "\n"), total, nil
}

func countPages(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return api.PageCount(f, nil)
}

func extractSinglePage(path string, page int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := api.Trim(f, &buf, []string{strconv.Itoa(page)}, nil); err != nil {
		return nil, fmt.Errorf("extract page %d: %w", page, err)
	}
	return buf.Bytes(), nil
}
