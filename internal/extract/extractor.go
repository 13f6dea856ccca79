package extract

import (
	"context"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gerenciadoc/gerenciadoc/constants"
)

// descriptionLimit caps the generated description length, in runes.
const descriptionLimit = 200

var reTitle = regexp.MustCompile(`(?i)(?:título|nome|referente a|referência):\s*([^\n.]{5,100})`)

// Extractor is the pipeline entry point. It owns the strategy instances
// and the fallback-on-error semantics; it holds no per-call state, so one
// Extractor may serve concurrent calls.
type Extractor struct {
	PDF    TextExtractor
	DOCX   TextExtractor
	XLSX   TextExtractor
	Image  TextExtractor
	Logger *slog.Logger
}

func NewExtractor(ocrCfg OCRConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		PDF:    NewPDFExtractor(logger),
		DOCX:   NewDOCXExtractor(logger),
		XLSX:   NewXLSXExtractor(logger),
		Image:  NewOCRExtractor(ocrCfg, logger),
		Logger: logger,
	}
}

// ExtractDocumentData runs the full pipeline for one file:
// dispatch -> text extraction -> classification -> metadata -> validation
// -> category/tags, plus name and description composition.
//
// It never fails the caller: extraction is best-effort enrichment, so any
// error anywhere (unsupported format, corrupt file, OCR crash) degrades to
// a Result carrying only an empty metadata record.
func (e *Extractor) ExtractDocumentData(ctx context.Context, path string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			e.Logger.Error("extraction panic recovered", "path", path, "panic", r)
			res = Result{}
		}
	}()

	kind, err := IdentifyKind(path)
	if err != nil {
		e.Logger.Warn("extraction skipped", "path", path, "error", err)
		return Result{}
	}

	text, err := e.strategyFor(kind).Extract(ctx, path)
	if err != nil {
		// Strategy failures are contained: classification proceeds over
		// empty text and yields the "outro" fallback.
		e.Logger.Warn("text extraction failed", "path", path, "kind", kind, "error", err)
		text = ""
	}

	typ := Classify(text)
	md := Validate(ExtractMetadata(text, typ))

	res = Result{
		Name:        DocumentName(text, filepath.Base(path)),
		Description: Description(text),
		Type:        typ,
		CategoryID:  constants.CategoryFor(typ),
		Metadata:    md,
		Tags:        GenerateTags(text, typ),
	}
	e.Logger.Debug("extraction complete",
		"path", path,
		"kind", kind,
		"type", typ,
		"category", res.CategoryID,
		"tags", len(res.Tags),
	)
	return res
}

func (e *Extractor) strategyFor(kind constants.FileKind) TextExtractor {
	switch kind {
	case constants.KindPDF:
		return e.PDF
	case constants.KindDOCX:
		return e.DOCX
	case constants.KindXLSX:
		return e.XLSX
	default:
		return e.Image
	}
}

// DocumentName extracts a title from labeled text ("Título: ...",
// "Referente a: ..."), falling back to the original filename.
func DocumentName(text, fallback string) string {
	if m := reTitle.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return fallback
}

// Description returns the document text truncated to descriptionLimit
// runes, ellipsis-suffixed when truncated.
func Description(text string) string {
	runes := []rune(text)
	if len(runes) <= descriptionLimit {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(string(runes[:descriptionLimit-3])) + "..."
}
