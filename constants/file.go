package constants

import "strings"

// FileKind selects the text-extraction strategy for an upload.
type FileKind string

const (
	KindPDF   FileKind = "PDF"
	KindDOCX  FileKind = "DOCX"
	KindXLSX  FileKind = "XLSX"
	KindImage FileKind = "IMAGE"
)

var extToKind = map[string]FileKind{
	"pdf":  KindPDF,
	"doc":  KindDOCX,
	"docx": KindDOCX,
	"xls":  KindXLSX,
	"xlsx": KindXLSX,
	"jpg":  KindImage,
	"jpeg": KindImage,
	"png":  KindImage,
	"tiff": KindImage,
	"bmp":  KindImage,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToKind maps a normalized extension to its FileKind. Returns "" for
// unsupported extensions.
func MapExtToKind(ext string) FileKind {
	return extToKind[NormalizeExt(ext)]
}

// AllowedExt reports whether an extension is accepted for upload/ingestion.
func AllowedExt(ext string) bool {
	return MapExtToKind(ext) != ""
}
