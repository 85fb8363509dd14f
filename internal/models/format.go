package models

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// FormatCategory selects the extraction pipeline for an upload.
type FormatCategory string

const (
	CategoryPDF         FormatCategory = "pdf"
	CategoryWord        FormatCategory = "word"
	CategorySpreadsheet FormatCategory = "spreadsheet"
	CategoryImage       FormatCategory = "image"
	CategoryHTML        FormatCategory = "html"
	CategoryMarkdown    FormatCategory = "markdown"
	CategoryGeneric     FormatCategory = "generic"
)

// FormatDescriptor is the resolved identity of an upload. IsKnownFormat is
// true only when the declared MIME type or the file extension matched; a
// content sniff alone guides dispatch without claiming the format is known.
type FormatDescriptor struct {
	Category      FormatCategory
	FormatType    string
	IsKnownFormat bool
}

type formatEntry struct {
	category   FormatCategory
	formatType string
}

var mimeTable = map[string]formatEntry{
	"application/pdf": {CategoryPDF, "pdf"},

	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {CategoryWord, "docx"},
	"application/msword": {CategoryWord, "doc"},

	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {CategorySpreadsheet, "xlsx"},
	"application/vnd.ms-excel": {CategorySpreadsheet, "xls"},
	"text/csv":                 {CategorySpreadsheet, "csv"},

	"image/png":  {CategoryImage, "png"},
	"image/jpeg": {CategoryImage, "jpeg"},
	"image/gif":  {CategoryImage, "gif"},
	"image/bmp":  {CategoryImage, "bmp"},
	"image/tiff": {CategoryImage, "tiff"},
	"image/webp": {CategoryImage, "webp"},

	"text/html":     {CategoryHTML, "html"},
	"text/markdown": {CategoryMarkdown, "markdown"},

	"text/plain":       {CategoryGeneric, "text"},
	"application/json": {CategoryGeneric, "json"},
	"application/xml":  {CategoryGeneric, "xml"},
	"text/xml":         {CategoryGeneric, "xml"},
}

var extTable = map[string]formatEntry{
	".pdf":  {CategoryPDF, "pdf"},
	".docx": {CategoryWord, "docx"},
	".doc":  {CategoryWord, "doc"},
	".xlsx": {CategorySpreadsheet, "xlsx"},
	".xls":  {CategorySpreadsheet, "xls"},
	".csv":  {CategorySpreadsheet, "csv"},
	".png":  {CategoryImage, "png"},
	".jpg":  {CategoryImage, "jpeg"},
	".jpeg": {CategoryImage, "jpeg"},
	".gif":  {CategoryImage, "gif"},
	".bmp":  {CategoryImage, "bmp"},
	".tif":  {CategoryImage, "tiff"},
	".tiff": {CategoryImage, "tiff"},
	".webp": {CategoryImage, "webp"},
	".html": {CategoryHTML, "html"},
	".htm":  {CategoryHTML, "html"},
	".md":   {CategoryMarkdown, "markdown"},
	".txt":  {CategoryGeneric, "text"},
	".json": {CategoryGeneric, "json"},
	".xml":  {CategoryGeneric, "xml"},
	".log":  {CategoryGeneric, "text"},
}

// ResolveFormat identifies an upload from its declared MIME type first,
// falling back to the file extension and finally to a content sniff.
func ResolveFormat(declaredMime, fileName string, data []byte) FormatDescriptor {
	if parsed, _, err := mime.ParseMediaType(declaredMime); err == nil {
		declaredMime = parsed
	}
	declaredMime = strings.ToLower(strings.TrimSpace(declaredMime))

	if entry, ok := mimeTable[declaredMime]; ok {
		return FormatDescriptor{Category: entry.category, FormatType: entry.formatType, IsKnownFormat: true}
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if entry, ok := extTable[ext]; ok {
		return FormatDescriptor{Category: entry.category, FormatType: entry.formatType, IsKnownFormat: true}
	}

	if len(data) > 0 {
		for m := mimetype.Detect(data); m != nil; m = m.Parent() {
			// Sniffed types may carry parameters such as charset.
			name := m.String()
			if parsed, _, err := mime.ParseMediaType(name); err == nil {
				name = parsed
			}
			if entry, ok := mimeTable[name]; ok {
				return FormatDescriptor{Category: entry.category, FormatType: entry.formatType}
			}
		}
	}

	return FormatDescriptor{Category: CategoryGeneric, FormatType: "unknown"}
}
