// Package fetch - kind.go classifies sources as HTML pages or PDF documents.
package fetch

import (
	"bytes"
	"mime"
	"net/url"
	"path"
	"strings"
)

// Kind identifies how a source must be parsed.
type Kind string

const (
	// KindPage is an HTML page
	KindPage Kind = "page"
	// KindDocument is a PDF document
	KindDocument Kind = "document"
)

var pdfMagic = []byte("%PDF-")

// DetectKind classifies a source from its content type, falling back to the URL path
// extension. Anything that is not recognizably a PDF is treated as a page.
func DetectKind(urlStr, contentType string) Kind {
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			switch strings.ToLower(mediaType) {
			case "application/pdf", "application/x-pdf":
				return KindDocument
			case "text/html", "application/xhtml+xml":
				return KindPage
			}
		}
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return KindPage
	}
	if strings.EqualFold(path.Ext(parsed.Path), ".pdf") {
		return KindDocument
	}
	return KindPage
}

// IsPDF reports whether body starts with the PDF signature, ignoring leading whitespace.
func IsPDF(body []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(body, " \t\r\n\x00"), pdfMagic)
}
