// Package extract turns uploaded résumé files into plain text.
package extract

import (
	"bytes"
	"fmt"
	"html"
	"mime"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	apperrors "github.com/giomambre/cv-job-matching/internal/errors"
)

// Supported MIME types.
const (
	MIMEPlain = "text/plain"
	MIMEPDF   = "application/pdf"
	MIMEDocx  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var extensionTypes = map[string]string{
	".txt":  MIMEPlain,
	".text": MIMEPlain,
	".md":   MIMEPlain,
	".pdf":  MIMEPDF,
	".docx": MIMEDocx,
}

var (
	paragraphEndRegex = regexp.MustCompile(`</w:p>|<w:br/>|<w:cr/>`)
	tabRegex          = regexp.MustCompile(`<w:tab/>`)
	xmlTagRegex       = regexp.MustCompile(`<[^>]*>`)
)

// DetectType resolves the MIME type of an upload. The file extension wins,
// then the declared Content-Type, then content sniffing.
func DetectType(filename, declared string, data []byte) string {
	if t, ok := extensionTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return t
	}
	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
			switch mediaType {
			case MIMEPlain, MIMEPDF, MIMEDocx:
				return mediaType
			}
		}
	}
	sniffed, _, _ := mime.ParseMediaType(mimetype.Detect(data).String())
	return sniffed
}

// Text extracts the plain text of a résumé file. Plain text, PDF and DOCX are
// supported; anything else yields an UnsupportedInputError.
func Text(filename, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperrors.NewUnsupportedInputError("file is empty")
	}

	var (
		text string
		err  error
	)
	switch kind := DetectType(filename, contentType, data); kind {
	case MIMEPlain:
		text = string(data)
	case MIMEPDF:
		text, err = pdfText(data)
	case MIMEDocx:
		text, err = docxText(data)
	default:
		return "", apperrors.NewUnsupportedInputError(fmt.Sprintf("unsupported file type %q", kind))
	}
	if err != nil {
		return "", apperrors.NewUnsupportedInputError(err.Error())
	}
	if !utf8.ValidString(text) {
		return "", apperrors.NewUnsupportedInputError("extracted text is not valid UTF-8")
	}
	return text, nil
}

func pdfText(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		sb.WriteString(pageText)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	return xmlToText(doc.Editable().GetContent()), nil
}

// xmlToText flattens WordprocessingML into text, one paragraph per line.
func xmlToText(content string) string {
	content = paragraphEndRegex.ReplaceAllString(content, "\n")
	content = tabRegex.ReplaceAllString(content, " ")
	content = xmlTagRegex.ReplaceAllString(content, "")
	return strings.TrimSpace(html.UnescapeString(content))
}
