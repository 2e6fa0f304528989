package tools

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedType is returned for attachments that are not PDF, HTML or text.
var ErrUnsupportedType = errors.New("unsupported file type; provide PDF/HTML/text/CSV/JSON/YAML")

// ErrTooLarge is returned when an attachment exceeds the byte limit.
var ErrTooLarge = errors.New("file too large")

const defaultMaxBytes = 20 << 20

// FileExtractTool converts common file types into text.
// Inputs:
// - data_base64: string, may be a data: URL; or data: []byte
// - filename: string (optional)
// - content_type: string (optional)
// Output: string
type FileExtractTool struct {
	MaxBytes int
	MaxPages int
}

func (t *FileExtractTool) Name() string { return "file_extract" }

func (t *FileExtractTool) Execute(ctx context.Context, inputs map[string]any) (any, string, error) {
	buf, err := inputBytes(inputs)
	if err != nil {
		return nil, "", err
	}
	limit := orDefault(t.MaxBytes, defaultMaxBytes)
	if len(buf) > limit {
		return nil, "", fmt.Errorf("%w: %d bytes > limit %d", ErrTooLarge, len(buf), limit)
	}

	filename, _ := inputs["filename"].(string)
	ctype, _ := inputs["content_type"].(string)
	ctype = strings.ToLower(ctype)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))

	if strings.HasPrefix(string(buf), "%PDF-") || ext == "pdf" || strings.Contains(ctype, "pdf") {
		text, pages, total, err := extractPDF(ctx, buf, "", orDefault(t.MaxPages, defaultMaxPages))
		return text, fmt.Sprintf("pdf pages=%d/%d bytes=%d", pages, total, len(buf)), err
	}

	if looksHTML(buf, ext, ctype) {
		text, err := htmlToText(string(buf))
		return text, "html", err
	}

	if isTextLike(ext, ctype) {
		text := strings.TrimSpace(string(buf))
		return text, fmt.Sprintf("plain ext=%s len=%d", ext, len(text)), nil
	}

	return nil, "", ErrUnsupportedType
}

func looksHTML(buf []byte, ext, ctype string) bool {
	if ext == "html" || ext == "htm" || strings.Contains(ctype, "html") {
		return true
	}
	head := buf
	if len(head) > 4096 {
		head = head[:4096]
	}
	s := strings.ToLower(string(head))
	return strings.Contains(s, "<html") || strings.Contains(s, "<body")
}

func isTextLike(ext, ctype string) bool {
	switch ext {
	case "txt", "md", "markdown", "csv", "json", "log", "yaml", "yml":
		return true
	}
	for _, kind := range []string{"text/", "json", "csv", "yaml"} {
		if strings.Contains(ctype, kind) {
			return true
		}
	}
	return false
}

// inputBytes reads raw bytes from "data" or base64 from "data_base64".
func inputBytes(inputs map[string]any) ([]byte, error) {
	if b, ok := inputs["data"].([]byte); ok {
		return b, nil
	}
	b64, _ := inputs["data_base64"].(string)
	if b64 == "" {
		return nil, errors.New("missing data_base64")
	}
	if i := strings.Index(b64, ","); i != -1 {
		b64 = b64[i+1:] // strip data: prefix
	}
	buf, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	return buf, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
