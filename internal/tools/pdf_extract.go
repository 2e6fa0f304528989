package tools

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	pdfx "github.com/ledongthuc/pdf"
)

const defaultMaxPages = 20

// PDFExtractTool extracts plain text from a PDF.
// Inputs: data_base64 or data, pages (optional, e.g. "1-3,7").
type PDFExtractTool struct {
	MaxBytes int
	MaxPages int
}

func (t *PDFExtractTool) Name() string { return "pdf_extract" }

func (t *PDFExtractTool) Execute(ctx context.Context, inputs map[string]any) (any, string, error) {
	buf, err := inputBytes(inputs)
	if err != nil {
		return nil, "", err
	}
	limit := orDefault(t.MaxBytes, defaultMaxBytes)
	if len(buf) > limit {
		return nil, "", fmt.Errorf("%w: %d bytes > limit %d", ErrTooLarge, len(buf), limit)
	}
	spec, _ := inputs["pages"].(string)
	text, pages, total, err := extractPDF(ctx, buf, spec, orDefault(t.MaxPages, defaultMaxPages))
	if err != nil {
		return nil, "", err
	}
	return text, fmt.Sprintf("pages=%d/%d bytes=%d", pages, total, len(buf)), nil
}

// extractPDF returns the text of the selected pages along with how many pages
// were read and the document's page count.
func extractPDF(ctx context.Context, buf []byte, spec string, maxPages int) (string, int, int, error) {
	r, err := pdfx.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return "", 0, 0, fmt.Errorf("open pdf: %w", err)
	}
	total := r.NumPage()
	selected := expandPages(spec, total)
	if len(selected) == 0 {
		for i := 1; i <= total; i++ {
			selected = append(selected, i)
		}
	}
	if len(selected) > maxPages {
		selected = selected[:maxPages]
	}

	var out strings.Builder
	for _, page := range selected {
		if err := ctx.Err(); err != nil {
			return "", 0, total, err
		}
		p := r.Page(page)
		if p.V.IsNull() {
			continue
		}
		txt, _ := p.GetPlainText(nil)
		if t := strings.TrimSpace(txt); t != "" {
			out.WriteString(t)
			out.WriteString("\n\n")
		}
	}
	return strings.TrimSpace(out.String()), len(selected), total, nil
}

// expandPages parses a page list such as "1-3,7", keeping pages within
// [1,total] in first-seen order.
func expandPages(spec string, total int) []int {
	var out []int
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return out
	}
	seen := map[int]struct{}{}
	add := func(n int) {
		if n < 1 || n > total {
			return
		}
		if _, ok := seen[n]; !ok {
			out = append(out, n)
			seen[n] = struct{}{}
		}
	}
	for _, p := range strings.Split(spec, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(p, "-"); ok {
			a, _ := strconv.Atoi(strings.TrimSpace(lo))
			b, _ := strconv.Atoi(strings.TrimSpace(hi))
			if a > b {
				a, b = b, a
			}
			for i := a; i <= b; i++ {
				add(i)
			}
			continue
		}
		n, _ := strconv.Atoi(p)
		add(n)
	}
	return out
}
