// Package extract converts uploaded résumé files into plain text.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dslipak/pdf"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

// PDFText extracts the plain text of a PDF from raw bytes. Malformed files
// yield domain.ErrNoText; the parser panics on some corrupt inputs, which is
// recovered and reported the same way.
func PDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: pdf parser panic: %v", domain.ErrNoText, r)
		}
	}()

	if len(data) == 0 {
		return "", domain.ErrNoText
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: open pdf: %w", domain.ErrNoText, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: read pdf text: %w", domain.ErrNoText, err)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return "", fmt.Errorf("%w: copy pdf text: %w", domain.ErrNoText, err)
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", domain.ErrNoText
	}
	return out, nil
}
