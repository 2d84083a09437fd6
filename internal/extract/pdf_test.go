package extract

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

func TestPDFText_Empty(t *testing.T) {
	_, err := PDFText(nil)
	if !errors.Is(err, domain.ErrNoText) {
		t.Errorf("expected ErrNoText for empty input, got %v", err)
	}
}

func TestPDFText_Garbage(t *testing.T) {
	_, err := PDFText([]byte("this is not a pdf at all"))
	if !errors.Is(err, domain.ErrNoText) {
		t.Errorf("expected ErrNoText for garbage input, got %v", err)
	}
}

func TestPDFText_TruncatedHeader(t *testing.T) {
	_, err := PDFText([]byte("%PDF-1.7\n"))
	if !errors.Is(err, domain.ErrNoText) {
		t.Errorf("expected ErrNoText for truncated pdf, got %v", err)
	}
}
