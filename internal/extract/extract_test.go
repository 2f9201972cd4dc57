package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestTextRejectsNonPDFMime(t *testing.T) {
	_, err := Text(context.Background(), []byte("data"), "application/msword")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestTextNormalizesMimeParams(t *testing.T) {
	// Parameters and case on the declared type must not cause rejection;
	// the garbage payload should fail at the parse step instead.
	_, err := Text(context.Background(), []byte("not a pdf"), "Application/PDF; charset=binary")
	if err == nil {
		t.Fatal("expected parse error for garbage bytes")
	}
	if errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("mime normalization failed: %v", err)
	}
	if !strings.Contains(err.Error(), "parse pdf") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestTextBadBytesFail(t *testing.T) {
	_, err := Text(context.Background(), []byte{0x00, 0x01, 0x02}, MimePDF)
	if err == nil {
		t.Fatal("expected error for unparseable bytes")
	}
}

func TestTextCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Text(ctx, []byte("%PDF-1.4"), MimePDF)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
