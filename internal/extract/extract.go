package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MimePDF is the only media type the extractor accepts.
const MimePDF = "application/pdf"

var (
	// ErrUnsupportedType means the declared media type is not a PDF.
	ErrUnsupportedType = errors.New("unsupported media type")
	// ErrNoText means the document parsed but yielded no recoverable text
	// (image-only or corrupt content).
	ErrNoText = errors.New("no extractable text")
)

// Text extracts the plain text of an in-memory PDF, pages concatenated in
// page order. The declared media type is checked before any parsing happens.
// Library used: github.com/ledongthuc/pdf.
func Text(ctx context.Context, data []byte, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if normalizeMimeType(mimeType) != MimePDF {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	text := buf.String()
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

func normalizeMimeType(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}
