package reporting

import (
	"errors"
	"strings"
)

// Format is an output format for a rendered report.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for formats without a renderer.
var ErrUnknownFormat = errors.New("reporting: unknown format")

// ParseFormat normalizes a format name. Empty input yields fallback.
func ParseFormat(value string, fallback Format) (Format, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fallback, nil
	}
	switch Format(value) {
	case FormatPDF, FormatXLSX, FormatJSON:
		return Format(value), nil
	default:
		return "", ErrUnknownFormat
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// FileName returns the download name for the format.
func (f Format) FileName() string {
	return "report." + string(f)
}
