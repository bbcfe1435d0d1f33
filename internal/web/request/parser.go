// Package request decodes HTTP request bodies for the catalog API.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// DefaultMaxBodySize bounds request bodies when no size is configured
const DefaultMaxBodySize = 1 << 20

// ErrBodyTooLarge is returned when a body exceeds the parser limit
var ErrBodyTooLarge = errors.New("request body too large")

// Parser handles parsing of HTTP request bodies
type Parser struct {
	maxBodySize int64
}

// NewParser creates a new request parser with default settings
func NewParser() *Parser {
	return &Parser{maxBodySize: DefaultMaxBodySize}
}

// NewParserWithMaxSize creates a parser with a custom max body size
func NewParserWithMaxSize(maxBytes int64) *Parser {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodySize
	}
	return &Parser{maxBodySize: maxBytes}
}

// ParseJSON decodes exactly one JSON object from the body into target.
// Unknown fields are rejected.
func (p *Parser) ParseJSON(w http.ResponseWriter, r *http.Request, target interface{}) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return fmt.Errorf("unsupported content type: %s", ct)
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, p.maxBodySize)
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return fmt.Errorf("request body is empty")
		case errors.As(err, &maxErr):
			return ErrBodyTooLarge
		case strings.Contains(err.Error(), "cannot unmarshal"):
			return fmt.Errorf("invalid JSON format: %w", err)
		default:
			return fmt.Errorf("invalid JSON: %w", err)
		}
	}

	if decoder.More() {
		return fmt.Errorf("request body contains multiple JSON objects")
	}
	return nil
}

// PathInt64 reads a positive integer path parameter set by the router
func PathInt64(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, fmt.Errorf("missing path parameter %q", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}
