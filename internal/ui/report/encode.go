package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"eosindex/internal/core/errors"
	"eosindex/internal/engine/index"

	"github.com/zeebo/xxh3"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Encode writes doc to w in the given format. Mapping keys come out in
// sorted order and sequences in declaration order, so equal documents
// encode to identical bytes.
func Encode(w io.Writer, doc *index.Document, format string, indent int) error {
	if indent <= 0 {
		indent = 2
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", strings.Repeat(" ", indent))
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "encode json document")
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(indent)
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "encode yaml document")
		}
		if err := enc.Close(); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "flush yaml document")
		}
		return nil
	default:
		return errors.New(errors.CodeValidationError, fmt.Sprintf("unsupported output format %q", format))
	}
}

// EncodeBytes encodes doc into memory.
func EncodeBytes(doc *index.Document, format string, indent int) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc, format, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Digest is a stable fingerprint of encoded output.
func Digest(data []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(data))
}
