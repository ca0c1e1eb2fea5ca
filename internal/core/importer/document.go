package importer

import (
	"bytes"
	"encoding/json"

	"github.com/example/flux/internal/core/fault"
)

// ParseDocument decodes raw as a JSON object. Anything that is not an
// object is a malformed import.
func ParseDocument(raw []byte) (map[string]any, error) {
	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&doc); err != nil {
		return nil, fault.Newf(fault.KindMalformedImport, "parse_document", "not a JSON object: %v", err)
	}
	if doc == nil {
		return nil, fault.New(fault.KindMalformedImport, "parse_document", "document is null")
	}
	return doc, nil
}

// NormalizeJSON decodes and normalizes an export document in one step.
func NormalizeJSON(raw []byte) (*Result, error) {
	doc, err := ParseDocument(raw)
	if err != nil {
		return nil, err
	}
	return Normalize(doc), nil
}
