// internal/input/loader.go
// Package input loads batches of prompt execution groups from JSON files
// and validates the document shape before the engine sees it.
package input

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mwiater/concord/internal/consistency"
)

// groupsSchema is the structural contract for a groups file. Semantic rules
// (two-output minimum, batch cap) belong to the engine's own validation.
const groupsSchema = `{
  "type": "object",
  "required": ["groups"],
  "properties": {
    "groups": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "prompt", "provider", "model", "outputs"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "prompt": {"type": "string"},
          "prompt_hash": {"type": "string"},
          "provider": {"type": "string", "minLength": 1},
          "model": {"type": "string", "minLength": 1},
          "expected_output": {"type": "string"},
          "source_test": {"type": "string"},
          "outputs": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["id", "content"],
              "properties": {
                "id": {"type": "string", "minLength": 1},
                "content": {"type": "string"},
                "sequence": {"type": "integer", "minimum": 0},
                "timestamp": {"type": "string"},
                "latency_ms": {"type": "integer", "minimum": 0},
                "temperature": {"type": "number"},
                "token_count": {"type": "integer", "minimum": 0}
              }
            }
          }
        }
      }
    }
  }
}`

// groupsDocument is the on-disk shape of a groups file.
type groupsDocument struct {
	Groups []consistency.PromptExecutionGroup `json:"groups"`
}

// LoadGroups reads a groups file, validates it against the embedded schema,
// and returns the execution groups in file order.
func LoadGroups(path string) ([]consistency.PromptExecutionGroup, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading groups file: %w", err)
	}
	return ParseGroups(raw)
}

// ParseGroups validates and decodes a groups document.
func ParseGroups(raw []byte) ([]consistency.PromptExecutionGroup, error) {
	schemaLoader := gojsonschema.NewStringLoader(groupsSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, fmt.Errorf("groups file failed validation: %s", strings.Join(details, "; "))
	}

	var doc groupsDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("error parsing groups file: %w", err)
	}
	return doc.Groups, nil
}
