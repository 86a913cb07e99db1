package internal

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ReliabilityThreshold is the score at or below which a response that
// chose among reference labels is rejected.
const ReliabilityThreshold = 0.2

const responseSchemaSource = `{
  "type": "object",
  "required": ["outputs"],
  "properties": {
    "reliability": {"type": "number"},
    "outputs": {"type": "array", "items": {"type": "string"}}
  }
}`

var (
	responseSchema = mustCompileSchema("response.json", responseSchemaSource)

	fenceOpen  = regexp.MustCompile("^```(?:(?i:json))?[ \t]*\n?")
	fenceClose = regexp.MustCompile("\n?```$")
)

type generativeOutput struct {
	Reliability *float64 `json:"reliability"`
	Outputs     []string `json:"outputs"`
}

func mustCompileSchema(name, source string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(source)); err != nil {
		panic(fmt.Sprintf("add schema %s: %v", name, err))
	}
	return compiler.MustCompile(name)
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = fenceOpen.ReplaceAllString(text, "")
	text = fenceClose.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ValidateResponse parses the structured answer of a generative backend and
// returns its outputs in the order the model gave them. The reliability gate
// applies only when the model was asked to choose among references.
func ValidateResponse(raw string, referencesInUse bool) ([]string, error) {
	cleaned := stripCodeFence(raw)

	var doc any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}

	if err := responseSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: outputs must be an array of strings: %v", ErrParseFailed, err)
	}

	var out generativeOutput
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}

	if referencesInUse && out.Reliability != nil && *out.Reliability <= ReliabilityThreshold {
		return nil, &ReliabilityError{Score: *out.Reliability}
	}

	return out.Outputs, nil
}
