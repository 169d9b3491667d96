package scanning

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ExtractJSON recovers the single JSON object a model embedded in free-form text.
// It takes everything from the first '{' to the last '}' and decodes it, keeping
// numbers as json.Number so digit strings are not rounded.
func ExtractJSON(text string) (map[string]any, error) {
	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("%w: no JSON object found in response", ErrMalformedResponse)
	}

	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("%w: invalid JSON object in response", ErrMalformedResponse)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text[startIdx : endIdx+1])))
	dec.UseNumber()

	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling json: %w", ErrMalformedResponse, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrMalformedResponse)
	}
	return data, nil
}
