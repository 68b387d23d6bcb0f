package vision

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed indicates the model returned text that does not conform to
// the requested JSON array shape.
var ErrMalformed = errors.New("malformed detection output")

// rawDetection keeps Quantity as raw JSON so one junk value does not fail
// the whole batch. The model is prompted for numbers but not trusted.
type rawDetection struct {
	ItemName *string         `json:"ItemName"`
	Quantity json.RawMessage `json:"Quantity"`
}

// ParseDetections parses the model's raw text response into detected items.
//
// The text must contain a JSON array of {ItemName, Quantity} objects; an
// element without an ItemName fails the whole parse. An element whose
// Quantity is missing, non-numeric, or negative is dropped instead, and the
// second return value counts those drops. An empty array is a valid result
// meaning no items were detected.
func ParseDetections(text string) ([]DetectedItem, int, error) {
	text = strings.TrimSpace(text)

	// Remove markdown code blocks if present, despite the prompt
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	// Find the array boundaries - models occasionally wrap the array in
	// prose or stray braces
	startIdx := strings.Index(text, "[")
	if startIdx == -1 {
		return nil, 0, fmt.Errorf("%w: no JSON array found in response", ErrMalformed)
	}

	endIdx := strings.LastIndex(text, "]")
	if endIdx == -1 || endIdx < startIdx {
		return nil, 0, fmt.Errorf("%w: invalid JSON array in response", ErrMalformed)
	}

	text = text[startIdx : endIdx+1]

	var raw []rawDetection
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, 0, fmt.Errorf("%w: unmarshaling json: %v", ErrMalformed, err)
	}

	items := make([]DetectedItem, 0, len(raw))
	dropped := 0
	for _, r := range raw {
		if r.ItemName == nil || strings.TrimSpace(*r.ItemName) == "" {
			return nil, 0, fmt.Errorf("%w: element is missing ItemName", ErrMalformed)
		}

		// Unmarshal into a pointer so a JSON null reads as missing rather
		// than as zero
		var quantity *float64
		if r.Quantity == nil || json.Unmarshal(r.Quantity, &quantity) != nil || quantity == nil || *quantity < 0 {
			dropped++
			continue
		}

		items = append(items, DetectedItem{
			ItemName: strings.TrimSpace(*r.ItemName),
			Quantity: *quantity,
		})
	}

	return items, dropped, nil
}
