package vision

import "errors"

// ErrUnavailable indicates the inference service could not be reached or
// returned a service-level failure.
var ErrUnavailable = errors.New("inference service unavailable")

// DetectedItem is one object identified in a photo, with how many of it
// the model counted.
type DetectedItem struct {
	ItemName string  `json:"ItemName"`
	Quantity float64 `json:"Quantity"`
}

// Detector defines the interface for image object detection
type Detector interface {
	// Detect sends an image to a multimodal model and returns the raw text
	// of its response. Parsing that text is the caller's concern.
	Detect(imageData []byte, contentType string) (string, error)
	// Close closes the detector and releases resources
	Close() error
}

// systemInstruction pins the model to a bare JSON array so the response can
// be parsed without scraping prose.
const systemInstruction = `Return only a JSON array of objects, nothing else. Do not use markdown code blocks. Do not add any text before or after the array. Each object must have exactly two fields: "ItemName" (a string) and "Quantity" (a number). Example: [{"ItemName":"milk","Quantity":2},{"ItemName":"eggs","Quantity":12}]`

// detectInstruction is the task description sent alongside the image.
const detectInstruction = "Detect the objects in the image and their quantity. Give the result as a JSON array where every element has ItemName and Quantity."
