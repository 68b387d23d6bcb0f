package pantry

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mvail/pantry-tracker/internal/vision"
)

var (
	// ErrMissingImage indicates an ingestion request without an image payload
	ErrMissingImage = errors.New("no image uploaded")
	// ErrMissingOwner indicates an ingestion request without an owner id
	ErrMissingOwner = errors.New("owner id must be provided")
)

// IDGenerator generates unique IDs for records
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// ItemFailure records one detected item that could not be persisted
type ItemFailure struct {
	ItemName string  `json:"itemName"`
	Quantity float64 `json:"quantity"`
	Error    string  `json:"error"`
}

// IngestResult is the outcome of one image ingestion. Added holds the
// persisted records in detection order, Failed the items whose writes
// failed, and Dropped counts detections discarded by the parser.
type IngestResult struct {
	Added   []*Item
	Failed  []ItemFailure
	Dropped int
}

// Service handles pantry operations
type Service struct {
	db          DB
	detector    vision.Detector
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, detector vision.Detector) *Service {
	return &Service{
		db:          db,
		detector:    detector,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, detector vision.Detector, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		detector:    detector,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// IngestImage runs the upload pipeline: validate the request, send the photo
// to the detector, parse its output, and persist one record per detection.
//
// The owner id always comes from the request; detector output never supplies
// it. Per-item write failures are collected, not fatal.
func (s *Service) IngestImage(imageData []byte, contentType, ownerID string) (*IngestResult, error) {
	if len(imageData) == 0 {
		return nil, ErrMissingImage
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrMissingOwner
	}

	rawText, err := s.detector.Detect(imageData, contentType)
	if err != nil {
		slog.Error("Failed to detect items in image",
			"owner_id", ownerID,
			"content_type", contentType,
			"image_size", len(imageData),
			"error", err,
		)
		return nil, fmt.Errorf("detecting items: %w", err)
	}

	detected, dropped, err := vision.ParseDetections(rawText)
	if err != nil {
		slog.Error("Failed to parse detection output", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("parsing detections: %w", err)
	}
	if dropped > 0 {
		slog.Warn("Dropped detections with unusable quantities", "owner_id", ownerID, "count", dropped)
	}

	added, failed := s.writeItems(detected, ownerID)

	return &IngestResult{
		Added:   added,
		Failed:  failed,
		Dropped: dropped,
	}, nil
}

// writeItems persists each detection as an independent record. Writes fan
// out concurrently; results are collected in detection order and a failed
// write never aborts the rest of the batch.
func (s *Service) writeItems(detected []vision.DetectedItem, ownerID string) ([]*Item, []ItemFailure) {
	type writeResult struct {
		item *Item
		err  error
	}
	results := make([]writeResult, len(detected))

	var wg sync.WaitGroup
	for i, d := range detected {
		wg.Add(1)
		go func(i int, d vision.DetectedItem) {
			defer wg.Done()
			now := s.timeSource.Now()
			item := &Item{
				ID:        s.idGenerator.Generate(),
				ItemName:  d.ItemName,
				Quantity:  d.Quantity,
				OwnerID:   ownerID,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.db.SaveItem(item); err != nil {
				results[i] = writeResult{err: err}
				return
			}
			results[i] = writeResult{item: item}
		}(i, d)
	}
	wg.Wait()

	added := make([]*Item, 0, len(detected))
	failed := make([]ItemFailure, 0)
	for i, r := range results {
		if r.err != nil {
			slog.Error("Failed to save pantry item",
				"owner_id", ownerID,
				"item_name", detected[i].ItemName,
				"error", r.err,
			)
			failed = append(failed, ItemFailure{
				ItemName: detected[i].ItemName,
				Quantity: detected[i].Quantity,
				Error:    r.err.Error(),
			})
			continue
		}
		added = append(added, r.item)
	}

	return added, failed
}
