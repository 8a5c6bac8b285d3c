// Package dataset loads the bundled coach export into an immutable snapshot.
//
// A Snapshot is built once at startup and shared read-only by every request;
// nothing in the process mutates it afterwards, so it needs no locking.
package dataset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/asimmons-coder/internal-coach-matching/internal/models"
)

const (
	// MinBioLength is the bio length a coach must exceed to be offered to the model.
	MinBioLength = 100
	maxSeniority = 8
)

//go:embed coaches.json
var embeddedCoaches []byte

var ErrInvalidDataset = errors.New("invalid coach dataset")

// FieldError reports a coach record that could not be decoded.
type FieldError struct {
	Index   int
	CoachID string
	Err     error
}

func (e *FieldError) Error() string {
	if e.CoachID != "" {
		return fmt.Sprintf("coach %d (%s): %v", e.Index, e.CoachID, e.Err)
	}
	return fmt.Sprintf("coach %d: %v", e.Index, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

type Snapshot struct {
	coaches []models.Coach
	byID    map[string]int
}

type FilterOptions struct {
	ActiveOnly bool
}

func LoadEmbedded() (*Snapshot, error) {
	return Load(bytes.NewReader(embeddedCoaches))
}

func LoadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open coach dataset: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load decodes a JSON array of coach records. The whole file is rejected when
// any record is malformed, has no id, repeats an id or has an out-of-range
// seniority score.
func Load(r io.Reader) (*Snapshot, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}

	snapshot := &Snapshot{
		coaches: make([]models.Coach, 0, len(raw)),
		byID:    make(map[string]int, len(raw)),
	}

	for i, record := range raw {
		var coach models.Coach
		if err := json.Unmarshal(record, &coach); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, &FieldError{Index: i, CoachID: peekID(record), Err: err})
		}

		coach.ID = strings.TrimSpace(coach.ID)
		switch {
		case coach.ID == "":
			return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, &FieldError{Index: i, Err: errors.New("id is required")})
		case coach.SeniorityScore < 0 || coach.SeniorityScore > maxSeniority:
			return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, &FieldError{
				Index:   i,
				CoachID: coach.ID,
				Err:     fmt.Errorf("seniority_score %d outside 0-%d", coach.SeniorityScore, maxSeniority),
			})
		}
		if _, exists := snapshot.byID[coach.ID]; exists {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, &FieldError{Index: i, CoachID: coach.ID, Err: errors.New("duplicate id")})
		}

		snapshot.byID[coach.ID] = len(snapshot.coaches)
		snapshot.coaches = append(snapshot.coaches, coach)
	}

	return snapshot, nil
}

func peekID(record json.RawMessage) string {
	var probe struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(record, &probe)
	return probe.ID
}

func (s *Snapshot) Len() int {
	return len(s.coaches)
}

// All returns the coaches in file order. Callers must treat the records as read-only.
func (s *Snapshot) All() []models.Coach {
	out := make([]models.Coach, len(s.coaches))
	copy(out, s.coaches)
	return out
}

func (s *Snapshot) Get(id string) (models.Coach, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return models.Coach{}, false
	}
	return s.coaches[idx], true
}

func (s *Snapshot) Filter(opts FilterOptions) []models.Coach {
	return FilterCoaches(s.coaches, opts)
}

// FilterCoaches keeps coaches that are active (when ActiveOnly is set) and
// have a bio longer than MinBioLength. Order is preserved.
func FilterCoaches(coaches []models.Coach, opts FilterOptions) []models.Coach {
	filtered := make([]models.Coach, 0, len(coaches))
	for _, coach := range coaches {
		if opts.ActiveOnly && !coach.IsActive {
			continue
		}
		if utf8.RuneCountInString(coach.Bio) <= MinBioLength {
			continue
		}
		filtered = append(filtered, coach)
	}
	return filtered
}
