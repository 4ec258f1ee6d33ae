// Package state models the meal-planner application state that the
// pointer codec was built to serve, and bridges it to the two shapes
// the rest of the system speaks: the flat widget-entry mapping of the
// UI state store, and the JSON storage payload persisted between
// sessions.
package state

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/mcncl/flatptr/internal/errors"
	"github.com/mcncl/flatptr/internal/flattener"
	"github.com/mcncl/flatptr/internal/models"
	"github.com/mcncl/flatptr/internal/parser"
)

const (
	// DefaultCompanionshipCount is the number of companionships a
	// fresh planner starts with.
	DefaultCompanionshipCount = 4

	// DefaultMissionariesPerCompanionship is the number of missionary
	// slots in a new companionship.
	DefaultMissionariesPerCompanionship = 2

	// StorageKey is the well-known key the payload lives under in the
	// browser's localStorage; the file store reuses it as a header
	// field so payloads stay recognizable across both transports.
	StorageKey = "missionaryMealPlanner.appState"
)

// Missionary is a single missionary entry in the planner. Photo holds
// a data:image/...;base64 URI when set.
type Missionary struct {
	Title string  `json:"title"`
	Name  string  `json:"name"`
	Photo *string `json:"photo"`
}

// Companionship groups missionaries with their shared contact details.
type Companionship struct {
	Missionaries []Missionary `json:"missionaries"`
	PhoneNumber  string       `json:"phone_number"`
	Schedule     []string     `json:"schedule"`
}

// AppState is the top-level planner state. Dates map slot names to
// ISO-8601 date strings. GeneratedPDF is opaque to this package and is
// never persisted.
type AppState struct {
	NumCompanionships int               `json:"num_companionships"`
	Companionships    []Companionship   `json:"companionships_data"`
	MissionaryCounts  map[string]int    `json:"missionary_counts"`
	Dates             map[string]string `json:"dates"`
	GeneratedPDF      []byte            `json:"generated_pdf,omitempty"`
}

// NewMissionary returns a blank missionary entry.
func NewMissionary() Missionary {
	return Missionary{Title: "Elder"}
}

// NewCompanionship creates a blank companionship with a specific
// number of missionary slots.
func NewCompanionship(missionaryCount int) Companionship {
	missionaries := make([]Missionary, missionaryCount)
	for i := range missionaries {
		missionaries[i] = NewMissionary()
	}
	return Companionship{
		Missionaries: missionaries,
		Schedule:     []string{},
	}
}

// DefaultAppState creates an application state populated with default
// data.
func DefaultAppState() *AppState {
	companionships := make([]Companionship, DefaultCompanionshipCount)
	for i := range companionships {
		companionships[i] = NewCompanionship(DefaultMissionariesPerCompanionship)
	}
	return &AppState{
		NumCompanionships: DefaultCompanionshipCount,
		Companionships:    companionships,
		MissionaryCounts:  map[string]int{},
		Dates:             map[string]string{},
	}
}

// Value converts the state into the codec's nested value
// representation.
func (s *AppState) Value() (models.Value, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.NewEncodeError("failed to serialize app state", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v models.Value
	if err := dec.Decode(&v); err != nil {
		return nil, errors.NewParsingError("failed to reload serialized app state", err)
	}
	return parser.Normalize(v), nil
}

// WidgetEntries flattens the state into the pointer-keyed mapping the
// reactive widget store consumes. This is one of the codec's two
// production call sites.
func (s *AppState) WidgetEntries() (models.FlatMap, error) {
	v, err := s.Value()
	if err != nil {
		return nil, err
	}
	return flattener.Flatten(v), nil
}

// AppStateFromWidgetEntries rebuilds an AppState from the flat widget
// store, the codec's other production call site. Photo fields are
// coerced to valid data URIs or cleared, matching what load-from-store
// has always done.
func AppStateFromWidgetEntries(fm models.FlatMap) (*AppState, error) {
	nested := flattener.Unflatten(fm)

	// The codec reconstructs any all-digit-keyed mapping as a
	// sequence, and missionary_counts is keyed by companionship
	// index. Re-map it here; that repair is the caller's job, not the
	// codec's.
	if obj, ok := nested.(models.Object); ok {
		if arr, ok := obj["missionary_counts"].(models.Array); ok {
			counts := make(models.Object, len(arr))
			for i, v := range arr {
				if v != nil {
					counts[strconv.Itoa(i)] = v
				}
			}
			obj["missionary_counts"] = counts
		}
	}

	data, err := json.Marshal(nested)
	if err != nil {
		return nil, errors.NewEncodeError("failed to serialize widget entries", err)
	}
	var s AppState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.NewParsingError("widget entries do not describe a valid app state", err)
	}
	s.NormalizePhotos()
	return &s, nil
}

// StoragePayload returns a deep copy prepared for persistence: the
// generated PDF is stripped, everything else is carried as-is.
func (s *AppState) StoragePayload() (*AppState, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.NewEncodeError("failed to serialize app state", err)
	}
	var copied AppState
	if err := json.Unmarshal(data, &copied); err != nil {
		return nil, errors.NewParsingError("failed to copy app state", err)
	}
	copied.GeneratedPDF = nil
	return &copied, nil
}

// NormalizePhotos coerces every missionary photo to a valid data URI
// or clears it.
func (s *AppState) NormalizePhotos() {
	for ci := range s.Companionships {
		missionaries := s.Companionships[ci].Missionaries
		for mi := range missionaries {
			missionaries[mi].Photo = CoercePhotoValue(missionaries[mi].Photo)
		}
	}
}
