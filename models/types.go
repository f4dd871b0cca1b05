package models

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidIdentifier = errors.New("invalid candidate id")

// CandidateID identifies one of the four ballot slots
type CandidateID string

// Candidate slots. Nothing else is ever a valid key.
const (
	Calon1 CandidateID = "calon1"
	Calon2 CandidateID = "calon2"
	Calon3 CandidateID = "calon3"
	Calon4 CandidateID = "calon4"
)

// AllCandidates lists every valid CandidateID in ballot order
var AllCandidates = []CandidateID{Calon1, Calon2, Calon3, Calon4}

// Valid reports whether id is one of the fixed candidate slots
func (id CandidateID) Valid() bool {
	switch id {
	case Calon1, Calon2, Calon3, Calon4:
		return true
	}
	return false
}

// ParseCandidateID validates a raw identifier from a request
func ParseCandidateID(raw string) (CandidateID, error) {
	id := CandidateID(raw)
	if !id.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, raw)
	}
	return id, nil
}

// Request types

// Pointer fields distinguish "not supplied" from an empty string
type SaveCandidateRequest struct {
	CalonID   string  `json:"calonId"`
	Nama      *string `json:"nama"`
	VisiMisi  *string `json:"visiMisi"`
	PhotoPath *string `json:"photoPath"`
	PhotoData *string `json:"photoData"`
}

// LoginRequest is accepted as JSON; form posts use the same field name
type LoginRequest struct {
	Password string `json:"password"`
}

type CandidateIDRequest struct {
	CalonID string `json:"calonId"`
}

// Response types

type UploadPhotoResponse struct {
	PhotoData string `json:"photoData"`
}

// Domain types

// CandidateFields is a partial update: nil fields keep their stored value
type CandidateFields struct {
	Nama      *string
	VisiMisi  *string
	PhotoPath *string
	PhotoData *string
}

type Candidate struct {
	ID        CandidateID `json:"-"`
	Nama      *string     `json:"nama,omitempty"`
	VisiMisi  *string     `json:"visiMisi,omitempty"`
	PhotoPath *string     `json:"photoPath,omitempty"`
	PhotoData *string     `json:"photoData,omitempty"`
	UpdatedAt *time.Time  `json:"updatedAt,omitempty"`
}

// Apply merges the supplied fields into c and stamps UpdatedAt
func (c *Candidate) Apply(f CandidateFields, now time.Time) {
	if f.Nama != nil {
		c.Nama = f.Nama
	}
	if f.VisiMisi != nil {
		c.VisiMisi = f.VisiMisi
	}
	if f.PhotoPath != nil {
		c.PhotoPath = f.PhotoPath
	}
	if f.PhotoData != nil {
		c.PhotoData = f.PhotoData
	}
	c.UpdatedAt = &now
}

// Tally maps every candidate to its vote count
type Tally map[CandidateID]int64

// NewTally returns a tally with all four candidates at zero
func NewTally() Tally {
	t := make(Tally, len(AllCandidates))
	for _, id := range AllCandidates {
		t[id] = 0
	}
	return t
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
