package index

import (
	"fmt"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

// Status is set when a document is added and never changes afterwards.
type Status int

const (
	StatusActual Status = iota
	StatusIrrelevant
	StatusBanned
	StatusRemoved
)

var statusNames = [...]string{"ACTUAL", "IRRELEVANT", "BANNED", "REMOVED"}

func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// Valid reports whether s is one of the four defined statuses.
func (s Status) Valid() bool {
	return s >= 0 && int(s) < len(statusNames)
}

// ParseStatus accepts the status name in any case.
func ParseStatus(name string) (Status, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range statusNames {
		if n == upper {
			return Status(i), nil
		}
	}
	return 0, apperrors.Newf(apperrors.ErrInvalidArgument, "unknown document status %q", name)
}

// Document is the metadata kept for every live document.
type Document struct {
	ID     int    `json:"id"`
	Rating int    `json:"rating"`
	Status Status `json:"status"`
}

// Reader is the read-only view the ranking engine works against.
type Reader interface {
	DocumentCount() int
	Document(id int) (Document, bool)
	// Postings maps document id to term frequency for word. The returned map
	// must not be modified.
	Postings(word string) map[int]float64
}
