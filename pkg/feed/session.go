package feed

import (
	"sync"

	"github.com/coolbeans/villagerecords/pkg/minutes"
)

// Dataset is one complete, immutable snapshot of the records.
type Dataset struct {
	Meetings  []minutes.Meeting
	Documents []minutes.VillageDocument
	Sources   SourceLinks
}

// Empty returns a dataset with non-nil empty collections.
func Empty() Dataset {
	return Dataset{
		Meetings:  []minutes.Meeting{},
		Documents: []minutes.VillageDocument{},
	}
}

// Session holds the dataset currently in use. Loads may overlap; the result
// of the most recently started load wins and older results are discarded
// even if they finish later.
type Session struct {
	mu      sync.Mutex
	next    uint64
	adopted uint64
	current Dataset
}

// NewSession returns a session holding an empty dataset.
func NewSession() *Session {
	return &Session{current: Empty()}
}

// Begin starts a load and returns its generation.
func (s *Session) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

// Adopt installs dataset if gen is newer than the dataset already adopted.
// It reports whether the dataset was installed.
func (s *Session) Adopt(gen uint64, dataset Dataset) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen <= s.adopted || gen > s.next {
		return false
	}
	if dataset.Meetings == nil {
		dataset.Meetings = []minutes.Meeting{}
	}
	if dataset.Documents == nil {
		dataset.Documents = []minutes.VillageDocument{}
	}
	s.adopted = gen
	s.current = dataset
	return true
}

// Current returns the adopted dataset.
func (s *Session) Current() Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
