package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/klinikbm/review-pasien/internal/extract"
)

// Document is one parsed report held for the collaborator between the
// parse and render calls. Records carry their annotation defaults; the
// collaborator sends edits back by sequence number at render time.
type Document struct {
	ID         string                  `json:"id"`
	Records    []extract.PatientRecord `json:"records"`
	PeriodDate *time.Time              `json:"period_date,omitempty"`
	Pages      int                     `json:"pages"`
}

// Store keeps parsed documents by handle.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewStore creates an empty document store.
func NewStore() *Store {
	return &Store{docs: make(map[string]*Document)}
}

// Put registers a parse result and returns its document handle.
func (s *Store) Put(res *extract.Result) *Document {
	doc := &Document{
		ID:         uuid.NewString(),
		Records:    append([]extract.PatientRecord(nil), res.Records...),
		PeriodDate: res.PeriodDate,
		Pages:      res.Pages,
	}

	s.mu.Lock()
	s.docs[doc.ID] = doc
	s.mu.Unlock()
	return doc
}

// Get looks up a document by handle.
func (s *Store) Get(id string) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	return doc, ok
}

// Delete drops a document from the store.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.docs, id)
	s.mu.Unlock()
}

// Len reports how many documents are held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
