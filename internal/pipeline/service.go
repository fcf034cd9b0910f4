// Package pipeline wires extraction, doctor matching and rendering into
// the parse/render service consumed by the hosting collaborator.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/klinikbm/review-pasien/internal/extract"
	"github.com/klinikbm/review-pasien/internal/report"
	"github.com/klinikbm/review-pasien/internal/roster"
	"github.com/klinikbm/review-pasien/internal/visit"
)

// ErrUnknownDocument means the render call referenced a document handle
// the store does not hold.
var ErrUnknownDocument = errors.New("unknown document handle")

// RowEdit carries the collaborator's annotations for one record,
// addressed by sequence number. Free-text fields are accepted as-is.
type RowEdit struct {
	SequenceNumber int    `json:"sequence_number"`
	Checked        bool   `json:"checked"`
	Visit          string `json:"visit,omitempty"`
	Gigi           string `json:"gigi,omitempty"`
	Telp           string `json:"telp,omitempty"`
	Operator       string `json:"operator,omitempty"`
}

// Service is the pipeline orchestrator.
type Service struct {
	maxFileSize int64
	extractor   *extract.Extractor
	cache       *parseCache
	store       *Store
}

// NewService creates a pipeline service with the given size limit and
// doctor-match threshold.
func NewService(maxFileSize int64, matchThreshold float64) *Service {
	return &Service{
		maxFileSize: maxFileSize,
		extractor:   extract.NewExtractor(maxFileSize, roster.NewMatcher(matchThreshold)),
		cache:       newParseCache(0),
		store:       NewStore(),
	}
}

// ParseBytes extracts patient records from raw PDF bytes and registers
// the result under a fresh document handle. Identical byte content is
// served from the memo cache.
func (s *Service) ParseBytes(data []byte) (*Document, error) {
	res, ok := s.cache.get(data)
	if !ok {
		var err error
		res, err = s.extractor.Extract(data)
		if err != nil {
			return nil, err
		}
		s.cache.put(data, res)
	}
	return s.store.Put(res), nil
}

// ParseFile reads a PDF from disk and parses it.
func (s *Service) ParseFile(path string) (*Document, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return nil, fmt.Errorf("file is not a PDF: %s", path)
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if s.maxFileSize > 0 && info.Size() > s.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), s.maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}
	return s.ParseBytes(data)
}

// Document returns a previously parsed document by handle.
func (s *Service) Document(id string) (*Document, error) {
	doc, ok := s.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, id)
	}
	return doc, nil
}

// Forget drops a parsed document.
func (s *Service) Forget(id string) {
	s.store.Delete(id)
}

// Render applies the collaborator's edits to a parsed document and
// renders the message blocks for every checked record, in sequence
// order. No checked records yields an empty string.
func (s *Service) Render(docID string, edits []RowEdit) (string, error) {
	doc, err := s.Document(docID)
	if err != nil {
		return "", err
	}

	records := applyEdits(doc.Records, edits)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].SequenceNumber < records[j].SequenceNumber
	})

	var blocks []string
	for _, rec := range records {
		if !rec.Checked {
			continue
		}
		blocks = append(blocks, visit.RenderBlock(rec.SequenceNumber, rec, rec.Visit, doc.PeriodDate))
	}
	return report.JoinBlocks(blocks), nil
}

// ExportDocx renders like Render and writes the result as a DOCX
// document.
func (s *Service) ExportDocx(w io.Writer, docID string, edits []RowEdit) error {
	text, err := s.Render(docID, edits)
	if err != nil {
		return err
	}
	return report.WriteDocx(w, text)
}

// applyEdits merges the collaborator's annotations onto copies of the
// stored records. Edits addressing unknown sequence numbers are ignored.
func applyEdits(records []extract.PatientRecord, edits []RowEdit) []extract.PatientRecord {
	out := append([]extract.PatientRecord(nil), records...)
	byseq := make(map[int]int, len(out))
	for i, r := range out {
		byseq[r.SequenceNumber] = i
	}

	for _, e := range edits {
		i, ok := byseq[e.SequenceNumber]
		if !ok {
			continue
		}
		out[i].Checked = e.Checked
		if e.Visit != "" {
			out[i].Visit = e.Visit
		}
		out[i].Gigi = e.Gigi
		out[i].Telp = e.Telp
		out[i].Operator = e.Operator
	}
	return out
}
