package extract

import (
	"errors"
	"time"
)

// DefaultVisitStage is the unselected visit stage assigned to freshly
// extracted records.
const DefaultVisitStage = "(Pilih)"

// PatientRecord is one extracted patient row plus the annotation fields
// the operator fills in afterwards.
type PatientRecord struct {
	SequenceNumber  int    `json:"sequence_number"`
	RecordNumber    string `json:"record_number"`
	FullName        string `json:"full_name"`
	DateOfBirth     string `json:"date_of_birth"`
	DoctorRaw       string `json:"doctor_raw,omitempty"`
	DoctorCanonical string `json:"doctor_canonical"`

	// Annotation fields, owned by the hosting collaborator.
	Checked  bool   `json:"checked"`
	Visit    string `json:"visit"`
	Gigi     string `json:"gigi"`
	Telp     string `json:"telp"`
	Operator string `json:"operator"`
}

// Result is the outcome of extracting one document.
type Result struct {
	Records    []PatientRecord `json:"records"`
	PeriodDate *time.Time      `json:"period_date,omitempty"`
	Pages      int             `json:"pages"`
}

var (
	// ErrDocumentUnreadable means the byte stream cannot be decoded as a
	// PDF at all. Blocking: no partial output follows.
	ErrDocumentUnreadable = errors.New("document cannot be read as a PDF")

	// ErrNoRecords means the document decoded but the structural pattern
	// matched nothing. Informational, distinct from unreadable input.
	ErrNoRecords = errors.New("no patient records matched in document")
)
