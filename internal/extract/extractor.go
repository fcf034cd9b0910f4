// Package extract turns a raw PDF byte stream into ordered patient
// records plus the optional document-wide period date.
package extract

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/klinikbm/review-pasien/internal/romandate"
	"github.com/klinikbm/review-pasien/internal/roster"
	"github.com/klinikbm/review-pasien/internal/textnorm"
)

// Extractor decodes visit-report PDFs within the configured limits.
type Extractor struct {
	maxFileSize int64
	maxTextSize int
	matcher     *roster.Matcher
}

// NewExtractor creates an extractor with the specified size constraint.
func NewExtractor(maxFileSize int64, matcher *roster.Matcher) *Extractor {
	if matcher == nil {
		matcher = roster.NewMatcher(roster.DefaultThreshold)
	}
	return &Extractor{
		maxFileSize: maxFileSize,
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
		matcher:     matcher,
	}
}

// Extract decodes the document, segments it into patient blocks and
// returns the deduplicated, renumbered records. Failures surface as
// ErrDocumentUnreadable or ErrNoRecords; nothing panics across this
// boundary.
func (e *Extractor) Extract(data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDocumentUnreadable)
	}
	if e.maxFileSize > 0 && int64(len(data)) > e.maxFileSize {
		return nil, fmt.Errorf("document too large: %d bytes (max: %d bytes)", len(data), e.maxFileSize)
	}

	if err := e.checkReadable(data); err != nil {
		return nil, err
	}

	fullText, pages, err := e.extractText(data)
	if err != nil {
		return nil, err
	}

	result := &Result{
		PeriodDate: parsePeriodDate(fullText),
		Pages:      pages,
	}

	records := e.segment(fullText)
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	result.Records = dedupe(records)
	return result, nil
}

// checkReadable validates that the byte stream decodes as a PDF with at
// least one page, using relaxed validation.
func (e *Extractor) checkReadable(data []byte) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
	}
	return nil
}

// extractText concatenates the plain text of every page, one newline per
// page. A page that fails to extract contributes an empty string; only a
// document that cannot be opened at all is an error.
func (e *Extractor) extractText(data []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, pages = "", 0
			err = fmt.Errorf("%w: parser panic: %v", ErrDocumentUnreadable, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
	}

	pages = reader.NumPage()
	var builder strings.Builder
	textLen := 0
	for pageNum := 1; pageNum <= pages; pageNum++ {
		content := e.pageText(reader, pageNum)
		// Page separators do not count against the text cap.
		if textLen+len(content) > e.maxTextSize {
			remaining := e.maxTextSize - textLen
			if remaining > 0 {
				builder.WriteString(content[:remaining])
			}
			builder.WriteString("\n")
			break
		}
		builder.WriteString(content)
		textLen += len(content)
		builder.WriteString("\n")
	}
	return builder.String(), pages, nil
}

// pageText extracts one page, absorbing both errors and library panics.
func (e *Extractor) pageText(reader *pdf.Reader, pageNum int) (content string) {
	defer func() {
		if recover() != nil {
			content = ""
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}
	content, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return content
}

// parsePeriodDate finds the PERIODE stamp and resolves it to a calendar
// date. Invalid day/month/year combinations are discarded.
func parsePeriodDate(text string) *time.Time {
	m := periodPattern.FindStringSubmatch(strings.ToUpper(text))
	if m == nil {
		return nil
	}
	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	month, ok := romandate.MonthNumber(strings.TrimSpace(m[2]))
	if !ok {
		return nil
	}

	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != month || d.Year() != year {
		// time.Date normalizes overflow, e.g. 31 FEBRUARI.
		return nil
	}
	return &d
}

// segment splits the full text into patient blocks and builds one record
// per block. Each block runs from its match start to the next match
// start, so trailing free text (including the doctor line) stays with
// its patient.
func (e *Extractor) segment(fullText string) []PatientRecord {
	matches := blockPattern.FindAllStringSubmatchIndex(fullText, -1)

	records := make([]PatientRecord, 0, len(matches))
	for i, m := range matches {
		end := len(fullText)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		block := fullText[m[0]:end]

		rawName := fullText[m[2*blockName]:m[2*blockName+1]]
		doctorRaw := doctorNameFromBlock(block)

		records = append(records, PatientRecord{
			RecordNumber:    fullText[m[2*blockRM]:m[2*blockRM+1]],
			FullName:        textnorm.CleanPatientName(rawName),
			DateOfBirth:     strings.ReplaceAll(fullText[m[2*blockDOB]:m[2*blockDOB+1]], "-", "/"),
			DoctorRaw:       doctorRaw,
			DoctorCanonical: e.matcher.Match(doctorRaw),
			Checked:         false,
			Visit:           DefaultVisitStage,
		})
	}
	return records
}

// doctorNameFromBlock pulls the raw attending-doctor string out of a
// patient block, truncated at the first noise marker.
func doctorNameFromBlock(block string) string {
	line := doctorLinePattern.FindString(block)
	if line == "" {
		return ""
	}
	line = strings.TrimSpace(line)
	if loc := doctorNoisePattern.FindStringIndex(line); loc != nil {
		line = line[:loc[0]]
	}
	return strings.TrimRight(strings.TrimSpace(line), ",;")
}

type dedupeKey struct {
	rm, name, dob string
}

// dedupe collapses records sharing (record number, name, date of birth)
// to the first occurrence, preserving detection order, then assigns the
// 1-based sequence numbers.
func dedupe(records []PatientRecord) []PatientRecord {
	seen := make(map[dedupeKey]struct{}, len(records))
	out := make([]PatientRecord, 0, len(records))
	for _, r := range records {
		key := dedupeKey{rm: r.RecordNumber, name: r.FullName, dob: r.DateOfBirth}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		r.SequenceNumber = len(out) + 1
		out = append(out, r)
	}
	return out
}
