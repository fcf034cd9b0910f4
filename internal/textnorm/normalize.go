// Package textnorm canonicalizes free-form strings pulled out of the
// visit report: doctor names, patient names and medical record numbers.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	nonLetterRun = regexp.MustCompile(`[^A-Z]+`)
	nonDigit     = regexp.MustCompile(`\D`)
	horizontalWS = regexp.MustCompile(`[ \t\r\f\v]+`)
	multiSpace   = regexp.MustCompile(`\s{2,}`)
)

// doctorReplacements fixes common typos and specialist-title variants so
// that spaced and unspaced forms compare equal. Order matters.
var doctorReplacements = []struct{ old, new string }{
	{"drg..", "drg."},
	{"Sp. BM", "Sp.BM"},
	{"Sp. BMM", "Sp.BMM"},
	{"Sp.BM(K)", "Sp.BMM"},
	{"Sp.BMM(K)", "Sp.BMM"},
	{"Sp.BM", "Sp.BMM"},
}

// NormalizeDoctorName canonicalizes a doctor name for token comparison.
// Runs of non-letters become a single space rather than being deleted;
// deleting them used to merge adjacent tokens and break matching.
func NormalizeDoctorName(raw string) string {
	if raw == "" {
		return ""
	}
	s := raw
	for _, r := range doctorReplacements {
		s = strings.ReplaceAll(s, r.old, r.new)
	}
	s = strings.ToUpper(s)
	s = nonLetterRun.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// FormatRecordNumber renders a raw medical record number as the grouped
// display form XX.XX.XX, zero-padded to exactly six digits.
func FormatRecordNumber(raw string) string {
	digits := nonDigit.ReplaceAllString(raw, "")
	if len(digits) < 6 {
		digits = strings.Repeat("0", 6-len(digits)) + digits
	}
	digits = digits[:6]
	return digits[0:2] + "." + digits[2:4] + "." + digits[4:6]
}

// CleanPatientName flattens a possibly multi-line name capture into a
// single title-cased line.
func CleanPatientName(raw string) string {
	s := horizontalWS.ReplaceAllString(raw, " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = multiSpace.ReplaceAllString(s, " ")
	// cases.Caser carries internal state, so build one per call.
	return cases.Title(language.Indonesian).String(strings.TrimSpace(s))
}
