package romandate

import (
	"fmt"
	"regexp"
	"time"
)

// indonesianMonths maps the upper-cased Indonesian month names used by
// the PERIODE stamp to calendar months.
var indonesianMonths = map[string]time.Month{
	"JANUARI":   time.January,
	"FEBRUARI":  time.February,
	"MARET":     time.March,
	"APRIL":     time.April,
	"MEI":       time.May,
	"JUNI":      time.June,
	"JULI":      time.July,
	"AGUSTUS":   time.August,
	"SEPTEMBER": time.September,
	"OKTOBER":   time.October,
	"NOVEMBER":  time.November,
	"DESEMBER":  time.December,
}

var podMarker = regexp.MustCompile(`(?i)\bPOD\s+([IVXLC]+)\b`)

// MonthNumber resolves an upper-cased Indonesian month name.
func MonthNumber(name string) (time.Month, bool) {
	m, ok := indonesianMonths[name]
	return m, ok
}

// FormatDate renders a date in the DD/MM/YYYY display form.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// ComputeFollowUpText resolves the parenthesized date placeholder in a
// control template. The offset from base is the difference between the
// template's POD marker and the POD marker in the diagnosis text (0 when
// the diagnosis has none), clamped at 0. A POD III control landing on a
// Sunday shifts to POD IV one day later. Without a base date or a POD
// marker the template is returned unchanged.
func ComputeFollowUpText(controlTpl, diagnosisText string, base *time.Time) string {
	if base == nil {
		return controlTpl
	}
	mk := podMarker.FindStringSubmatch(controlTpl)
	if mk == nil {
		return controlTpl
	}
	podControl := RomanToInt(mk[1])
	podDiagnosis := 0
	if md := podMarker.FindStringSubmatch(diagnosisText); md != nil {
		podDiagnosis = RomanToInt(md[1])
	}

	offset := podControl - podDiagnosis
	if offset < 0 {
		offset = 0
	}
	target := base.AddDate(0, 0, offset)

	if podControl == 3 && target.Weekday() == time.Sunday {
		target = target.AddDate(0, 0, 1)
		controlTpl = podMarker.ReplaceAllString(controlTpl, "POD IV")
	}

	dateStr := FormatDate(target)
	if parenthesized.MatchString(controlTpl) {
		return parenthesized.ReplaceAllString(controlTpl, "("+dateStr+")")
	}
	return fmt.Sprintf("%s (%s)", controlTpl, dateStr)
}

var parenthesized = regexp.MustCompile(`\([^)]*\)`)
