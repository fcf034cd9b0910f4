package extract

import "regexp"

// Structural patterns for segmenting the report text. Kept separate from
// the PDF decoding so they can be exercised on plain strings.
var (
	// blockPattern anchors one patient row: record number, encounter
	// number, multi-line name, sex letter, date of birth. The sex letter
	// is only accepted when a DD-MM-YYYY token follows it.
	blockPattern = regexp.MustCompile(
		`(?s)(?P<rm>\d{5,6})\s+(?P<nopen>\d{8,18})\s+(?P<name>.+?)\s+(?P<sex>[LP])\s+(?P<dob>[0-3]\d-\d{2}-\d{4})`)

	// periodPattern finds the document-wide PERIODE stamp. Applied to the
	// upper-cased buffer.
	periodPattern = regexp.MustCompile(`PERIODE\s+(\d{1,2})\s+([A-Z]+)\s+(\d{4})`)

	// doctorLinePattern pulls the attending-doctor fragment out of a
	// patient block, up to the end of its line.
	doctorLinePattern = regexp.MustCompile(`(?i)drg[^\n]+`)

	// doctorNoisePattern marks where the doctor fragment stops being a
	// name: a clock time, clinic-location labels, unpaid markers, or
	// trailing numeric fragments.
	doctorNoisePattern = regexp.MustCompile(`(?i)\s\d{2}:\d{2}:\d{2}|ANJUNGAN|KLINIK|BELUM|,00|\.00|,0`)
)

var (
	blockRM   = blockPattern.SubexpIndex("rm")
	blockName = blockPattern.SubexpIndex("name")
	blockDOB  = blockPattern.SubexpIndex("dob")
)
