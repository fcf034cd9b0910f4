package visit

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/klinikbm/review-pasien/internal/extract"
	"github.com/klinikbm/review-pasien/internal/romandate"
	"github.com/klinikbm/review-pasien/internal/textnorm"
)

// bullet is the exact marker prefix used by the output labels. The
// word-joiner characters around the spaces are part of the wire format.
const bullet = "•⁠  ⁠"

// Label literals. These are a compatibility surface; spacing is exact.
const (
	labelName     = "Nama            : "
	labelBirth    = bullet + "Tanggal lahir  : "
	labelRecord   = bullet + "RM                   : "
	labelDiag     = bullet + "Diagnosa        : "
	labelAction   = bullet + "Tindakan        : "
	labelControl  = bullet + "Kontrol           : "
	labelDoctor   = bullet + "DPJP               : "
	labelPhone    = bullet + "No. Telp.         : "
	labelOperator = bullet + "Operator         : "
)

var toothPlaceholder = regexp.MustCompile(`(?i)\bgigi\s*xx\b`)

// ReplaceTooth substitutes the tooth-number placeholder following the
// word "gigi". No-op when the tooth number is empty.
func ReplaceTooth(text, gigi string) string {
	gigi = strings.TrimSpace(gigi)
	if gigi == "" {
		return text
	}
	return toothPlaceholder.ReplaceAllStringFunc(text, func(m string) string {
		// Keep the matched "gigi" prefix as written, swap only the xx.
		return m[:len(m)-2] + gigi
	})
}

// RenderBlock produces the final labeled message block for one selected
// record. Total: malformed annotation input renders as-is.
func RenderBlock(no int, rec extract.PatientRecord, stageKey string, base *time.Time) string {
	if stageKey == "" {
		stageKey = rec.Visit
	}
	key := NormalizeStage(stageKey)
	tpl := Lookup(key)

	diagnosis := ReplaceTooth(tpl.Diagnosis, rec.Gigi)
	actions := make([]string, len(tpl.Actions))
	for i, a := range tpl.Actions {
		actions[i] = ReplaceTooth(a, rec.Gigi)
	}
	control := romandate.ComputeFollowUpText(tpl.Control, diagnosis, base)

	lines := make([]string, 0, 9+len(actions))
	lines = append(lines,
		strconv.Itoa(no)+". "+labelName+rec.FullName,
		labelBirth+rec.DateOfBirth,
		labelRecord+textnorm.FormatRecordNumber(rec.RecordNumber),
		labelDiag+diagnosis,
	)

	if key == Stage3 && len(actions) == 1 {
		lines = append(lines, labelAction+actions[0])
	} else {
		lines = append(lines, labelAction)
		for _, a := range actions {
			lines = append(lines, "    * "+a)
		}
	}

	lines = append(lines,
		labelControl+control,
		labelDoctor+strings.TrimSpace(rec.DoctorCanonical),
		labelPhone+strings.TrimSpace(rec.Telp),
		labelOperator+strings.TrimSpace(rec.Operator),
	)
	return strings.Join(lines, "\n")
}
