package romandate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustDate(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestMonthNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Month
		ok    bool
	}{
		{name: "january", input: "JANUARI", want: time.January, ok: true},
		{name: "may", input: "MEI", want: time.May, ok: true},
		{name: "august", input: "AGUSTUS", want: time.August, ok: true},
		{name: "december", input: "DESEMBER", want: time.December, ok: true},
		{name: "english name rejected", input: "MAY", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MonthNumber(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestComputeFollowUpText(t *testing.T) {
	tests := []struct {
		name      string
		control   string
		diagnosis string
		base      *time.Time
		want      string
	}{
		{
			name:    "nil base returns template unchanged",
			control: "POD III (xx/04/2025)",
			base:    nil,
			want:    "POD III (xx/04/2025)",
		},
		{
			name:    "no POD marker returns template unchanged",
			control: "-",
			base:    mustDate(2025, time.April, 1),
			want:    "-",
		},
		{
			name:    "offset from control POD with empty diagnosis",
			control: "POD III (xx/04/2025)",
			base:    mustDate(2025, time.April, 1), // Tuesday
			want:    "POD III (04/04/2025)",
		},
		{
			name:      "diagnosis POD subtracted",
			control:   "POD VII (xx/04/2025)",
			diagnosis: "POD III Ekstraksi gigi 38 dalam lokal anestesi",
			base:      mustDate(2025, time.April, 1),
			want:      "POD VII (05/04/2025)",
		},
		{
			name:      "negative offset clamps to zero",
			control:   "POD III (xx/04/2025)",
			diagnosis: "POD VII Odontektomi gigi 38 dalam lokal anestesi",
			base:      mustDate(2025, time.April, 1),
			want:      "POD III (01/04/2025)",
		},
		{
			name:    "POD III landing on Sunday shifts to POD IV next day",
			control: "POD III (xx/04/2025)",
			base:    mustDate(2025, time.April, 10), // Thursday; +3 is Sunday the 13th
			want:    "POD IV (14/04/2025)",
		},
		{
			name:      "POD VII on Sunday is not shifted",
			control:   "POD VII (xx/04/2025)",
			diagnosis: "",
			base:      mustDate(2025, time.April, 6), // Sunday; +7 is Sunday the 13th
			want:      "POD VII (13/04/2025)",
		},
		{
			name:    "no parentheses appends date",
			control: "Kontrol POD III",
			base:    mustDate(2025, time.April, 1),
			want:    "Kontrol POD III (04/04/2025)",
		},
		{
			name:    "lowercase pod marker recognized",
			control: "pod iii (xx/04/2025)",
			base:    mustDate(2025, time.April, 1),
			want:    "pod iii (04/04/2025)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeFollowUpText(tt.control, tt.diagnosis, tt.base)
			assert.Equal(t, tt.want, got)
		})
	}
}
