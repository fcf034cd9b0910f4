// Package visit holds the fixed visit-stage catalog and renders the
// per-patient message block.
package visit

import "strings"

// Stage keys of the catalog, in clinical order.
const (
	StageNone = "(Pilih)"
	Stage1    = "Kunjungan 1"
	Stage2    = "Kunjungan 2"
	Stage3    = "Kunjungan 3"
	Stage4    = "Kunjungan 4"
	Stage5    = "Kunjungan 5"
)

// Template is one visit stage: a diagnosis line, ordered action lines
// and a follow-up control line, all with the literal `gigi xx` tooth
// placeholder. Process-wide constant data, never mutated.
type Template struct {
	Diagnosis string
	Actions   []string
	Control   string
}

// catalog is the fixed six-entry stage table.
var catalog = map[string]Template{
	StageNone: {},
	Stage1: {
		Diagnosis: "",
		Actions:   []string{"Konsultasi", "Periapikal X-ray gigi xx / OPG X-Ray"},
		Control:   "Pro ekstraksi gigi xx dalam lokal anestesi / Pro odontektomi gigi xx dalam lokal anestesi (xx/04/2025)",
	},
	Stage2: {
		Diagnosis: "Impaksi gigi xx kelas xx posisi xx Mesioangular / Gangren pulpa gigi xx / Gangren radiks gigi xx",
		Actions: []string{
			"Odontektomi gigi xx dalam lokal anestesi",
			"ekstraksi gigi xx dengan penyulit dalam lokal anestesi",
			"ekstraksi gigi xx dengan open methode dalam lokal anestesi",
		},
		Control: "POD III (xx/04/2025)",
	},
	Stage3: {
		Diagnosis: "POD III Ekstraksi gigi xx dalam lokal anestesi / POD III Odontektomi gigi xx dalam lokal anestesi",
		Actions:   []string{"Cuci luka intraoral dengan NaCl 0,9%"},
		Control:   "POD VII (xx/04/2025)",
	},
	Stage4: {
		Diagnosis: "POD VII Odontektomi gigi xx dalam lokal anestesi / POD VII Ekstraksi gigi xx dalam lokal anestesi",
		Actions:   []string{"Cuci luka intra oral dengan NaCl 0,9%", "Aff hecting"},
		Control:   "POD XIV (xx/04/2025)",
	},
	Stage5: {
		Diagnosis: "POD XIV Ekstraksi gigi xx dalam lokal anestesi / POD XIV Odontektomi gigi xx dalam lokal anestesi",
		Actions:   []string{"Kontrol luka post operasi", "Rujuk balik FKTP"},
		Control:   "-",
	},
}

// stageOrder preserves catalog order for case-insensitive key matching.
var stageOrder = []string{StageNone, Stage1, Stage2, Stage3, Stage4, Stage5}

// NormalizeStage maps operator input onto a catalog key. The digits 1-5
// are shorthand for the five named stages; names match case-insensitive;
// anything else passes through unchanged (lookup then falls back to the
// empty stage).
func NormalizeStage(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return StageNone
	}
	if len(t) == 1 && t >= "1" && t <= "5" {
		return "Kunjungan " + t
	}
	for _, k := range stageOrder {
		if strings.EqualFold(t, k) {
			return k
		}
	}
	return t
}

// Lookup returns the template for a normalized stage key. Total: unknown
// keys resolve to the empty stage.
func Lookup(key string) Template {
	if tpl, ok := catalog[key]; ok {
		return tpl
	}
	return catalog[StageNone]
}

// Stages lists the catalog keys in clinical order.
func Stages() []string {
	out := make([]string, len(stageOrder))
	copy(out, stageOrder)
	return out
}
