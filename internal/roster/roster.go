// Package roster resolves extracted doctor names against the fixed DPJP
// roster using token-set similarity.
package roster

import (
	"strings"

	"github.com/klinikbm/review-pasien/internal/textnorm"
)

// DefaultThreshold is the minimum Jaccard score required before an
// extracted name is considered resolved. Source-observed constant.
const DefaultThreshold = 0.35

// Canonical is the attending-doctor roster. Order matters: ties between
// equal scores keep the earlier entry.
var Canonical = []string{
	"Dr. drg. Andi Tajrin, M.Kes., Sp.B.M.M., Subsp. C.O.M.(K)",
	"drg. Mukhtar Nur Anam Sp.B.M.M.",
	"drg. Husnul Basyar, Sp. B.M.M.",
	"drg. Abul Fauzi, Sp.B.M.M., Subsp.T.M.T.M.J.(K)",
	"drg. M. Irfan Rasul, Ph.D., Sp.B.M.M., Subsp.C.O.M.(K)",
	"drg. Mohammad Gazali, MARS., Sp.B.M.M., Subsp.T.M.T.M.J.(K)",
	"drg. Timurwati, Sp.B.M.M.",
	"drg. Husni Mubarak, Sp. B.M.M.",
	"drg. Nurwahida, M.K.G., Sp.B.M.M., Subsp.C.O.M(K)",
	"drg. Hadira, M.K.G., Sp.B.M.M., Subsp.C.O.M(K)",
	"drg. Carolina Stevanie, Sp.B.M.M.",
	"drg. Yossy Yoanita Ariestiana, M.KG., Sp.B.M.M., Subsp.Ortognat-D (K)",
}

// Matcher fuzzy-matches raw doctor names against a candidate roster.
type Matcher struct {
	candidates []string
	threshold  float64
}

// NewMatcher creates a matcher over the canonical roster.
func NewMatcher(threshold float64) *Matcher {
	return NewMatcherWithCandidates(Canonical, threshold)
}

// NewMatcherWithCandidates creates a matcher over a custom candidate list.
func NewMatcherWithCandidates(candidates []string, threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{
		candidates: candidates,
		threshold:  threshold,
	}
}

// Match returns the canonical roster entry for a raw extracted name, or
// the empty string when no candidate scores at or above the threshold.
// An empty result means manual entry is required; it is not an error.
func (m *Matcher) Match(raw string) string {
	best, bestScore := "", 0.0
	rawTokens := tokenSet(raw)
	for _, c := range m.candidates {
		if sc := jaccard(rawTokens, tokenSet(c)); sc > bestScore {
			best, bestScore = c, sc
		}
	}
	if bestScore >= m.threshold {
		return best
	}
	return ""
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(textnorm.NormalizeDoctorName(s)) {
		set[tok] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
