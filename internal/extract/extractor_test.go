package extract

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klinikbm/review-pasien/internal/roster"
)

func testExtractor() *Extractor {
	return NewExtractor(100*1024*1024, roster.NewMatcher(roster.DefaultThreshold))
}

func TestExtractRejectsUnreadableInput(t *testing.T) {
	e := testExtractor()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty input", data: nil},
		{name: "not a PDF", data: []byte("this is not a pdf document")},
		{name: "truncated header", data: []byte("%PDF-1.4")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Extract(tt.data)
			assert.ErrorIs(t, err, ErrDocumentUnreadable)
		})
	}
}

func TestExtractRejectsOversizedInput(t *testing.T) {
	e := NewExtractor(16, nil)
	_, err := e.Extract(make([]byte, 17))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDocumentUnreadable)
}

func TestSegmentWellFormedBlock(t *testing.T) {
	e := testExtractor()
	text := "LAPORAN KUNJUNGAN PERIODE 7 APRIL 2025\n" +
		"123456 1234567890 JOHN DOE L 01-01-1990 drg. Husnul Basyar, Sp. B.M.M. 10:00:00\n"

	records := dedupe(e.segment(text))
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, 1, r.SequenceNumber)
	assert.Equal(t, "123456", r.RecordNumber)
	assert.Equal(t, "John Doe", r.FullName)
	assert.Equal(t, "01/01/1990", r.DateOfBirth)
	assert.Equal(t, "drg. Husnul Basyar, Sp. B.M.M.", r.DoctorRaw)
	assert.Equal(t, "drg. Husnul Basyar, Sp. B.M.M.", r.DoctorCanonical)
	assert.False(t, r.Checked)
	assert.Equal(t, DefaultVisitStage, r.Visit)
	assert.Empty(t, r.Gigi)
	assert.Empty(t, r.Telp)
	assert.Empty(t, r.Operator)
}

func TestSegmentMultiLineName(t *testing.T) {
	e := testExtractor()
	text := "54321 123456789012 SITI NURHALIZA\nBINTI AHMAD P 12-05-1987 KLINIK BEDAH MULUT\n"

	records := e.segment(text)
	require.Len(t, records, 1)
	assert.Equal(t, "54321", records[0].RecordNumber)
	assert.Equal(t, "Siti Nurhaliza Binti Ahmad", records[0].FullName)
	assert.Equal(t, "12/05/1987", records[0].DateOfBirth)
}

func TestSegmentBlockBoundaries(t *testing.T) {
	e := testExtractor()
	text := "11111 11111111 ANDI L 01-02-1990 drg. Timurwati, Sp.B.M.M.\n" +
		"22222 22222222 BUDI L 03-04-1991 drg. Hadira, M.K.G., Sp.B.M.M., Subsp.C.O.M(K)\n"

	records := e.segment(text)
	require.Len(t, records, 2)
	// The doctor line between the two anchors belongs to the first block.
	assert.Equal(t, "drg. Timurwati, Sp.B.M.M.", records[0].DoctorRaw)
	assert.Equal(t, "drg. Hadira, M.K.G., Sp.B.M.M., Subsp.C.O.M(K)", records[1].DoctorRaw)
}

func TestSegmentUnknownDoctorLeftUnresolved(t *testing.T) {
	e := testExtractor()
	text := "11111 11111111 ANDI L 01-02-1990 drg. Tidak Terdaftar Sama Sekali Di Daftar\n"

	records := e.segment(text)
	require.Len(t, records, 1)
	assert.Equal(t, "drg. Tidak Terdaftar Sama Sekali Di Daftar", records[0].DoctorRaw)
	assert.Empty(t, records[0].DoctorCanonical)
}

func TestDoctorNameFromBlock(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  string
	}{
		{
			name:  "clock time truncates",
			block: "x drg. Husnul Basyar, Sp. B.M.M. 10:00:00 extra",
			want:  "drg. Husnul Basyar, Sp. B.M.M.",
		},
		{
			name:  "clinic label truncates",
			block: "x drg. Timurwati, Sp.B.M.M. KLINIK GIGI",
			want:  "drg. Timurwati, Sp.B.M.M.",
		},
		{
			name:  "unpaid marker truncates",
			block: "x drg. Abul Fauzi BELUM BAYAR",
			want:  "drg. Abul Fauzi",
		},
		{
			name:  "currency fragment truncates",
			block: "x drg. Carolina Stevanie 150.000,00",
			want:  "drg. Carolina Stevanie 150",
		},
		{
			name:  "trailing punctuation trimmed",
			block: "x drg. Husni Mubarak,;",
			want:  "drg. Husni Mubarak",
		},
		{
			name:  "no doctor line",
			block: "no attending physician here",
			want:  "",
		},
		{
			name:  "stops at newline",
			block: "x drg. Nurwahida, M.K.G.\nANJUNGAN MANDIRI",
			want:  "drg. Nurwahida, M.K.G.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, doctorNameFromBlock(tt.block))
		})
	}
}

func TestParsePeriodDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *time.Time
	}{
		{
			name: "valid stamp",
			text: "LAPORAN PERIODE 7 APRIL 2025 RSGM",
			want: timePtr(2025, time.April, 7),
		},
		{
			name: "lowercase stamp",
			text: "laporan periode 28 agustus 2026",
			want: timePtr(2026, time.August, 28),
		},
		{
			name: "unknown month discarded",
			text: "PERIODE 7 APRILIA 2025",
			want: nil,
		},
		{
			name: "impossible calendar date discarded",
			text: "PERIODE 31 FEBRUARI 2025",
			want: nil,
		},
		{
			name: "no stamp",
			text: "LAPORAN KUNJUNGAN PASIEN",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePeriodDate(tt.text)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, got.Equal(*tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestDedupeCollapsesRepeatedVisits(t *testing.T) {
	e := testExtractor()
	row := "123456 1234567890 JOHN DOE L 01-01-1990 drg. Husnul Basyar, Sp. B.M.M. 10:00:00\n"
	other := "654321 9876543210 JANE ROE P 02-02-1992 drg. Timurwati, Sp.B.M.M. 11:00:00\n"
	text := row + other + row

	records := dedupe(e.segment(text))
	require.Len(t, records, 2)
	assert.Equal(t, "John Doe", records[0].FullName)
	assert.Equal(t, 1, records[0].SequenceNumber)
	assert.Equal(t, "Jane Roe", records[1].FullName)
	assert.Equal(t, 2, records[1].SequenceNumber)
	// First-seen annotation defaults survive the collapse.
	assert.False(t, records[0].Checked)
	assert.Equal(t, DefaultVisitStage, records[0].Visit)
}

func TestSegmentNoMatches(t *testing.T) {
	e := testExtractor()
	assert.Empty(t, e.segment("nothing structured in here\n"+strings.Repeat("x", 100)))
}

func TestExtractTextTruncatesAtCap(t *testing.T) {
	data := buildTwoPagePDF(t)

	e := testExtractor()
	text, pages, err := e.extractText(data)
	require.NoError(t, err)
	require.Equal(t, 2, pages)
	require.Contains(t, text, "Hello")

	// A cap smaller than the first page must truncate, not fail.
	e.maxTextSize = 1
	text, pages, err = e.extractText(data)
	require.NoError(t, err)
	assert.Equal(t, 2, pages)
	assert.LessOrEqual(t, len(strings.ReplaceAll(text, "\n", "")), 1)
}

func TestExtractOversizeTextIsNotUnreadable(t *testing.T) {
	e := testExtractor()
	e.maxTextSize = 1

	// The document decodes fine; the tiny cap just leaves no records.
	_, err := e.Extract(buildTwoPagePDF(t))
	require.ErrorIs(t, err, ErrNoRecords)
	assert.NotErrorIs(t, err, ErrDocumentUnreadable)
}

// buildTwoPagePDF assembles a minimal two-page PDF with one line of
// text per page, tracking object offsets for the xref table.
func buildTwoPagePDF(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	offsets := make([]int, 8)
	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	page := "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] " +
		"/Resources << /Font << /F1 7 0 R >> >> /Contents %d 0 R >>"
	stream := "BT /F1 12 Tf 72 720 Td (Hello) Tj ET"
	contents := fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream)

	buf.WriteString("%PDF-1.4\n")
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, "<< /Type /Pages /Kids [3 0 R 5 0 R] /Count 2 >>")
	writeObj(3, fmt.Sprintf(page, 4))
	writeObj(4, contents)
	writeObj(5, fmt.Sprintf(page, 6))
	writeObj(6, contents)
	writeObj(7, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	xref := buf.Len()
	buf.WriteString("xref\n0 8\n0000000000 65535 f \n")
	for i := 1; i <= 7; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 8 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

func timePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
