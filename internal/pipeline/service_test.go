package pipeline

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klinikbm/review-pasien/internal/extract"
	"github.com/klinikbm/review-pasien/internal/roster"
	"github.com/klinikbm/review-pasien/internal/visit"
)

func testResult() *extract.Result {
	period := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	return &extract.Result{
		Records: []extract.PatientRecord{
			{
				SequenceNumber:  1,
				RecordNumber:    "123456",
				FullName:        "John Doe",
				DateOfBirth:     "01/01/1990",
				DoctorCanonical: "drg. Husnul Basyar, Sp. B.M.M.",
				Visit:           visit.StageNone,
			},
			{
				SequenceNumber: 2,
				RecordNumber:   "654321",
				FullName:       "Jane Roe",
				DateOfBirth:    "02/02/1992",
				Visit:          visit.StageNone,
			},
		},
		PeriodDate: &period,
		Pages:      1,
	}
}

func testService(t *testing.T) (*Service, *Document) {
	t.Helper()
	s := NewService(100*1024*1024, roster.DefaultThreshold)
	return s, s.store.Put(testResult())
}

func TestRenderNothingChecked(t *testing.T) {
	s, doc := testService(t)

	text, err := s.Render(doc.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestRenderCheckedRecord(t *testing.T) {
	s, doc := testService(t)

	text, err := s.Render(doc.ID, []RowEdit{
		{SequenceNumber: 1, Checked: true, Visit: "3", Gigi: "38", Telp: "0812", Operator: "drg. Rina"},
	})
	require.NoError(t, err)

	assert.Contains(t, text, "1. Nama            : John Doe")
	assert.Contains(t, text, "POD III Ekstraksi gigi 38")
	// Control POD VII minus diagnosis POD III lands four days after the period date.
	assert.Contains(t, text, "(05/04/2025)")
	assert.NotContains(t, text, "Jane Roe")
}

func TestRenderJoinsBlocksInSequenceOrder(t *testing.T) {
	s, doc := testService(t)

	edits := []RowEdit{
		{SequenceNumber: 2, Checked: true},
		{SequenceNumber: 1, Checked: true},
	}
	text, err := s.Render(doc.ID, edits)
	require.NoError(t, err)

	blocks := strings.Split(text, "\n\n")
	require.Len(t, blocks, 2)
	assert.Contains(t, blocks[0], "John Doe")
	assert.Contains(t, blocks[1], "Jane Roe")
}

func TestRenderUnknownDocument(t *testing.T) {
	s, _ := testService(t)

	_, err := s.Render("no-such-handle", nil)
	assert.ErrorIs(t, err, ErrUnknownDocument)
}

func TestRenderIgnoresUnknownSequenceNumbers(t *testing.T) {
	s, doc := testService(t)

	text, err := s.Render(doc.ID, []RowEdit{{SequenceNumber: 99, Checked: true}})
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestRenderDoesNotMutateStoredRecords(t *testing.T) {
	s, doc := testService(t)

	_, err := s.Render(doc.ID, []RowEdit{{SequenceNumber: 1, Checked: true, Gigi: "38"}})
	require.NoError(t, err)

	stored, err := s.Document(doc.ID)
	require.NoError(t, err)
	assert.False(t, stored.Records[0].Checked)
	assert.Empty(t, stored.Records[0].Gigi)
}

func TestExportDocx(t *testing.T) {
	s, doc := testService(t)

	var buf bytes.Buffer
	err := s.ExportDocx(&buf, doc.ID, []RowEdit{{SequenceNumber: 1, Checked: true}})
	require.NoError(t, err)

	_, err = zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	assert.NoError(t, err)
}

func TestParseFileRejectsNonPDFPath(t *testing.T) {
	s := NewService(1024, roster.DefaultThreshold)

	_, err := s.ParseFile("report.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a PDF")
}

func TestParseFileMissing(t *testing.T) {
	s := NewService(1024, roster.DefaultThreshold)

	_, err := s.ParseFile("/no/such/report.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestStoreHandles(t *testing.T) {
	store := NewStore()
	doc := store.Put(testResult())
	require.NotEmpty(t, doc.ID)

	got, ok := store.Get(doc.ID)
	require.True(t, ok)
	assert.Equal(t, doc, got)

	other := store.Put(testResult())
	assert.NotEqual(t, doc.ID, other.ID)
	assert.Equal(t, 2, store.Len())

	store.Delete(doc.ID)
	_, ok = store.Get(doc.ID)
	assert.False(t, ok)
}

func TestParseCacheRoundTrip(t *testing.T) {
	c := newParseCache(2)
	data := []byte("first document bytes")

	_, ok := c.get(data)
	require.False(t, ok)

	res := testResult()
	c.put(data, res)

	got, ok := c.get(data)
	require.True(t, ok)
	assert.Same(t, res, got)
}

func TestParseCacheEvictsOldest(t *testing.T) {
	c := newParseCache(2)
	a, b, d := []byte("a"), []byte("b"), []byte("d")

	c.put(a, testResult())
	c.put(b, testResult())
	c.put(d, testResult())

	_, ok := c.get(a)
	assert.False(t, ok, "oldest entry should have been evicted")
	_, ok = c.get(b)
	assert.True(t, ok)
	_, ok = c.get(d)
	assert.True(t, ok)
}
