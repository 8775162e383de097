package exporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"opotracker/internal/dataset"
)

func sampleCandidates(t *testing.T) []dataset.Candidate {
	t.Helper()
	doc := `DNI,APELLIDOS Y NOMBRE,ADMITIDO/EXCLUIDO,DIA,SEDE,AULA,CONOCIMIENTOS GENERALES,IDIOMA,APTITUD,PERSONALIDAD,TOTAL FASE 1,APTO/NO APTO PROVISIONAL
11111111A,"García López, José",ADMITIDO,12/05,Madrid,A-1,"4,2","2,1","1,5","0,7","8,5",APTO/A
22222222B,"Pérez Ruiz, Ana",ADMITIDO,12/05,Barcelona,B-2,"4,0","2,5","1,2","0,8","8,50",APTO/A
33333333C,"Sanz Gil, Luis",EXCLUIDO,13/05,Madrid,A-2,,,,,---,
`
	n := dataset.NewNormalizer(dataset.DefaultStatusLabels())
	cands, err := n.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return cands
}

func TestWriteCSVRoundTrip(t *testing.T) {
	cands := sampleCandidates(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, cands, CSVOptions{}))

	n := dataset.NewNormalizer(dataset.DefaultStatusLabels())
	parsed, err := n.Parse(&buf)
	require.NoError(t, err)
	require.Len(t, parsed, len(cands))

	for i := range cands {
		assert.Equal(t, cands[i].Record(), parsed[i].Record(), "record %d", i)
	}
}

func TestWriteCSVPlainFieldsAreByteIdentical(t *testing.T) {
	cands := []dataset.Candidate{{
		Identifier: "1A",
		FullName:   "Sin Comas",
		ExamSite:   "Madrid",
		TotalRaw:   "7.5",
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, cands, CSVOptions{}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1A,Sin Comas,,,Madrid,,,,,,7.5,", lines[1])
}

func TestWriteCSVQuotesEmbeddedDelimiters(t *testing.T) {
	cands := []dataset.Candidate{{FullName: "García, José", TotalRaw: "8,5"}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, cands, CSVOptions{}))

	assert.Contains(t, buf.String(), `"García, José"`)
	assert.Contains(t, buf.String(), `"8,5"`)
}

func TestWriteCSVBOMPrefix(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil, CSVOptions{BOMPrefix: true}))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}))
}

func TestWriteCSVEmptyViewStillHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil, CSVOptions{}))

	line := strings.TrimRight(buf.String(), "\n")
	assert.Equal(t, strings.Join(dataset.Header(), ","), line)
}

func TestWriteXLSX(t *testing.T) {
	cands := sampleCandidates(t)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, cands))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, len(cands)+1)

	assert.Equal(t, dataset.Header(), rows[0])
	assert.Equal(t, "García López, José", rows[1][1])
	// Raw score text survives, sentinel included.
	assert.Equal(t, "8,5", rows[1][10])
	assert.Equal(t, "---", rows[3][10])
}
