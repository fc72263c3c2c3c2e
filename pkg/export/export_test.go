package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Estudiantes",
		Sheet:   "Estudiantes",
		Headers: []string{"Nombre", "Género"},
		Rows: []map[string]string{
			{"Nombre": "Ana Li", "Género": "Femenino"},
			{"Nombre": "José Pérez", "Género": "Masculino"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	body := strings.TrimPrefix(string(out), "\ufeff")
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Nombre,Género", lines[0])
	assert.Equal(t, "José Pérez,Masculino", lines[2])
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	rows, err := f.GetRows("Estudiantes")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Nombre", "Género"}, rows[0])
	assert.Equal(t, []string{"Ana Li", "Femenino"}, rows[1])
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderersRequireHeaders(t *testing.T) {
	for _, format := range []Format{FormatXLSX, FormatCSV, FormatPDF} {
		r, err := NewRenderer(format)
		require.NoError(t, err)
		_, err = r.Render(Dataset{})
		assert.Error(t, err, string(format))
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("docx")
	assert.Error(t, err)
}
