package excel

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildXlsx(t *testing.T, parts map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range parts {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtract_SharedStrings(t *testing.T) {
	data := buildXlsx(t, map[string]string{
		"xl/workbook.xml": `<?xml version="1.0"?>
<workbook><sheets><sheet name="Products"/></sheets></workbook>`,
		"xl/sharedStrings.xml": `<?xml version="1.0"?>
<sst><si><t>Model</t></si><si><t>PXI-6229</t></si></sst>`,
		"xl/worksheets/sheet1.xml": `<?xml version="1.0"?>
<worksheet><sheetData>
  <row><c t="s"><v>0</v></c><c t="s"><v>1</v></c></row>
  <row><c><v>42</v></c></row>
</sheetData></worksheet>`,
	})

	text, err := New().Extract(context.Background(), data)
	require.NoError(t, err)
	assert.Contains(t, text, "Sheet: Products")
	assert.Contains(t, text, "Model | PXI-6229")
	assert.Contains(t, text, "42")
}

func TestExtract_StyledRunsAndInlineStrings(t *testing.T) {
	data := buildXlsx(t, map[string]string{
		"xl/sharedStrings.xml": `<?xml version="1.0"?>
<sst><si><r><t>数据</t></r><r><t>采集</t></r></si></sst>`,
		"xl/worksheets/sheet1.xml": `<?xml version="1.0"?>
<worksheet><sheetData>
  <row><c t="s"><v>0</v></c><c t="inlineStr"><is><t>inline</t></is></c></row>
</sheetData></worksheet>`,
	})

	text, err := New().Extract(context.Background(), data)
	require.NoError(t, err)
	assert.Contains(t, text, "数据采集 | inline")
}

func TestExtract_MultipleSheetsInOrder(t *testing.T) {
	data := buildXlsx(t, map[string]string{
		"xl/workbook.xml": `<?xml version="1.0"?>
<workbook><sheets><sheet name="First"/><sheet name="Second"/></sheets></workbook>`,
		"xl/worksheets/sheet2.xml": `<?xml version="1.0"?>
<worksheet><sheetData><row><c><v>two</v></c></row></sheetData></worksheet>`,
		"xl/worksheets/sheet1.xml": `<?xml version="1.0"?>
<worksheet><sheetData><row><c><v>one</v></c></row></sheetData></worksheet>`,
	})

	text, err := New().Extract(context.Background(), data)
	require.NoError(t, err)
	first := bytes.Index([]byte(text), []byte("Sheet: First"))
	second := bytes.Index([]byte(text), []byte("Sheet: Second"))
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, second, first)
}

func TestExtract_SkipsEmptyRows(t *testing.T) {
	data := buildXlsx(t, map[string]string{
		"xl/worksheets/sheet1.xml": `<?xml version="1.0"?>
<worksheet><sheetData>
  <row><c><v></v></c></row>
  <row><c><v>kept</v></c></row>
</sheetData></worksheet>`,
	})

	text, err := New().Extract(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "Sheet: Sheet1\nkept", text)
}

func TestExtract_NotAnArchive(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte("not a workbook"))
	assert.Error(t, err)
}
