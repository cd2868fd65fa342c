package extract

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"atscan/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(maxSize int64, types ...string) *Extractor {
	logger, _ := errors.New("error")
	return New(maxSize, types, logger)
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestFromBytesPlainText(t *testing.T) {
	e := newTestExtractor(0)

	text, err := e.FromBytes("resume.txt", []byte("Experience\n\n\n\nLed a  team of five"))
	require.NoError(t, err)
	assert.Equal(t, "Experience\n\nLed a team of five", text)
}

func TestFromBytesDocx(t *testing.T) {
	e := newTestExtractor(0)

	doc := `<?xml version="1.0"?><w:document><w:body>` +
		`<w:p><w:r><w:t>Professional Summary</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Built</w:t></w:r><w:tab/><w:r><w:t>things</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	text, err := e.FromBytes("resume.docx", buildDocx(t, doc))
	require.NoError(t, err)
	assert.Contains(t, text, "Professional Summary")
	assert.Contains(t, text, "Built things")
	assert.NotContains(t, text, "<w:")
}

func TestFromBytesDocxWithoutDocumentXML(t *testing.T) {
	e := newTestExtractor(0)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<w:styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = e.FromBytes("resume.docx", buf.Bytes())
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeExtractionFailed, appErr.Code)
}

func TestFromBytesCorruptPDF(t *testing.T) {
	e := newTestExtractor(0)

	_, err := e.FromBytes("resume.pdf", []byte("not a pdf at all"))
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeExtractionFailed, appErr.Code)
}

func TestFromBytesRejectsDisallowedType(t *testing.T) {
	e := newTestExtractor(0, ".pdf", ".txt")

	_, err := e.FromBytes("resume.exe", []byte("whatever"))
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeUnsupportedFileType, appErr.Code)
}

func TestFromBytesRejectsOversizedFile(t *testing.T) {
	e := newTestExtractor(8)

	_, err := e.FromBytes("resume.txt", []byte("far larger than eight bytes"))
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeFileTooLarge, appErr.Code)
}

func TestFromFile(t *testing.T) {
	e := newTestExtractor(0)

	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Skills\nGo, SQL"), 0600))

	text, err := e.FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Skills\nGo, SQL", text)
}

func TestFromFileMissing(t *testing.T) {
	e := newTestExtractor(0)

	_, err := e.FromFile("/nonexistent/resume.txt")
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeFileNotFound, appErr.Code)
}
