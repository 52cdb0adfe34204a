package sanitizer

// Shared test helpers for the sanitizer package.

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// ---- assertion helpers -----------------------------------------------------

func assertNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func assertErr(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("expected content to contain %q\ngot: %s", want, got)
	}
}

func assertNotContains(t *testing.T, got, unwanted string) {
	t.Helper()
	if strings.Contains(got, unwanted) {
		t.Errorf("expected content not to contain %q\ngot: %s", unwanted, got)
	}
}

// ---- part fixtures ---------------------------------------------------------

const (
	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`
	nsW       = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

	// rtlParagraph carries both marker forms the detector looks for.
	rtlParagraph = `<w:p><w:pPr><w:bidi/></w:pPr><w:r><w:rPr><w:rtl/></w:rPr>` +
		`<w:t>مرحبا بالعالم</w:t></w:r></w:p>`

	plainParagraph = `<w:p><w:r><w:t>Hello, world.</w:t></w:r></w:p>`

	minimalContentTypes = xmlHeader +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`</Types>`

	contentTypesWithGlossary = xmlHeader +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`<Override PartName="/word/glossary/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.glossary+xml"/>` +
		`<Override PartName="/word/glossary/fontTable.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.fontTable+xml"/>` +
		`</Types>`

	rootRels = xmlHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`

	documentRels = xmlHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
		`</Relationships>`

	documentRelsWithGlossary = xmlHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
		`<Relationship Id="rId9" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/glossaryDocument" Target="glossary/document.xml"/>` +
		`</Relationships>`
)

// documentXML wraps a body fragment in a minimal document part.
func documentXML(body string) string {
	return xmlHeader + `<w:document ` + nsW + `><w:body>` + body + `</w:body></w:document>`
}

// settingsXML builds a settings part with one compatibilityMode setting.
func settingsXML(compatVal string) string {
	return xmlHeader + `<w:settings ` + nsW + `><w:compat>` +
		`<w:compatSetting w:name="compatibilityMode" w:uri="http://schemas.microsoft.com/office/word" w:val="` + compatVal + `"/>` +
		`</w:compat></w:settings>`
}

// basePackage returns the minimum parts of a well-formed document package.
// Callers add or override entries before handing the map to makeDocx.
func basePackage(body string) map[string]string {
	return map[string]string{
		"[Content_Types].xml": minimalContentTypes,
		"_rels/.rels":         rootRels,
		"word/document.xml":   documentXML(body),
	}
}

// ---- package factories -----------------------------------------------------

// makeDocx builds a .docx zip from part name → content and returns its
// path. Entries are written in sorted name order for determinism.
func makeDocx(t *testing.T, parts map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("makeDocx create: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	names := make([]string, 0, len(parts))
	for name := range parts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("makeDocx zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(parts[name])); err != nil {
			t.Fatalf("makeDocx write %s: %v", name, err)
		}
	}
	return path
}

// makeEvilZip builds a zip containing an entry that resolves outside the
// extraction root.
func makeEvilZip(t *testing.T, entryName string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "evil.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("makeEvilZip create: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	w, err := zw.Create(entryName)
	if err != nil {
		t.Fatalf("makeEvilZip entry: %v", err)
	}
	if _, err := w.Write([]byte("owned")); err != nil {
		t.Fatalf("makeEvilZip write: %v", err)
	}
	return path
}

// readZip returns entry names in archive order plus name → content.
func readZip(t *testing.T, path string) ([]string, map[string]string) {
	t.Helper()

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("readZip open %s: %v", path, err)
	}
	defer zr.Close()

	var names []string
	contents := make(map[string]string)
	for _, f := range zr.File {
		names = append(names, f.Name)
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("readZip open entry %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("readZip read entry %s: %v", f.Name, err)
		}
		contents[f.Name] = string(data)
	}
	return names, contents
}
