package docx

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const sampleXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>ARTICLES OF ASSOCIATION</w:t></w:r></w:p>
    <w:p><w:r><w:t>1. The company operates under </w:t></w:r><w:r><w:t>ADGM jurisdiction.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Signed by</w:t><w:tab/><w:t>the director.</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestParseJoinsParagraphsWithNewlines(t *testing.T) {
	got, err := Parse(buildDocx(t, sampleXML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d:\n%s", len(lines), got)
	}
	if lines[0] != "ARTICLES OF ASSOCIATION" {
		t.Fatalf("first paragraph = %q", lines[0])
	}
	if lines[1] != "1. The company operates under ADGM jurisdiction." {
		t.Fatalf("runs not joined within paragraph: %q", lines[1])
	}
	if !strings.Contains(lines[2], "Signed by\tthe director.") {
		t.Fatalf("tab not preserved: %q", lines[2])
	}
}

func TestParseIgnoresNonTextNodes(t *testing.T) {
	const xmlWithProps = `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:rPr><w:b/></w:rPr><w:t>Heading</w:t></w:r></w:p>
  </w:body>
</w:document>`

	got, err := Parse(buildDocx(t, xmlWithProps))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got != "Heading" {
		t.Fatalf("got %q, want only w:t content", got)
	}
}

func TestParseRejectsNonZipPayload(t *testing.T) {
	if _, err := Parse([]byte("plain text, not a container")); err == nil {
		t.Fatalf("expected error for non-zip payload")
	}
}

func TestParseRejectsMissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("<styles/>")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	if _, err := Parse(buf.Bytes()); err == nil {
		t.Fatalf("expected error for container without word/document.xml")
	}
}
