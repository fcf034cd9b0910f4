package report

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// A .docx file is a zip package around word/document.xml. The writer
// emits the minimal package parts; paragraph styling is left to the
// consumer, matching the plain-paragraph export of the original report.

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>
`

const docxRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>
`

// WriteDocx writes the final text as a DOCX document: one paragraph per
// line, one empty paragraph after each blank-line-separated block.
func WriteDocx(w io.Writer, text string) error {
	document, err := documentXML(text)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)

	parts := []struct{ name, content string }{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRootRels},
		{"word/document.xml", document},
	}
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := f.Write([]byte(p.content)); err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize docx package: %w", err)
	}
	return nil
}

// documentXML builds word/document.xml for the given text.
func documentXML(text string) (string, error) {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString("\n")
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	for _, part := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		for _, line := range strings.Split(part, "\n") {
			if err := writeParagraph(&b, line); err != nil {
				return "", err
			}
		}
		if err := writeParagraph(&b, ""); err != nil {
			return "", err
		}
	}

	b.WriteString(`</w:body></w:document>`)
	return b.String(), nil
}

func writeParagraph(b *strings.Builder, line string) error {
	if line == "" {
		b.WriteString(`<w:p/>`)
		return nil
	}
	// xml:space keeps the label padding runs intact.
	b.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
	if err := xml.EscapeText(b, []byte(line)); err != nil {
		return fmt.Errorf("escape paragraph text: %w", err)
	}
	b.WriteString(`</w:t></w:r></w:p>`)
	return nil
}
