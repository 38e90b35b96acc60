package export

import (
	"strings"
)

// DocumentHeading is the top heading of the word-processing export.
const DocumentHeading = "Content Summary"

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// renderDOCX writes a title heading, a "Title: <title>" subheading and the
// summary as a single paragraph with its line breaks kept.
func renderDOCX(summary, title string) ([]byte, error) {
	var body strings.Builder
	body.WriteString(xmlHeader)
	body.WriteString(`<w:document xmlns:w="` + wordNS + `"><w:body>`)
	body.WriteString(docxParagraph("Heading1", DocumentHeading))
	body.WriteString(docxParagraph("Heading2", "Title: "+title))
	body.WriteString(`<w:p>`)
	for i, line := range strings.Split(summary, "\n") {
		if i > 0 {
			body.WriteString(`<w:r><w:br/></w:r>`)
		}
		body.WriteString(`<w:r><w:t xml:space="preserve">` + xmlText(line) + `</w:t></w:r>`)
	}
	body.WriteString(`</w:p>`)
	body.WriteString(`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr>`)
	body.WriteString(`</w:body></w:document>`)

	return writePackage([]part{
		{Name: "[Content_Types].xml", Body: docxContentTypes},
		{Name: "_rels/.rels", Body: relationships(rel{"rId1", relOfficeDocument, "word/document.xml"})},
		{Name: "word/_rels/document.xml.rels", Body: relationships(rel{"rId1", relStyles, "styles.xml"})},
		{Name: "word/styles.xml", Body: docxStyles},
		{Name: "word/document.xml", Body: body.String()},
	})
}

func docxParagraph(style, text string) string {
	return `<w:p><w:pPr><w:pStyle w:val="` + style + `"/></w:pPr><w:r><w:t xml:space="preserve">` + xmlText(text) + `</w:t></w:r></w:p>`
}

const docxContentTypes = xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`</Types>`

const docxStyles = xmlHeader + `<w:styles xmlns:w="` + wordNS + `">` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:rPr><w:sz w:val="22"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:pPr><w:spacing w:before="240" w:after="120"/><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:pPr><w:spacing w:before="200" w:after="100"/><w:outlineLvl w:val="1"/></w:pPr><w:rPr><w:b/><w:sz w:val="26"/></w:rPr></w:style>` +
	`</w:styles>`
