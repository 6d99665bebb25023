package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/xmldecode/internal/model"
	"github.com/nao1215/xmldecode/internal/xmltree"
)

// MIMEType is the media type of an exported document.
const MIMEType = "application/xml"

const (
	exportHeader  = `<?xml version="1.0" encoding="UTF-8"?>`
	exportRoot    = "resultados"
	exportRecord  = "resultado"
	exportDecoded = "contenidoDecodificado"
	decodedIndent = "      "
)

var contentEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Export serializes results into one XML document with a <resultados> root
// and one <resultado indice="N"> per result, numbered from 1 in input order.
// Each record repeats the matched tag with its original content and, for
// Base64 results, a <contenidoDecodificado> block holding the decoded text
// pretty-printed by the tree printer.
//
// Export returns "" when results is empty.
func Export(results []model.DecodedResult) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(exportHeader)
	b.WriteString("\n<" + exportRoot + ">\n")

	for i, r := range results {
		b.WriteString(`  <` + exportRecord + ` indice="` + strconv.Itoa(i+1) + "\">\n")
		b.WriteString("    <" + r.TagName + ">")
		b.WriteString(contentEscaper.Replace(r.OriginalBase64))
		b.WriteString("</" + r.TagName + ">\n")

		if r.IsBase64 {
			b.WriteString("    <" + exportDecoded + ">\n")
			for _, line := range strings.Split(decodedBlock(r.DecodedText), "\n") {
				if strings.TrimSpace(line) == "" {
					continue
				}
				b.WriteString(decodedIndent)
				b.WriteString(line)
				b.WriteByte('\n')
			}
			b.WriteString("    </" + exportDecoded + ">\n")
		}

		b.WriteString("  </" + exportRecord + ">\n")
	}

	b.WriteString("</" + exportRoot + ">")
	return b.String()
}

// decodedBlock pretty-prints decoded XML. Text that does not parse is
// escaped so the export stays well-formed.
func decodedBlock(text string) string {
	if _, err := xmltree.Parse(text); err != nil {
		return contentEscaper.Replace(text)
	}
	return xmltree.PrettyPrint(text)
}

// FileName returns the suggested download name for an export made at t,
// using the UTC calendar date.
func FileName(t time.Time) string {
	return "contenido_decodificado_" + t.UTC().Format(time.DateOnly) + ".xml"
}
