package certificate

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// buildSimplePDF writes a single A4 page: the title centered-ish in bold,
// then one line per entry in body.
func buildSimplePDF(title string, body []string) []byte {
	var content strings.Builder
	content.WriteString("BT\n/F2 20 Tf\n140 760 Td\n")
	content.WriteString(fmt.Sprintf("(%s) Tj\nET\n", pdfEscape(title)))

	content.WriteString("BT\n/F1 12 Tf\n16 TL\n80 700 Td\n")
	for i, line := range body {
		if i == 0 {
			content.WriteString(fmt.Sprintf("(%s) Tj\n", pdfEscape(line)))
			continue
		}
		content.WriteString(fmt.Sprintf("T* (%s) Tj\n", pdfEscape(line)))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R /F2 5 0 R >> >> /Contents 6 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>\nendobj\n",
		"5 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold /Encoding /WinAnsiEncoding >>\nendobj\n",
		fmt.Sprintf("6 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)

	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	out.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		out.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	out.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart))

	return out.Bytes()
}

// pdfEscape encodes v as the body of a WinAnsi literal string. Bytes
// outside ASCII are written as octal escapes. Runes WinAnsi lacks are
// reduced to their base letter when they have one (ź to z), else to '?'.
func pdfEscape(v string) string {
	var b strings.Builder
	for _, r := range v {
		c, ok := winAnsiByte(r)
		switch {
		case !ok:
			b.WriteByte('?')
		case c == '\\' || c == '(' || c == ')':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&b, "\\%03o", c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func winAnsiByte(r rune) (byte, bool) {
	if c, ok := charmap.Windows1252.EncodeRune(r); ok {
		return c, true
	}
	base := []rune(norm.NFD.String(string(r)))
	if len(base) > 1 {
		return charmap.Windows1252.EncodeRune(base[0])
	}
	return 0, false
}
