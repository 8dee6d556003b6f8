package certificate_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"company-registry/internal/certificate"

	"github.com/stretchr/testify/assert"
)

func subject() certificate.Subject {
	return certificate.Subject{
		ID:                 "REG-1700000000000-ABCDE",
		CompanyName:        "Acme <Holdings>",
		RegistrationNumber: "RN-1",
		BusinessType:       "LLC",
		RegisteredOn:       time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
	}
}

func TestTemplateProvider_HTML(t *testing.T) {
	p := certificate.NewTemplateProvider(certificate.FormatHTML)

	art, err := p.Certificate(context.Background(), subject())

	assert.NoError(t, err)
	assert.Equal(t, "Certificate_RN-1.html", art.FileName)
	assert.Equal(t, "text/html; charset=utf-8", art.ContentType)
	body := string(art.Body)
	assert.Contains(t, body, "CERTIFICATE OF REGISTRATION")
	assert.Contains(t, body, "Acme &lt;Holdings&gt;")
	assert.Contains(t, body, "<strong>RN-1</strong>")
	assert.Contains(t, body, "March 4, 2026")
}

func TestTemplateProvider_PDF(t *testing.T) {
	p := certificate.NewTemplateProvider(certificate.FormatPDF)

	art, err := p.Certificate(context.Background(), subject())

	assert.NoError(t, err)
	assert.Equal(t, "Certificate_RN-1.pdf", art.FileName)
	assert.Equal(t, "application/pdf", art.ContentType)
	body := string(art.Body)
	assert.True(t, strings.HasPrefix(body, "%PDF-1.4"))
	assert.True(t, strings.HasSuffix(body, "%%EOF"))
	assert.Contains(t, body, "(Registration Number: RN-1) Tj")
}

func TestTemplateProvider_UnknownFormatFallsBackToHTML(t *testing.T) {
	p := certificate.NewTemplateProvider("docx")

	art, err := p.Certificate(context.Background(), subject())

	assert.NoError(t, err)
	assert.Equal(t, "Certificate_RN-1.html", art.FileName)
}

func TestRenderPDF_EscapesParentheses(t *testing.T) {
	s := subject()
	s.CompanyName = "Acme (Asia)"

	body := string(certificate.RenderPDF(s))

	assert.Contains(t, body, `(Acme \(Asia\)) Tj`)
}

func TestRenderPDF_EncodesNonASCIINames(t *testing.T) {
	tests := []struct {
		name    string
		company string
		want    string
	}{
		{"latin-1 accents", "Société Générale", `(Soci\351t\351 G\351n\351rale) Tj`},
		{"decomposable outside winansi", "Łódź Sp.", `(?\363dz Sp.) Tj`},
		{"no latin form", "北京 Ltd", `(?? Ltd) Tj`},
		{"winansi punctuation", "Acme – €", `(Acme \226 \200) Tj`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := subject()
			s.CompanyName = tt.company

			body := certificate.RenderPDF(s)

			assert.Contains(t, string(body), tt.want)
			assert.Contains(t, string(body), "/Encoding /WinAnsiEncoding")
			assert.Equal(t, -1, strings.IndexFunc(string(body), func(r rune) bool { return r >= 0x80 }),
				"content must stay 7-bit")
		})
	}
}
