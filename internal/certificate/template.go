package certificate

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
)

const dateLayout = "January 2, 2006"

const certificateHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Certificate of Registration</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 40px; }
        .certificate { border: 3px solid #2c3e50; padding: 40px; text-align: center; }
        .company-name { font-size: 24px; font-weight: bold; color: #3498db; margin: 20px 0; }
        .seal { width: 100px; height: 100px; border: 2px solid #2c3e50; border-radius: 50%;
                display: inline-block; line-height: 96px; margin: 20px; font-weight: bold; }
    </style>
</head>
<body>
    <div class="certificate">
        <h1>CERTIFICATE OF REGISTRATION</h1>
        <p>This is to certify that</p>
        <div class="company-name">{{.CompanyName}}</div>
        <p>Registration Number: <strong>{{.RegistrationNumber}}</strong></p>
        <p>Business Type: <strong>{{.BusinessType}}</strong></p>
        <p>has been duly registered and is hereby authorized to operate as a business entity.</p>
        <div class="seal">OFFICIAL SEAL</div>
        <p>Date of Registration: {{.RegisteredOn}}</p>
        <p>This certificate is valid and legally binding.</p>
    </div>
</body>
</html>
`

var htmlTemplate = template.Must(template.New("certificate").Parse(certificateHTML))

// TemplateProvider renders certificates locally from the fixed template.
type TemplateProvider struct {
	format Format
}

func NewTemplateProvider(format Format) *TemplateProvider {
	if format != FormatPDF {
		format = FormatHTML
	}
	return &TemplateProvider{format: format}
}

func (p *TemplateProvider) Certificate(_ context.Context, subject Subject) (Artifact, error) {
	var (
		body []byte
		err  error
	)
	switch p.format {
	case FormatPDF:
		body = RenderPDF(subject)
	default:
		body, err = RenderHTML(subject)
	}
	if err != nil {
		return Artifact{}, err
	}

	return Artifact{
		FileName:    FileName(subject.RegistrationNumber, p.format),
		ContentType: ContentType(p.format),
		Body:        body,
	}, nil
}

func RenderHTML(subject Subject) ([]byte, error) {
	var buf bytes.Buffer
	err := htmlTemplate.Execute(&buf, struct {
		CompanyName        string
		RegistrationNumber string
		BusinessType       string
		RegisteredOn       string
	}{
		CompanyName:        subject.CompanyName,
		RegistrationNumber: subject.RegistrationNumber,
		BusinessType:       subject.BusinessType,
		RegisteredOn:       subject.RegisteredOn.Format(dateLayout),
	})
	if err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	return buf.Bytes(), nil
}

func RenderPDF(subject Subject) []byte {
	return buildSimplePDF("CERTIFICATE OF REGISTRATION", []string{
		"This is to certify that",
		subject.CompanyName,
		"Registration Number: " + subject.RegistrationNumber,
		"Business Type: " + subject.BusinessType,
		"has been duly registered and is hereby authorized to operate as a business entity.",
		"",
		"Date of Registration: " + subject.RegisteredOn.Format(dateLayout),
		"This certificate is valid and legally binding.",
	})
}
