// Package certificate produces the registration certificate handed out for
// approved companies, either rendered locally from a fixed template or
// fetched from the registry API.
package certificate

import (
	"context"
	"fmt"
	"time"
)

type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// Strategy names accepted by CERTIFICATE_STRATEGY.
const (
	StrategyTemplate = "template"
	StrategyRemote   = "remote"
)

// Subject is the part of a registration printed on a certificate.
type Subject struct {
	ID                 string
	CompanyName        string
	RegistrationNumber string
	BusinessType       string
	RegisteredOn       time.Time
}

// Artifact is a downloadable certificate document.
type Artifact struct {
	FileName    string
	ContentType string
	Body        []byte
}

type Provider interface {
	Certificate(ctx context.Context, subject Subject) (Artifact, error)
}

func FileName(registrationNumber string, format Format) string {
	return fmt.Sprintf("Certificate_%s.%s", registrationNumber, format)
}

func ContentType(format Format) string {
	switch format {
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/html; charset=utf-8"
	}
}
