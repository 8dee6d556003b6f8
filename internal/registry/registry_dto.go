package registry

import (
	"context"

	"company-registry/internal/certificate"
	registryerrors "company-registry/internal/registry/errors"
)

type SubmitRequest struct {
	CompanyName        string `json:"companyName" binding:"required"`
	RegistrationNumber string `json:"registrationNumber" binding:"required"`
	BusinessType       string `json:"businessType"`
	Address            string `json:"address"`
	ContactPerson      string `json:"contactPerson"`
	Email              string `json:"email" binding:"omitempty,email"`
	Phone              string `json:"phone"`
}

type SubmitResponse struct {
	ID string `json:"id"`
}

type Dashboard struct {
	Pending  []CompanyRegistration `json:"pending"`
	Approved []CompanyRegistration `json:"approved"`
}

// StatusResult is what an applicant sees after a status check.
type StatusResult struct {
	Registration           CompanyRegistration `json:"registration"`
	CanDownloadCertificate bool                `json:"canDownloadCertificate"`

	provider certificate.Provider
}

// RequestCertificate produces the certificate artifact. It fails with
// ErrCertificateUnavailable unless the registration is approved.
func (r StatusResult) RequestCertificate(ctx context.Context) (certificate.Artifact, error) {
	if !r.CanDownloadCertificate || r.provider == nil {
		return certificate.Artifact{}, registryerrors.ErrCertificateUnavailable
	}
	return r.provider.Certificate(ctx, r.Registration.CertificateSubject())
}
