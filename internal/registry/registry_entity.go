// Package registry holds the registration lifecycle shared by every entry
// point: the CompanyRegistration record, its status machine, the
// persistence backend contract with its online/offline fallback, and the
// registration, review and status lookup services built on top of it.
package registry

import (
	"time"

	"company-registry/internal/certificate"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// CompanyRegistration is the single persisted entity. The JSON shape is the
// wire format of the registry API and of the local slot.
type CompanyRegistration struct {
	ID                 string     `json:"id"`
	CompanyName        string     `json:"companyName"`
	RegistrationNumber string     `json:"registrationNumber"`
	BusinessType       string     `json:"businessType"`
	Address            string     `json:"address"`
	ContactPerson      string     `json:"contactPerson"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	Status             Status     `json:"status"`
	SubmittedDate      time.Time  `json:"submittedDate"`
	ApprovedDate       *time.Time `json:"approvedDate"`
}

// CanDownloadCertificate is true exactly when the registration is approved.
func CanDownloadCertificate(r CompanyRegistration) bool {
	return r.Status == StatusApproved
}

// CertificateSubject prints the approval date, or the submission date for
// records approved before approvedDate was tracked.
func (r CompanyRegistration) CertificateSubject() certificate.Subject {
	registeredOn := r.SubmittedDate
	if r.ApprovedDate != nil {
		registeredOn = *r.ApprovedDate
	}
	return certificate.Subject{
		ID:                 r.ID,
		CompanyName:        r.CompanyName,
		RegistrationNumber: r.RegistrationNumber,
		BusinessType:       r.BusinessType,
		RegisteredOn:       registeredOn,
	}
}

func filterByStatus(records []CompanyRegistration, status Status) []CompanyRegistration {
	out := make([]CompanyRegistration, 0, len(records))
	for _, r := range records {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}
