// Package company is the registry REST API: the server side of the
// contract the portal and regctl consume through registry/remote.
package company

import (
	"time"

	"company-registry/internal/registry"
)

type Company struct {
	ID                 string     `gorm:"type:varchar(64);primaryKey"`
	CompanyName        string     `gorm:"type:varchar(255);not null"`
	RegistrationNumber string     `gorm:"type:varchar(100);not null;uniqueIndex:uq_companies_registration_number"`
	BusinessType       string     `gorm:"type:varchar(100)"`
	Address            string     `gorm:"type:text"`
	ContactPerson      string     `gorm:"type:varchar(150)"`
	Email              string     `gorm:"type:varchar(255)"`
	Phone              string     `gorm:"type:varchar(50)"`
	Status             string     `gorm:"type:varchar(20);not null;index"`
	SubmittedDate      time.Time  `gorm:"not null"`
	ApprovedDate       *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (Company) TableName() string {
	return "companies"
}

func (c Company) ToRegistration() registry.CompanyRegistration {
	return registry.CompanyRegistration{
		ID:                 c.ID,
		CompanyName:        c.CompanyName,
		RegistrationNumber: c.RegistrationNumber,
		BusinessType:       c.BusinessType,
		Address:            c.Address,
		ContactPerson:      c.ContactPerson,
		Email:              c.Email,
		Phone:              c.Phone,
		Status:             registry.Status(c.Status),
		SubmittedDate:      c.SubmittedDate,
		ApprovedDate:       c.ApprovedDate,
	}
}

func mapToList(companies []Company) []registry.CompanyRegistration {
	out := make([]registry.CompanyRegistration, 0, len(companies))
	for _, c := range companies {
		out = append(out, c.ToRegistration())
	}
	return out
}
