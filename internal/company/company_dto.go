package company

import (
	"time"

	"company-registry/internal/registry"
)

// CreateCompanyRequest is the record minus status and approvedDate. Clients
// that generate ids offline send id and submittedDate along.
type CreateCompanyRequest struct {
	ID                 string     `json:"id"`
	CompanyName        string     `json:"companyName" binding:"required"`
	RegistrationNumber string     `json:"registrationNumber" binding:"required"`
	BusinessType       string     `json:"businessType"`
	Address            string     `json:"address"`
	ContactPerson      string     `json:"contactPerson"`
	Email              string     `json:"email" binding:"omitempty,email"`
	Phone              string     `json:"phone"`
	SubmittedDate      *time.Time `json:"submittedDate"`
}

type CreateCompanyResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type ListCompaniesResponse struct {
	Companies []registry.CompanyRegistration `json:"companies"`
}

type ActionResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
