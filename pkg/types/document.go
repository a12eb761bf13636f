package types

import "time"

// ComplianceDocument is one credential a worker has submitted. The wider
// application owns these rows; carewatch only reads them.
type ComplianceDocument struct {
	ID         string             `db:"id" json:"id"`
	WorkerID   string             `db:"worker_id" json:"workerId"`
	Category   DocumentCategory   `db:"category" json:"category"`
	Name       string             `db:"name" json:"name"`
	Status     VerificationStatus `db:"status" json:"status"`
	ExpiryDate *time.Time         `db:"expiry_date" json:"expiryDate,omitempty"`
	CreatedAt  time.Time          `db:"created_at" json:"createdAt"`
}

type DocumentCategory string

const (
	CategoryWorkerScreening     DocumentCategory = "ndis_worker_screening"
	CategoryWorkingWithChildren DocumentCategory = "working_with_children_check"
	CategoryFirstAid            DocumentCategory = "first_aid_certificate"
	CategoryCPR                 DocumentCategory = "cpr_certificate"
	CategoryWorkerOrientation   DocumentCategory = "ndis_worker_orientation"
	CategoryDriversLicence      DocumentCategory = "drivers_licence"
	CategoryVehicleInsurance    DocumentCategory = "vehicle_insurance"
	CategoryInfectionControl    DocumentCategory = "infection_control_training"
	CategoryOther               DocumentCategory = "other"
)

// AllCategories lists every category in display order.
var AllCategories = []DocumentCategory{
	CategoryWorkerScreening,
	CategoryWorkingWithChildren,
	CategoryFirstAid,
	CategoryCPR,
	CategoryWorkerOrientation,
	CategoryDriversLicence,
	CategoryVehicleInsurance,
	CategoryInfectionControl,
	CategoryOther,
}

func (c DocumentCategory) Valid() bool {
	switch c {
	case CategoryWorkerScreening,
		CategoryWorkingWithChildren,
		CategoryFirstAid,
		CategoryCPR,
		CategoryWorkerOrientation,
		CategoryDriversLicence,
		CategoryVehicleInsurance,
		CategoryInfectionControl,
		CategoryOther:
		return true
	}
	return false
}

type VerificationStatus string

const (
	StatusPending  VerificationStatus = "pending"
	StatusVerified VerificationStatus = "verified"
	StatusRejected VerificationStatus = "rejected"
)

func (s VerificationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusRejected:
		return true
	}
	return false
}
