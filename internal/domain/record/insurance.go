package record

import "time"

// InsuranceStatus is the payment state of a policy
type InsuranceStatus string

const (
	InsurancePending InsuranceStatus = "pending"
	InsuranceFailed  InsuranceStatus = "failed"
	InsuranceSuccess InsuranceStatus = "success"
)

// Policy years run for a fixed term from issue
const PolicyTerm = 365 * 24 * time.Hour

// BuildingRate is one rated component of an insured building
type BuildingRate struct {
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
	No   int     `json:"no"`
}

// InsuredBuilding describes the building a policy covers
type InsuredBuilding struct {
	Name    string         `json:"name"`
	Rate    []BuildingRate `json:"rate,omitempty"`
	Special string         `json:"special,omitempty"`
}

// Insurance is a building liability policy
type Insurance struct {
	Base
	Policy       string          `json:"policy"`
	Building     InsuredBuilding `json:"building"`
	Estate       string          `json:"estate,omitempty"`
	BuildingNo   string          `json:"buildingNo,omitempty"`
	Area         string          `json:"area,omitempty"`
	Price        float64         `json:"price"`
	Address      string          `json:"address,omitempty"`
	State        string          `json:"state,omitempty"`
	Status       InsuranceStatus `json:"status"`
	Reference    string          `json:"reference"`
	Organisation string          `json:"organisation,omitempty"`
	Claim        bool            `json:"claim"`
	Expiry       time.Time       `json:"expiry"`
}

// ApplyDefaults fills the fields a new policy is issued with
func (i *Insurance) ApplyDefaults(reference string) {
	if i.Policy == "" {
		i.Policy = "Occupiers Liability Insurance"
	}
	if i.Estate == "" {
		i.Estate = "Corporate"
	}
	if i.Status == "" {
		i.Status = InsurancePending
	}
	if i.Reference == "" {
		i.Reference = reference
	}
	if i.Expiry.IsZero() {
		i.Expiry = i.CreatedAt.Add(PolicyTerm)
	}
}

// Settled reports whether the premium has been paid
func (i *Insurance) Settled() bool {
	return i.Status == InsuranceSuccess
}
