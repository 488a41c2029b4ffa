package record

import "strings"

// Offence is a single charge on a booking
type Offence struct {
	Name   string `json:"name"`
	MdasID string `json:"mdasId,omitempty"`
}

// Booking is a traffic offence booking awaiting or carrying payment
type Booking struct {
	Base
	Unit         string    `json:"unit,omitempty"`
	Name         string    `json:"name"`
	Offence      []Offence `json:"offence"`
	Price        float64   `json:"price"`
	Paid         bool      `json:"paid"`
	BillRef      string    `json:"billRef,omitempty"`
	PhoneNo      string    `json:"phoneNo,omitempty"`
	Address      string    `json:"address,omitempty"`
	Registration string    `json:"registration,omitempty"`
	VehicleType  string    `json:"vehicleType,omitempty"`
	Type         string    `json:"type,omitempty"`
}

// OffenceNames joins the offence names with ", "
func (b *Booking) OffenceNames() string {
	names := make([]string, 0, len(b.Offence))
	for _, o := range b.Offence {
		if o.Name != "" {
			names = append(names, o.Name)
		}
	}
	return strings.Join(names, ", ")
}

// Vehicle returns the declared vehicle type, falling back to the legacy type field
func (b *Booking) Vehicle() string {
	if b.VehicleType != "" {
		return b.VehicleType
	}
	return b.Type
}
