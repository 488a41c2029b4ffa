package models

import (
	"time"

	"github.com/fieldops/backend/internal/domain/record"
)

// BookingModel is the GORM model for the bookings table
type BookingModel struct {
	RecordModel
	Unit         string           `gorm:"type:varchar(10);index"`
	Name         string           `gorm:"type:varchar(200)"`
	Offence      []record.Offence `gorm:"type:jsonb;serializer:json"`
	Price        float64          `gorm:"type:numeric(14,2);not null;default:0"`
	Paid         bool             `gorm:"not null;default:false;index"`
	BillRef      string           `gorm:"column:bill_ref;type:varchar(100);index"`
	PhoneNo      string           `gorm:"column:phone_no;type:varchar(30)"`
	Address      string           `gorm:"type:text"`
	Registration string           `gorm:"type:varchar(30)"`
	VehicleType  string           `gorm:"column:vehicle_type;type:varchar(50)"`
	Type         string           `gorm:"type:varchar(50)"`
}

// TableName returns the table name for BookingModel
func (BookingModel) TableName() string {
	return "bookings"
}

// ToDomain converts BookingModel to domain Booking
func (m *BookingModel) ToDomain() *record.Booking {
	return &record.Booking{
		Base:         m.RecordModel.ToDomain(),
		Unit:         m.Unit,
		Name:         m.Name,
		Offence:      m.Offence,
		Price:        m.Price,
		Paid:         m.Paid,
		BillRef:      m.BillRef,
		PhoneNo:      m.PhoneNo,
		Address:      m.Address,
		Registration: m.Registration,
		VehicleType:  m.VehicleType,
		Type:         m.Type,
	}
}

// BookingModelFromDomain creates a BookingModel from domain Booking
func BookingModelFromDomain(b *record.Booking) *BookingModel {
	m := &BookingModel{
		Unit:         b.Unit,
		Name:         b.Name,
		Offence:      b.Offence,
		Price:        b.Price,
		Paid:         b.Paid,
		BillRef:      b.BillRef,
		PhoneNo:      b.PhoneNo,
		Address:      b.Address,
		Registration: b.Registration,
		VehicleType:  b.VehicleType,
		Type:         b.Type,
	}
	m.RecordModel.FromDomain(b.Base)
	return m
}

// FineModel is the GORM model for the fines table
type FineModel struct {
	RecordModel
	Address string  `gorm:"type:text"`
	State   string  `gorm:"type:varchar(50)"`
	Price   float64 `gorm:"type:numeric(14,2);not null;default:0"`
	Reason  string  `gorm:"type:text"`
	Paid    bool    `gorm:"not null;default:false"`
}

// TableName returns the table name for FineModel
func (FineModel) TableName() string {
	return "fines"
}

// ToDomain converts FineModel to domain Fine
func (m *FineModel) ToDomain() *record.Fine {
	return &record.Fine{
		Base:    m.RecordModel.ToDomain(),
		Address: m.Address,
		State:   m.State,
		Price:   m.Price,
		Reason:  m.Reason,
		Paid:    m.Paid,
	}
}

// FineModelFromDomain creates a FineModel from domain Fine
func FineModelFromDomain(f *record.Fine) *FineModel {
	m := &FineModel{
		Address: f.Address,
		State:   f.State,
		Price:   f.Price,
		Reason:  f.Reason,
		Paid:    f.Paid,
	}
	m.RecordModel.FromDomain(f.Base)
	return m
}

// InsuranceModel is the GORM model for the insurances table
type InsuranceModel struct {
	RecordModel
	Policy       string                 `gorm:"type:varchar(100)"`
	Building     record.InsuredBuilding `gorm:"type:jsonb;serializer:json"`
	BuildingName string                 `gorm:"column:building_name;type:varchar(100);index"`
	Estate       string                 `gorm:"type:varchar(50)"`
	BuildingNo   string                 `gorm:"column:building_no;type:varchar(50)"`
	Area         string                 `gorm:"type:varchar(100)"`
	Price        float64                `gorm:"type:numeric(14,2);not null;default:0"`
	Address      string                 `gorm:"type:text"`
	State        string                 `gorm:"type:varchar(50)"`
	Status       string                 `gorm:"type:varchar(20);not null;default:'pending';index"`
	Reference    string                 `gorm:"type:varchar(100);uniqueIndex"`
	Organisation string                 `gorm:"type:varchar(200)"`
	Claim        bool                   `gorm:"not null;default:false"`
	Expiry       time.Time
}

// TableName returns the table name for InsuranceModel
func (InsuranceModel) TableName() string {
	return "insurances"
}

// ToDomain converts InsuranceModel to domain Insurance
func (m *InsuranceModel) ToDomain() *record.Insurance {
	return &record.Insurance{
		Base:         m.RecordModel.ToDomain(),
		Policy:       m.Policy,
		Building:     m.Building,
		Estate:       m.Estate,
		BuildingNo:   m.BuildingNo,
		Area:         m.Area,
		Price:        m.Price,
		Address:      m.Address,
		State:        m.State,
		Status:       record.InsuranceStatus(m.Status),
		Reference:    m.Reference,
		Organisation: m.Organisation,
		Claim:        m.Claim,
		Expiry:       m.Expiry,
	}
}

// InsuranceModelFromDomain creates an InsuranceModel from domain Insurance.
// The building name is denormalised so breakdowns can group on a column.
func InsuranceModelFromDomain(i *record.Insurance) *InsuranceModel {
	m := &InsuranceModel{
		Policy:       i.Policy,
		Building:     i.Building,
		BuildingName: i.Building.Name,
		Estate:       i.Estate,
		BuildingNo:   i.BuildingNo,
		Area:         i.Area,
		Price:        i.Price,
		Address:      i.Address,
		State:        i.State,
		Status:       string(i.Status),
		Reference:    i.Reference,
		Organisation: i.Organisation,
		Claim:        i.Claim,
		Expiry:       i.Expiry.UTC(),
	}
	m.RecordModel.FromDomain(i.Base)
	return m
}

// CollisionModel is the GORM model for the collisions table
type CollisionModel struct {
	RecordModel
	Team           string                    `gorm:"type:varchar(100)"`
	Location       string                    `gorm:"type:text"`
	Desc           string                    `gorm:"column:description;type:text"`
	State          string                    `gorm:"type:varchar(50)"`
	Status         string                    `gorm:"type:varchar(30)"`
	NoOfCars       int                       `gorm:"column:no_of_cars;not null;default:0"`
	NoOfInjuries   int                       `gorm:"column:no_of_injuries;not null;default:0"`
	NoOfFatalities int                       `gorm:"column:no_of_fatalities;not null;default:0"`
	Notes          string                    `gorm:"type:text"`
	Vehicle        []record.CollisionVehicle `gorm:"type:jsonb;serializer:json"`
	Witness        []record.Witness          `gorm:"type:jsonb;serializer:json"`
	Img            string                    `gorm:"type:text"`
}

// TableName returns the table name for CollisionModel
func (CollisionModel) TableName() string {
	return "collisions"
}

// ToDomain converts CollisionModel to domain Collision
func (m *CollisionModel) ToDomain() *record.Collision {
	return &record.Collision{
		Base:           m.RecordModel.ToDomain(),
		Team:           m.Team,
		Location:       m.Location,
		Desc:           m.Desc,
		State:          m.State,
		Status:         m.Status,
		NoOfCars:       m.NoOfCars,
		NoOfInjuries:   m.NoOfInjuries,
		NoOfFatalities: m.NoOfFatalities,
		Notes:          m.Notes,
		Vehicle:        m.Vehicle,
		Witness:        m.Witness,
		Img:            m.Img,
	}
}

// CollisionModelFromDomain creates a CollisionModel from domain Collision
func CollisionModelFromDomain(c *record.Collision) *CollisionModel {
	m := &CollisionModel{
		Team:           c.Team,
		Location:       c.Location,
		Desc:           c.Desc,
		State:          c.State,
		Status:         c.Status,
		NoOfCars:       c.NoOfCars,
		NoOfInjuries:   c.NoOfInjuries,
		NoOfFatalities: c.NoOfFatalities,
		Notes:          c.Notes,
		Vehicle:        c.Vehicle,
		Witness:        c.Witness,
		Img:            c.Img,
	}
	m.RecordModel.FromDomain(c.Base)
	return m
}

// InspectionModel is the GORM model for the inspections table
type InspectionModel struct {
	RecordModel
	Building    string    `gorm:"type:varchar(200)"`
	Progress    string    `gorm:"type:varchar(20);not null;default:'Uncompleted'"`
	Comment     string    `gorm:"type:text"`
	Note        string    `gorm:"type:text"`
	Requirement string    `gorm:"type:text"`
	Address     string    `gorm:"type:text"`
	State       string    `gorm:"type:varchar(50)"`
	Email       string    `gorm:"type:varchar(200)"`
	PhoneNo     string    `gorm:"column:phone_no;type:varchar(30)"`
	Price       float64   `gorm:"type:numeric(14,2);not null;default:0"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	Complete    string    `gorm:"type:varchar(20);not null;default:'pending'"`
	Paid        bool      `gorm:"not null;default:false"`
	Attempts    int       `gorm:"not null;default:0"`
	Date        time.Time `gorm:"index"`
	Expiry      time.Time `gorm:"index"`
}

// TableName returns the table name for InspectionModel
func (InspectionModel) TableName() string {
	return "inspections"
}

// ToDomain converts InspectionModel to domain Inspection
func (m *InspectionModel) ToDomain() *record.Inspection {
	return &record.Inspection{
		Base:        m.RecordModel.ToDomain(),
		Building:    m.Building,
		Progress:    record.InspectionProgress(m.Progress),
		Comment:     m.Comment,
		Note:        m.Note,
		Requirement: m.Requirement,
		Address:     m.Address,
		State:       m.State,
		Email:       m.Email,
		PhoneNo:     m.PhoneNo,
		Price:       m.Price,
		Status:      record.InsuranceStatus(m.Status),
		Complete:    record.InspectionOutcome(m.Complete),
		Paid:        m.Paid,
		Attempts:    m.Attempts,
		Date:        m.Date,
		Expiry:      m.Expiry,
	}
}

// InspectionModelFromDomain creates an InspectionModel from domain Inspection
func InspectionModelFromDomain(i *record.Inspection) *InspectionModel {
	m := &InspectionModel{
		Building:    i.Building,
		Progress:    string(i.Progress),
		Comment:     i.Comment,
		Note:        i.Note,
		Requirement: i.Requirement,
		Address:     i.Address,
		State:       i.State,
		Email:       i.Email,
		PhoneNo:     i.PhoneNo,
		Price:       i.Price,
		Status:      string(i.Status),
		Complete:    string(i.Complete),
		Paid:        i.Paid,
		Attempts:    i.Attempts,
		Date:        i.Date.UTC(),
		Expiry:      i.Expiry.UTC(),
	}
	m.RecordModel.FromDomain(i.Base)
	return m
}

// FireModel is the GORM model for the fires table
type FireModel struct {
	RecordModel
	Address    string    `gorm:"type:text"`
	Date       time.Time `gorm:"index"`
	State      string    `gorm:"type:varchar(50)"`
	Type       string    `gorm:"type:varchar(20);not null;default:'Other'"`
	Cause      string    `gorm:"type:text"`
	Extent     string    `gorm:"type:text"`
	Injuries   int       `gorm:"not null;default:0"`
	Fatalities int       `gorm:"not null;default:0"`
}

// TableName returns the table name for FireModel
func (FireModel) TableName() string {
	return "fires"
}

// ToDomain converts FireModel to domain Fire
func (m *FireModel) ToDomain() *record.Fire {
	return &record.Fire{
		Base:       m.RecordModel.ToDomain(),
		Address:    m.Address,
		Date:       m.Date,
		State:      m.State,
		Type:       record.FireType(m.Type),
		Cause:      m.Cause,
		Extent:     m.Extent,
		Injuries:   m.Injuries,
		Fatalities: m.Fatalities,
	}
}

// FireModelFromDomain creates a FireModel from domain Fire
func FireModelFromDomain(f *record.Fire) *FireModel {
	m := &FireModel{
		Address:    f.Address,
		Date:       f.Date.UTC(),
		State:      f.State,
		Type:       string(f.Type),
		Cause:      f.Cause,
		Extent:     f.Extent,
		Injuries:   f.Injuries,
		Fatalities: f.Fatalities,
	}
	m.RecordModel.FromDomain(f.Base)
	return m
}
