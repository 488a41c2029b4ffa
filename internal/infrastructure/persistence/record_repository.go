package persistence

import (
	"context"
	"time"

	"github.com/fieldops/backend/internal/domain/record"
	"github.com/fieldops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// BookingFields lists the booking fields clients may filter, sort and select on
var BookingFields = baseFields.with(FieldSet{
	"unit":         {Column: "unit", Kind: KindString},
	"name":         {Column: "name", Kind: KindString},
	"price":        {Column: "price", Kind: KindNumber},
	"paid":         {Column: "paid", Kind: KindBool},
	"billRef":      {Column: "bill_ref", Kind: KindString},
	"phoneNo":      {Column: "phone_no", Kind: KindString},
	"address":      {Column: "address", Kind: KindString},
	"registration": {Column: "registration", Kind: KindString},
	"vehicleType":  {Column: "vehicle_type", Kind: KindString},
	"type":         {Column: "type", Kind: KindString},
})

// FineFields lists the fine fields clients may filter, sort and select on
var FineFields = baseFields.with(FieldSet{
	"address": {Column: "address", Kind: KindString},
	"state":   {Column: "state", Kind: KindString},
	"price":   {Column: "price", Kind: KindNumber},
	"reason":  {Column: "reason", Kind: KindString},
	"paid":    {Column: "paid", Kind: KindBool},
})

// InsuranceFields lists the insurance fields clients may filter, sort and select on
var InsuranceFields = baseFields.with(FieldSet{
	"policy":        {Column: "policy", Kind: KindString},
	"building.name": {Column: "building_name", Kind: KindString},
	"estate":        {Column: "estate", Kind: KindString},
	"buildingNo":    {Column: "building_no", Kind: KindString},
	"area":          {Column: "area", Kind: KindString},
	"price":         {Column: "price", Kind: KindNumber},
	"address":       {Column: "address", Kind: KindString},
	"state":         {Column: "state", Kind: KindString},
	"status":        {Column: "status", Kind: KindString},
	"reference":     {Column: "reference", Kind: KindString},
	"organisation":  {Column: "organisation", Kind: KindString},
	"claim":         {Column: "claim", Kind: KindBool},
	"expiry":        {Column: "expiry", Kind: KindTime},
})

// CollisionFields lists the collision fields clients may filter, sort and select on
var CollisionFields = baseFields.with(FieldSet{
	"team":           {Column: "team", Kind: KindString},
	"location":       {Column: "location", Kind: KindString},
	"desc":           {Column: "description", Kind: KindString},
	"state":          {Column: "state", Kind: KindString},
	"status":         {Column: "status", Kind: KindString},
	"noOfCars":       {Column: "no_of_cars", Kind: KindNumber},
	"noOfInjuries":   {Column: "no_of_injuries", Kind: KindNumber},
	"noOfFatalities": {Column: "no_of_fatalities", Kind: KindNumber},
	"notes":          {Column: "notes", Kind: KindString},
})

// InspectionFields lists the inspection fields clients may filter, sort and select on
var InspectionFields = baseFields.with(FieldSet{
	"building":    {Column: "building", Kind: KindString},
	"progress":    {Column: "progress", Kind: KindString},
	"comment":     {Column: "comment", Kind: KindString},
	"note":        {Column: "note", Kind: KindString},
	"requirement": {Column: "requirement", Kind: KindString},
	"address":     {Column: "address", Kind: KindString},
	"state":       {Column: "state", Kind: KindString},
	"email":       {Column: "email", Kind: KindString},
	"phoneNo":     {Column: "phone_no", Kind: KindString},
	"price":       {Column: "price", Kind: KindNumber},
	"status":      {Column: "status", Kind: KindString},
	"complete":    {Column: "complete", Kind: KindString},
	"paid":        {Column: "paid", Kind: KindBool},
	"attempts":    {Column: "attempts", Kind: KindNumber},
	"date":        {Column: "date", Kind: KindTime},
	"expiry":      {Column: "expiry", Kind: KindTime},
})

// FireFields lists the fire fields clients may filter, sort and select on
var FireFields = baseFields.with(FieldSet{
	"address":    {Column: "address", Kind: KindString},
	"date":       {Column: "date", Kind: KindTime},
	"state":      {Column: "state", Kind: KindString},
	"type":       {Column: "type", Kind: KindString},
	"cause":      {Column: "cause", Kind: KindString},
	"extent":     {Column: "extent", Kind: KindString},
	"injuries":   {Column: "injuries", Kind: KindNumber},
	"fatalities": {Column: "fatalities", Kind: KindNumber},
})

// GormBookingRepository implements record.BookingRepository using GORM
type GormBookingRepository struct {
	*Collection[models.BookingModel, record.Booking]
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository
func NewGormBookingRepository(db *gorm.DB, loc *time.Location) *GormBookingRepository {
	return &GormBookingRepository{
		Collection: NewCollection(db, NewTranslator(BookingFields, loc),
			(*models.BookingModel).ToDomain, models.BookingModelFromDomain),
		db: db,
	}
}

// MarkPaid flags the unpaid booking carrying billRef as paid
func (r *GormBookingRepository) MarkPaid(ctx context.Context, billRef string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.BookingModel{}).
		Where("bill_ref = ? AND paid = ?", billRef, false).
		Update("paid", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// NewGormFineRepository creates a repository for fines
func NewGormFineRepository(db *gorm.DB, loc *time.Location) *Collection[models.FineModel, record.Fine] {
	return NewCollection(db, NewTranslator(FineFields, loc),
		(*models.FineModel).ToDomain, models.FineModelFromDomain)
}

// NewGormInsuranceRepository creates a repository for insurances
func NewGormInsuranceRepository(db *gorm.DB, loc *time.Location) *Collection[models.InsuranceModel, record.Insurance] {
	return NewCollection(db, NewTranslator(InsuranceFields, loc),
		(*models.InsuranceModel).ToDomain, models.InsuranceModelFromDomain)
}

// NewGormCollisionRepository creates a repository for collisions
func NewGormCollisionRepository(db *gorm.DB, loc *time.Location) *Collection[models.CollisionModel, record.Collision] {
	return NewCollection(db, NewTranslator(CollisionFields, loc),
		(*models.CollisionModel).ToDomain, models.CollisionModelFromDomain)
}

// NewGormInspectionRepository creates a repository for inspections
func NewGormInspectionRepository(db *gorm.DB, loc *time.Location) *Collection[models.InspectionModel, record.Inspection] {
	return NewCollection(db, NewTranslator(InspectionFields, loc),
		(*models.InspectionModel).ToDomain, models.InspectionModelFromDomain)
}

// NewGormFireRepository creates a repository for fires
func NewGormFireRepository(db *gorm.DB, loc *time.Location) *Collection[models.FireModel, record.Fire] {
	return NewCollection(db, NewTranslator(FireFields, loc),
		(*models.FireModel).ToDomain, models.FireModelFromDomain)
}

// Interface assertions
var (
	_ record.BookingRepository             = (*GormBookingRepository)(nil)
	_ record.Repository[record.Fine]       = (*Collection[models.FineModel, record.Fine])(nil)
	_ record.Repository[record.Insurance]  = (*Collection[models.InsuranceModel, record.Insurance])(nil)
	_ record.Repository[record.Collision]  = (*Collection[models.CollisionModel, record.Collision])(nil)
	_ record.Repository[record.Inspection] = (*Collection[models.InspectionModel, record.Inspection])(nil)
	_ record.Repository[record.Fire]       = (*Collection[models.FireModel, record.Fire])(nil)
)
