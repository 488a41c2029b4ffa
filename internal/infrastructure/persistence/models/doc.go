// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
//   - base.go: columns every record table shares
//   - record.go: bookings, fines, insurances, collisions, inspections, fires
//   - report.go: generated report metadata
package models
