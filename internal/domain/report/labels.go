package report

import (
	"fmt"
	"strings"
)

const dateLayout = "2006-01-02"

// LocationLabel names the area a report covers. A specific unit wins over a
// specific zone.
func LocationLabel(zone, unit string) string {
	switch {
	case unit != "" && unit != AllZones:
		return "UNIT " + strings.ToUpper(unit)
	case zone == "multiple":
		return "MULTIPLE ZONES"
	case zone != "" && zone != AllZones:
		return "ZONE " + strings.ToUpper(zone)
	default:
		return "ALL ZONES"
	}
}

func locationPart(zone, unit string) string {
	switch {
	case unit != "" && unit != AllZones:
		return "UNIT_" + unit
	case zone == "multiple":
		return "MULTIPLE"
	case zone != "" && zone != AllZones:
		return zone
	default:
		return "ALL"
	}
}

// Title is the heading row of the report document
func Title(t Type, p Period, zone, unit string, r DateRange) string {
	return fmt.Sprintf("%s %s OF %s FROM %s TO %s",
		p.Label(), t.Title(), LocationLabel(zone, unit),
		r.Start.Format(dateLayout), r.End.Format(dateLayout))
}

// Name is the display name stored on the report record
func Name(t Type, p Period, zone string, r DateRange) string {
	zoneLabel := "All Zones"
	if zone != "" && zone != AllZones {
		zoneLabel = "Zone " + zone
	}
	return fmt.Sprintf("%s - %s - %s (%s to %s)",
		t.Title(), p.Label(), zoneLabel,
		r.Start.Format(dateLayout), r.End.Format(dateLayout))
}

// FileName is the object name the rendered workbook is stored under.
// suffix keeps names unique across regenerations of the same window.
func FileName(t Type, p Period, zone, unit string, r DateRange, suffix string) string {
	return fmt.Sprintf("%s_%s_REPORT_%s_%s_to_%s_%s.xlsx",
		strings.ToUpper(string(t)), p.Label(), locationPart(zone, unit),
		r.Start.Format(dateLayout), r.End.Format(dateLayout), suffix)
}
