package access

import "strings"

// AllZones is the sentinel zone meaning "no zone restriction"
const AllZones = "all"

// MultipleZones labels a report covering several zones
const MultipleZones = "multiple"

const annexSuffix = "annex"

// KnownZones lists the zone codes accepted on records and reports
var KnownZones = []string{
	"1", "1annex", "2", "2annex", "3", "3annex", "4", "4annex",
	"5", "6", "6annex", "7", "9", "10", "12", "13", "14", "15",
}

// KnownUnits lists the unit codes accepted on records and reports
var KnownUnits = []string{"1", "2", "3", "4"}

// IsKnownZone reports whether z is a recognized zone code or "all"
func IsKnownZone(z string) bool {
	if z == AllZones {
		return true
	}
	for _, k := range KnownZones {
		if k == z {
			return true
		}
	}
	return false
}

// IsKnownUnit reports whether u is a recognized unit code or "all"
func IsKnownUnit(u string) bool {
	if u == AllZones {
		return true
	}
	for _, k := range KnownUnits {
		if k == u {
			return true
		}
	}
	return false
}

// BaseZone strips a single trailing annex suffix. Nested annex codes
// ("3annexannex") are not generalized: only one level is removed.
func BaseZone(zone string) string {
	return strings.TrimSuffix(zone, annexSuffix)
}

// IsAnnex reports whether the zone is an annex variant
func IsAnnex(zone string) bool {
	return strings.HasSuffix(zone, annexSuffix) && len(zone) > len(annexSuffix)
}

// AnnexPair returns the zone together with its paired code: the annex of
// a base zone or the base of an annex zone. The actor's own zone is first.
func AnnexPair(zone string) []string {
	if zone == "" {
		return nil
	}
	base := BaseZone(zone)
	if IsAnnex(zone) {
		return []string{zone, base}
	}
	return []string{zone, base + annexSuffix}
}
