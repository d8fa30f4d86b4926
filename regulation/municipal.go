// Package regulation provides the municipal authority profiles and the
// deterministic regulatory validator. Validation is pure: same inputs
// produce byte-identical violations and compliance items.
package regulation

import (
	"strings"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
)

// NationalAuthority is the fallback authority tag applied when the
// configured tag is unknown.
const NationalAuthority = "national"

// defaultMinRoomSizes are the NBC-derived minimum room areas in m²,
// shared by all profiles unless an authority overrides them.
func defaultMinRoomSizes() map[plan.Classification]float64 {
	return map[plan.Classification]float64{
		plan.ClassMasterBedroom: 9.5,
		plan.ClassBedroom:       9.5,
		plan.ClassGuestRoom:     9.5,
		plan.ClassKidsRoom:      9.5,
		plan.ClassKitchen:       5.0,
		plan.ClassLivingRoom:    9.5,
		plan.ClassDiningRoom:    7.5,
		plan.ClassBathroom:      1.8,
		plan.ClassToilet:        1.1,
		plan.ClassPoojaRoom:     1.5,
		plan.ClassStudy:         7.5,
		plan.ClassStorage:       3.0,
		plan.ClassStaircase:     4.5,
		plan.ClassUtility:       3.0,
	}
}

// profiles is the closed set of known municipal authorities.
var profiles = map[string]plan.MunicipalProfile{
	NationalAuthority: {
		Authority:           NationalAuthority,
		DisplayName:         "National Building Code",
		MaxFAR:              2.0,
		MaxGroundCoverage:   0.65,
		MinRoomSizes:        defaultMinRoomSizes(),
		MinCorridorWidth:    0.9,
		MinVentilationRatio: 0.10,
		DefaultSetbacks:     plan.SetbackRequirements{Front: 3, Left: 1.5, Right: 1.5, Rear: 2},
	},
	"bbmp": {
		Authority:           "bbmp",
		DisplayName:         "Bruhat Bengaluru Mahanagara Palike",
		MaxFAR:              1.75,
		MaxGroundCoverage:   0.60,
		MinRoomSizes:        defaultMinRoomSizes(),
		MinCorridorWidth:    0.9,
		MinVentilationRatio: 0.10,
		DefaultSetbacks:     plan.SetbackRequirements{Front: 3, Left: 1, Right: 1, Rear: 1.5},
	},
	"bda": {
		Authority:           "bda",
		DisplayName:         "Bangalore Development Authority",
		MaxFAR:              1.75,
		MaxGroundCoverage:   0.60,
		MinRoomSizes:        defaultMinRoomSizes(),
		MinCorridorWidth:    0.9,
		MinVentilationRatio: 0.10,
		DefaultSetbacks:     plan.SetbackRequirements{Front: 3, Left: 1.5, Right: 1.5, Rear: 2},
	},
	"mcgm": {
		Authority:           "mcgm",
		DisplayName:         "Municipal Corporation of Greater Mumbai",
		MaxFAR:              1.33,
		MaxGroundCoverage:   0.60,
		MinRoomSizes:        defaultMinRoomSizes(),
		MinCorridorWidth:    1.0,
		MinVentilationRatio: 0.12,
		DefaultSetbacks:     plan.SetbackRequirements{Front: 3.5, Left: 1.5, Right: 1.5, Rear: 2.5},
	},
	"dtcp": {
		Authority:           "dtcp",
		DisplayName:         "Directorate of Town and Country Planning",
		MaxFAR:              1.5,
		MaxGroundCoverage:   0.65,
		MinRoomSizes:        defaultMinRoomSizes(),
		MinCorridorWidth:    0.9,
		MinVentilationRatio: 0.10,
		DefaultSetbacks:     plan.SetbackRequirements{Front: 3, Left: 1, Right: 1, Rear: 2},
	},
}

// ProfileFor resolves an authority tag to its profile. Unknown tags
// fall back to the national default; the second return reports whether
// the tag was recognized.
func ProfileFor(authority string) (plan.MunicipalProfile, bool) {
	tag := strings.ToLower(strings.TrimSpace(authority))
	if p, ok := profiles[tag]; ok {
		return p, true
	}
	return profiles[NationalAuthority], false
}

// Authorities returns the known authority tags.
func Authorities() []string {
	tags := make([]string, 0, len(profiles))
	for tag := range profiles {
		tags = append(tags, tag)
	}
	return tags
}
