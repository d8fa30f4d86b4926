// Package vastu implements the deterministic cultural validator. The
// rule table is closed: each rule names the classifications it applies
// to, a severity, a penalty weight, and a predicate over the room, the
// full room list, and the plot.
package vastu

import (
	"fmt"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
)

// Rule is one entry of the Vastu rule table.
type Rule struct {
	// ID is the stable rule identifier used in violations.
	ID string

	// AppliesTo lists the classifications this rule checks.
	AppliesTo []plan.Classification

	// Severity grades a failure of this rule.
	Severity plan.Severity

	// Weight is the raw penalty contributed by a failure, before the
	// strictness coefficient is applied.
	Weight float64

	// Check evaluates the rule for one room. It returns pass, the
	// message for the compliance item, and a recommendation for
	// failures.
	Check func(room *plan.EnrichedRoom, all []plan.EnrichedRoom, plotW, plotD float64) (bool, string, string)
}

// sectorIn reports whether s is one of the allowed sectors.
func sectorIn(s plan.Sector, allowed ...plan.Sector) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}

// preferSectors builds a check that passes when the room sits in one
// of the preferred sectors.
func preferSectors(what string, allowed ...plan.Sector) func(*plan.EnrichedRoom, []plan.EnrichedRoom, float64, float64) (bool, string, string) {
	return func(room *plan.EnrichedRoom, _ []plan.EnrichedRoom, _, _ float64) (bool, string, string) {
		if sectorIn(room.Sector, allowed...) {
			return true, fmt.Sprintf("%s is well placed in the %s sector", room.Name, room.Sector), ""
		}
		return false,
			fmt.Sprintf("%s is in the %s sector; %s prefers %v", room.Name, room.Sector, what, allowed),
			fmt.Sprintf("Relocate %s toward %v", room.Name, allowed)
	}
}

// avoidSectors builds a check that fails when the room sits in one of
// the forbidden sectors.
func avoidSectors(what string, forbidden ...plan.Sector) func(*plan.EnrichedRoom, []plan.EnrichedRoom, float64, float64) (bool, string, string) {
	return func(room *plan.EnrichedRoom, _ []plan.EnrichedRoom, _, _ float64) (bool, string, string) {
		if !sectorIn(room.Sector, forbidden...) {
			return true, fmt.Sprintf("%s avoids the restricted %v sectors", room.Name, forbidden), ""
		}
		return false,
			fmt.Sprintf("%s occupies the %s sector, which is restricted for %s", room.Name, room.Sector, what),
			fmt.Sprintf("Move %s out of %v", room.Name, forbidden)
	}
}

// Rules is the closed Vastu rule table. Order is normative: items are
// emitted by walking this table in order for each applicable room.
var Rules = []Rule{
	{
		ID:       "brahmasthan",
		Severity: plan.SeverityCritical,
		Weight:   0.15,
		AppliesTo: []plan.Classification{
			plan.ClassKitchen, plan.ClassBathroom, plan.ClassToilet,
			plan.ClassStaircase, plan.ClassStorage,
		},
		Check: avoidSectors("the Brahmasthan (plot centre)", plan.SectorCenter),
	},
	{
		ID:        "master-sw",
		Severity:  plan.SeverityMajor,
		Weight:    0.10,
		AppliesTo: []plan.Classification{plan.ClassMasterBedroom},
		Check:     preferSectors("the master bedroom", plan.SectorSW),
	},
	{
		ID:        "kitchen-se-nw",
		Severity:  plan.SeverityMajor,
		Weight:    0.10,
		AppliesTo: []plan.Classification{plan.ClassKitchen},
		Check:     preferSectors("the kitchen", plan.SectorSE, plan.SectorNW),
	},
	{
		ID:        "living-ne-n-e",
		Severity:  plan.SeverityMinor,
		Weight:    0.05,
		AppliesTo: []plan.Classification{plan.ClassLivingRoom},
		Check:     preferSectors("the living room", plan.SectorNE, plan.SectorN, plan.SectorE),
	},
	{
		ID:        "pooja-ne",
		Severity:  plan.SeverityMajor,
		Weight:    0.10,
		AppliesTo: []plan.Classification{plan.ClassPoojaRoom},
		Check:     preferSectors("the pooja room", plan.SectorNE, plan.SectorE, plan.SectorN),
	},
	{
		ID:        "toilet-not-ne-center",
		Severity:  plan.SeverityCritical,
		Weight:    0.15,
		AppliesTo: []plan.Classification{plan.ClassBathroom, plan.ClassToilet},
		Check:     avoidSectors("toilets and bathrooms", plan.SectorNE, plan.SectorCenter),
	},
	{
		ID:        "entrance-n-e-ne",
		Severity:  plan.SeverityMajor,
		Weight:    0.10,
		AppliesTo: []plan.Classification{plan.ClassEntrance, plan.ClassFoyer},
		Check:     preferSectors("the entrance", plan.SectorN, plan.SectorE, plan.SectorNE),
	},
	{
		ID:        "staircase-not-ne-center",
		Severity:  plan.SeverityMajor,
		Weight:    0.10,
		AppliesTo: []plan.Classification{plan.ClassStaircase},
		Check:     avoidSectors("the staircase", plan.SectorNE, plan.SectorCenter),
	},
	{
		ID:        "dining-w-e",
		Severity:  plan.SeverityMinor,
		Weight:    0.05,
		AppliesTo: []plan.Classification{plan.ClassDiningRoom},
		Check:     preferSectors("the dining room", plan.SectorW, plan.SectorE),
	},
	{
		ID:        "study-ne-w",
		Severity:  plan.SeverityMinor,
		Weight:    0.05,
		AppliesTo: []plan.Classification{plan.ClassStudy},
		Check:     preferSectors("the study", plan.SectorNE, plan.SectorW, plan.SectorN),
	},
	{
		ID:        "storage-sw-w",
		Severity:  plan.SeverityMinor,
		Weight:    0.05,
		AppliesTo: []plan.Classification{plan.ClassStorage},
		Check:     preferSectors("storage", plan.SectorSW, plan.SectorW, plan.SectorS),
	},
	{
		ID:        "guest-nw",
		Severity:  plan.SeverityMinor,
		Weight:    0.05,
		AppliesTo: []plan.Classification{plan.ClassGuestRoom},
		Check:     preferSectors("the guest room", plan.SectorNW, plan.SectorN),
	},
	{
		ID:        "utility-se-s",
		Severity:  plan.SeverityMinor,
		Weight:    0.05,
		AppliesTo: []plan.Classification{plan.ClassUtility},
		Check:     preferSectors("the utility area", plan.SectorSE, plan.SectorS),
	},
	{
		ID:        "bedroom-not-se",
		Severity:  plan.SeverityMinor,
		Weight:    0.05,
		AppliesTo: []plan.Classification{plan.ClassBedroom, plan.ClassKidsRoom},
		Check:     avoidSectors("secondary bedrooms", plan.SectorSE),
	},
}
