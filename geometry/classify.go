package geometry

import (
	"regexp"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
)

// classifierRule maps a name pattern to a classification tag.
type classifierRule struct {
	pattern *regexp.Regexp
	tag     plan.Classification
}

// classifierRules is the ordered, closed classification table. The
// first matching rule wins, so specific patterns must precede the
// generic ones they overlap with (master bed before bed, hallway
// before hall, toilet before bath).
var classifierRules = []classifierRule{
	{regexp.MustCompile(`(?i)master\s*bed`), plan.ClassMasterBedroom},
	{regexp.MustCompile(`(?i)guest\s*(bed)?room|guest\s*bed`), plan.ClassGuestRoom},
	{regexp.MustCompile(`(?i)kids?\s*(bed)?room|child(ren)?'?s?\s*room`), plan.ClassKidsRoom},
	{regexp.MustCompile(`(?i)pooja|puja|prayer|mandir`), plan.ClassPoojaRoom},
	{regexp.MustCompile(`(?i)toilet|\bwc\b|lavatory`), plan.ClassToilet},
	{regexp.MustCompile(`(?i)bath|washroom|shower`), plan.ClassBathroom},
	{regexp.MustCompile(`(?i)kitchen|cooking`), plan.ClassKitchen},
	{regexp.MustCompile(`(?i)dining`), plan.ClassDiningRoom},
	{regexp.MustCompile(`(?i)corridor|passage|hallway|lobby`), plan.ClassCorridor},
	{regexp.MustCompile(`(?i)living|lounge|drawing\s*room|\bhall\b`), plan.ClassLivingRoom},
	{regexp.MustCompile(`(?i)stair|steps`), plan.ClassStaircase},
	{regexp.MustCompile(`(?i)entrance|entry|porch|portico`), plan.ClassEntrance},
	{regexp.MustCompile(`(?i)foyer`), plan.ClassFoyer},
	{regexp.MustCompile(`(?i)study|office|work\s*room|library`), plan.ClassStudy},
	{regexp.MustCompile(`(?i)balcony|deck|terrace`), plan.ClassBalcony},
	{regexp.MustCompile(`(?i)store|storage|pantry`), plan.ClassStorage},
	{regexp.MustCompile(`(?i)parking|garage|car\s*port`), plan.ClassParking},
	{regexp.MustCompile(`(?i)utility|laundry|wash\s*area`), plan.ClassUtility},
	{regexp.MustCompile(`(?i)veranda|verandah|sit\s*out`), plan.ClassVeranda},
	{regexp.MustCompile(`(?i)garden|lawn|yard|courtyard`), plan.ClassGarden},
	{regexp.MustCompile(`(?i)bed`), plan.ClassBedroom},
}

// Classify assigns a classification tag to a room name. Matching is
// case-insensitive, first match wins, and unmatched names default to
// bedroom.
func Classify(name string) plan.Classification {
	for _, rule := range classifierRules {
		if rule.pattern.MatchString(name) {
			return rule.tag
		}
	}
	return plan.ClassBedroom
}
