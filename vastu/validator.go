package vastu

import (
	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
)

// Validate applies the Vastu rule table to the enriched rooms with the
// given strictness coefficient in [0,1]. Each failing rule contributes
// weight × strictness to the penalty; score = max(0, 1 − Σ). With a
// strictness of zero the validator short-circuits to a perfect score
// and a single informational PASS item.
func Validate(rooms []plan.EnrichedRoom, plotWidth, plotDepth, strictness float64) plan.ValidationResult {
	if strictness <= 0 {
		return plan.ValidationResult{
			Violations: []plan.Violation{},
			Items: []plan.ComplianceItem{{
				Rule:    "vastu-disabled",
				Status:  plan.StatusPass,
				Message: "Vastu checking is disabled (strictness: None)",
			}},
			Score: 1.0,
		}
	}
	if strictness > 1 {
		strictness = 1
	}

	violations := []plan.Violation{}
	items := []plan.ComplianceItem{}
	penalty := 0.0

	for ruleIdx := range Rules {
		rule := &Rules[ruleIdx]
		for roomIdx := range rooms {
			room := &rooms[roomIdx]
			if !appliesTo(rule, room.Classification) {
				continue
			}

			pass, message, recommendation := rule.Check(room, rooms, plotWidth, plotDepth)
			if pass {
				items = append(items, plan.ComplianceItem{
					Rule: rule.ID, Status: plan.StatusPass, Message: message,
				})
				continue
			}

			status := plan.StatusFail
			if rule.Severity == plan.SeverityMinor {
				status = plan.StatusWarn
			}
			items = append(items, plan.ComplianceItem{
				Rule: rule.ID, Status: status, Message: message, Recommendation: recommendation,
			})
			violations = append(violations, plan.Violation{
				Rule:           rule.ID,
				Severity:       rule.Severity,
				Room:           room.Name,
				Message:        message,
				Recommendation: recommendation,
			})
			penalty += rule.Weight * strictness
		}
	}

	score := 1.0 - penalty
	if score < 0 {
		score = 0
	}

	return plan.ValidationResult{
		Violations: violations,
		Items:      items,
		Score:      score,
	}
}

func appliesTo(rule *Rule, c plan.Classification) bool {
	for _, a := range rule.AppliesTo {
		if a == c {
			return true
		}
	}
	return false
}
