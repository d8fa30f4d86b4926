package regulation

import (
	"fmt"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
)

// Tolerances for floating-point room geometry. Rooms produced by the
// spatial model routinely land within millimetres of a boundary.
const (
	setbackTolerance  = 0.1  // metres of permitted boundary intrusion
	roomSizeTolerance = 0.1  // m² of permitted area shortfall
	corridorTolerance = 0.05 // metres of permitted width shortfall
)

// windowHeight is the assumed window height used for ventilation area,
// in metres.
const windowHeight = 1.2

// Severity penalties subtracted from a perfect score.
const (
	penaltyCritical = 0.20
	penaltyMajor    = 0.10
	penaltyMinor    = 0.03
)

// habitable classifications require natural ventilation.
var habitable = map[plan.Classification]bool{
	plan.ClassMasterBedroom: true,
	plan.ClassBedroom:       true,
	plan.ClassGuestRoom:     true,
	plan.ClassKidsRoom:      true,
	plan.ClassKitchen:       true,
	plan.ClassLivingRoom:    true,
	plan.ClassDiningRoom:    true,
	plan.ClassStudy:         true,
}

// Input bundles everything the regulatory validator consumes.
type Input struct {
	Rooms      []plan.EnrichedRoom
	PlotWidth  float64
	PlotDepth  float64
	Profile    plan.MunicipalProfile
	Setbacks   plan.SetbackRequirements
	FloorCount int
}

// Validate runs the regulatory checks in their fixed order and returns
// the violations, one compliance item per check, and the score. It is
// pure and deterministic: same inputs produce identical output,
// including ordering.
func Validate(in Input) plan.ValidationResult {
	v := &visitor{in: in}

	v.checkSetbacks()
	v.checkFAR()
	v.checkGroundCoverage()
	v.checkRoomSizes()
	v.checkCorridors()
	v.checkVentilation()

	score := 1.0
	for _, viol := range v.violations {
		score -= penalty(viol.Severity)
	}
	if score < 0 {
		score = 0
	}

	return plan.ValidationResult{
		Violations: v.violations,
		Items:      v.items,
		Score:      score,
	}
}

func penalty(s plan.Severity) float64 {
	switch s {
	case plan.SeverityCritical:
		return penaltyCritical
	case plan.SeverityMajor:
		return penaltyMajor
	default:
		return penaltyMinor
	}
}

// visitor accumulates check results.
type visitor struct {
	in         Input
	violations []plan.Violation
	items      []plan.ComplianceItem
}

func (v *visitor) pass(rule, message string) {
	v.items = append(v.items, plan.ComplianceItem{Rule: rule, Status: plan.StatusPass, Message: message})
}

func (v *visitor) warn(rule, message, recommendation string) {
	v.items = append(v.items, plan.ComplianceItem{
		Rule: rule, Status: plan.StatusWarn, Message: message, Recommendation: recommendation,
	})
}

func (v *visitor) fail(rule string, severity plan.Severity, room, message, recommendation string) {
	v.items = append(v.items, plan.ComplianceItem{
		Rule: rule, Status: plan.StatusFail, Message: message, Recommendation: recommendation,
	})
	v.violations = append(v.violations, plan.Violation{
		Rule: rule, Severity: severity, Room: room, Message: message, Recommendation: recommendation,
	})
}

// builtRoom reports whether a room participates in setback and
// coverage checks.
func builtRoom(t plan.RoomType) bool {
	return t == plan.TypeRoom || t == plan.TypeCirculation || t == plan.TypeService
}

// checkSetbacks verifies every built room lies inside the
// setback-adjusted envelope. Any intrusion beyond tolerance is
// critical.
func (v *visitor) checkSetbacks() {
	sb := v.in.Setbacks
	minX := sb.Left
	maxX := v.in.PlotWidth - sb.Right
	minY := sb.Front
	maxY := v.in.PlotDepth - sb.Rear

	intrusions := 0
	for i := range v.in.Rooms {
		r := &v.in.Rooms[i]
		if !builtRoom(r.Type) {
			continue
		}
		if r.X < minX-setbackTolerance || r.Y < minY-setbackTolerance ||
			r.X+r.Width > maxX+setbackTolerance || r.Y+r.Height > maxY+setbackTolerance {
			intrusions++
			v.fail("Setback Compliance", plan.SeverityCritical, r.Name,
				fmt.Sprintf("%s intrudes into the mandatory setback zone (envelope x %.2f-%.2f, y %.2f-%.2f)",
					r.Name, minX, maxX, minY, maxY),
				fmt.Sprintf("Move or shrink %s to fit within the buildable envelope", r.Name))
		}
	}
	if intrusions == 0 {
		v.pass("Setback Compliance",
			fmt.Sprintf("All rooms respect setbacks (front %.1fm, left %.1fm, right %.1fm, rear %.1fm)",
				sb.Front, sb.Left, sb.Right, sb.Rear))
	}
}

func (v *visitor) builtUpArea() float64 {
	total := 0.0
	for i := range v.in.Rooms {
		r := &v.in.Rooms[i]
		if r.Type == plan.TypeRoom || r.Type == plan.TypeService {
			total += r.Area
		}
	}
	return total
}

// checkFAR verifies (builtUp × floors) / plotArea against the profile.
func (v *visitor) checkFAR() {
	plotArea := v.in.PlotWidth * v.in.PlotDepth
	if plotArea <= 0 {
		v.items = append(v.items, plan.ComplianceItem{
			Rule: "Floor Area Ratio", Status: plan.StatusUnknown,
			Message: "plot area is zero; FAR undefined",
		})
		return
	}

	floors := v.in.FloorCount
	if floors < 1 {
		floors = 1
	}
	far := v.builtUpArea() * float64(floors) / plotArea

	if far > v.in.Profile.MaxFAR {
		v.fail("Floor Area Ratio", plan.SeverityCritical, "",
			fmt.Sprintf("FAR %.2f exceeds the permitted %.2f", far, v.in.Profile.MaxFAR),
			"Reduce built-up area or floor count")
		return
	}
	v.pass("Floor Area Ratio", fmt.Sprintf("FAR %.2f is within the permitted %.2f", far, v.in.Profile.MaxFAR))
}

// checkGroundCoverage verifies builtUp / plotArea against the profile.
func (v *visitor) checkGroundCoverage() {
	plotArea := v.in.PlotWidth * v.in.PlotDepth
	if plotArea <= 0 {
		v.items = append(v.items, plan.ComplianceItem{
			Rule: "Ground Coverage", Status: plan.StatusUnknown,
			Message: "plot area is zero; coverage undefined",
		})
		return
	}

	coverage := v.builtUpArea() / plotArea
	if coverage > v.in.Profile.MaxGroundCoverage {
		v.fail("Ground Coverage", plan.SeverityMajor, "",
			fmt.Sprintf("Ground coverage %.0f%% exceeds the permitted %.0f%%",
				coverage*100, v.in.Profile.MaxGroundCoverage*100),
			"Reduce the ground-floor footprint")
		return
	}
	v.pass("Ground Coverage", fmt.Sprintf("Ground coverage %.0f%% is within the permitted %.0f%%",
		coverage*100, v.in.Profile.MaxGroundCoverage*100))
}

// checkRoomSizes verifies each room of type room against the profile's
// minimum area for its classification.
func (v *visitor) checkRoomSizes() {
	shortfalls := 0
	for i := range v.in.Rooms {
		r := &v.in.Rooms[i]
		if r.Type != plan.TypeRoom {
			continue
		}
		minArea, ok := v.in.Profile.MinRoomSizes[r.Classification]
		if !ok {
			continue
		}
		if r.Area < minArea-roomSizeTolerance {
			shortfalls++
			v.fail("Minimum Room Size", plan.SeverityMajor, r.Name,
				fmt.Sprintf("%s is %.1fm², below the %.1fm² minimum for %s",
					r.Name, r.Area, minArea, r.Classification),
				fmt.Sprintf("Enlarge %s to at least %.1fm²", r.Name, minArea))
		}
	}
	if shortfalls == 0 {
		v.pass("Minimum Room Size", "All rooms meet their minimum area requirements")
	}
}

// checkCorridors verifies every circulation room has the minimum clear
// width on its shorter side.
func (v *visitor) checkCorridors() {
	minWidth := v.in.Profile.MinCorridorWidth
	shortfalls := 0
	for i := range v.in.Rooms {
		r := &v.in.Rooms[i]
		if r.Type != plan.TypeCirculation {
			continue
		}
		clear := r.Width
		if r.Height < clear {
			clear = r.Height
		}
		if clear < minWidth-corridorTolerance {
			shortfalls++
			v.fail("Corridor Width", plan.SeverityMajor, r.Name,
				fmt.Sprintf("%s is %.2fm wide, below the %.2fm minimum", r.Name, clear, minWidth),
				fmt.Sprintf("Widen %s to at least %.2fm", r.Name, minWidth))
		}
	}
	if shortfalls == 0 {
		v.pass("Corridor Width", fmt.Sprintf("All circulation spaces meet the %.2fm minimum width", minWidth))
	}
}

// checkVentilation verifies habitable rooms have enough window area.
// Shortfalls are warnings, not violations: ventilation is advisory at
// the plan-generation stage.
func (v *visitor) checkVentilation() {
	warned := 0
	for i := range v.in.Rooms {
		r := &v.in.Rooms[i]
		if r.Type != plan.TypeRoom || !habitable[r.Classification] {
			continue
		}

		windowWidth := 0.0
		windows := 0
		for _, f := range r.Features {
			if f.Kind == plan.FeatureWindow {
				windowWidth += f.Width
				windows++
			}
		}

		if windows == 0 {
			warned++
			v.warn("Ventilation",
				fmt.Sprintf("%s has no windows", r.Name),
				fmt.Sprintf("Add a window to %s for natural ventilation", r.Name))
			continue
		}

		if r.Area <= 0 {
			continue
		}
		ratio := windowWidth * windowHeight / r.Area
		if ratio < v.in.Profile.MinVentilationRatio {
			warned++
			v.warn("Ventilation",
				fmt.Sprintf("%s window area ratio %.2f is below the %.2f minimum",
					r.Name, ratio, v.in.Profile.MinVentilationRatio),
				fmt.Sprintf("Increase window area in %s", r.Name))
		}
	}
	if warned == 0 {
		v.pass("Ventilation", "All habitable rooms meet the minimum ventilation ratio")
	}
}
