// Package plan defines the floor-plan domain entities shared by the
// generation pipeline: project configuration, rooms, candidate plan
// graphs, validation results, and the assembled output plan.
package plan

import (
	"fmt"
	"math"
)

// StrictnessLevel is the user-selected Vastu strictness.
type StrictnessLevel string

const (
	StrictnessNone       StrictnessLevel = "None"
	StrictnessSlightly   StrictnessLevel = "Slightly"
	StrictnessModerately StrictnessLevel = "Moderately"
	StrictnessStrictly   StrictnessLevel = "Strictly"
)

// Coefficient maps a strictness level to the penalty multiplier applied
// to failing cultural rules. An empty or unknown level means None.
func (l StrictnessLevel) Coefficient() float64 {
	switch l {
	case StrictnessSlightly:
		return 0.25
	case StrictnessModerately:
		return 0.5
	case StrictnessStrictly:
		return 1.0
	default:
		return 0
	}
}

// ProjectConfig is the immutable input to a generation run.
type ProjectConfig struct {
	// PlotWidth and PlotDepth are the plot dimensions in metres.
	PlotWidth float64 `json:"plotWidth" yaml:"plot_width"`
	PlotDepth float64 `json:"plotDepth" yaml:"plot_depth"`

	// Requirements is the free-text list of required rooms and hints.
	Requirements []string `json:"requirements" yaml:"requirements"`

	// Authority selects the municipal profile (unknown tags fall back
	// to the national default).
	Authority string `json:"authority,omitempty" yaml:"authority"`

	// CulturalSystem names the cultural rule system (currently vastu).
	CulturalSystem string `json:"culturalSystem,omitempty" yaml:"cultural_system"`

	// Strictness is the Vastu strictness level. Omitted means None.
	Strictness StrictnessLevel `json:"strictness,omitempty" yaml:"strictness"`

	// Floors is the number of floors. Zero means one.
	Floors int `json:"floors,omitempty" yaml:"floors"`

	// Bathrooms is the requested bathroom count. Zero means default.
	Bathrooms int `json:"bathrooms,omitempty" yaml:"bathrooms"`

	// Parking is the parking requirement tag ("", "two_wheeler", "car").
	Parking string `json:"parking,omitempty" yaml:"parking"`
}

// FloorCount returns the effective floor count (minimum 1).
func (c *ProjectConfig) FloorCount() int {
	if c.Floors < 1 {
		return 1
	}
	return c.Floors
}

// Validate checks the config for structural validity. It does not
// check the authority tag: unknown authorities fall back to the
// national profile with a warning rather than an error.
func (c *ProjectConfig) Validate() error {
	if c.PlotWidth <= 0 || math.IsNaN(c.PlotWidth) || math.IsInf(c.PlotWidth, 0) {
		return fmt.Errorf("plot width must be positive and finite, got %v", c.PlotWidth)
	}
	if c.PlotDepth <= 0 || math.IsNaN(c.PlotDepth) || math.IsInf(c.PlotDepth, 0) {
		return fmt.Errorf("plot depth must be positive and finite, got %v", c.PlotDepth)
	}
	if len(c.Requirements) == 0 {
		return fmt.Errorf("at least one room requirement is required")
	}
	if c.Floors < 0 {
		return fmt.Errorf("floors must be >= 1, got %d", c.Floors)
	}
	if c.Bathrooms < 0 {
		return fmt.Errorf("bathrooms must be >= 0, got %d", c.Bathrooms)
	}
	return nil
}

// RoomType categorizes how a rectangle participates in area accounting
// and validation.
type RoomType string

const (
	TypeRoom        RoomType = "room"
	TypeCirculation RoomType = "circulation"
	TypeOutdoor     RoomType = "outdoor"
	TypeSetback     RoomType = "setback"
	TypeService     RoomType = "service"
)

// WallSide identifies a wall of an axis-aligned room rectangle.
type WallSide string

const (
	WallTop    WallSide = "top"
	WallBottom WallSide = "bottom"
	WallLeft   WallSide = "left"
	WallRight  WallSide = "right"
)

// FeatureKind is the kind of a wall feature.
type FeatureKind string

const (
	FeatureDoor    FeatureKind = "door"
	FeatureWindow  FeatureKind = "window"
	FeatureOpening FeatureKind = "opening"
)

// WallFeature is a door, window, or opening placed along a wall.
// Position is the offset along the wall from its origin corner.
type WallFeature struct {
	Kind     FeatureKind `json:"kind"`
	Wall     WallSide    `json:"wall"`
	Position float64     `json:"position"`
	Width    float64     `json:"width"`
}

// Room is an axis-aligned rectangle inside the plot, in plot metres.
// X grows eastward, Y grows southward from the north-west plot corner.
type Room struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Type     RoomType      `json:"type"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Features []WallFeature `json:"features,omitempty"`
	Guidance string        `json:"guidance,omitempty"`
	Floor    int           `json:"floor,omitempty"`
}

// WallLength returns the length of the named wall.
func (r *Room) WallLength(side WallSide) float64 {
	switch side {
	case WallTop, WallBottom:
		return r.Width
	default:
		return r.Height
	}
}

// Sector is one of the nine cardinal cells of the 3x3 plot grid.
type Sector string

const (
	SectorNW     Sector = "NW"
	SectorN      Sector = "N"
	SectorNE     Sector = "NE"
	SectorW      Sector = "W"
	SectorCenter Sector = "CENTER"
	SectorE      Sector = "E"
	SectorSW     Sector = "SW"
	SectorS      Sector = "S"
	SectorSE     Sector = "SE"
)

// Classification is the tag assigned to a room by name matching. It
// drives minimum-size lookup and cultural-rule applicability.
type Classification string

const (
	ClassMasterBedroom Classification = "master_bedroom"
	ClassBedroom       Classification = "bedroom"
	ClassGuestRoom     Classification = "guest_room"
	ClassKidsRoom      Classification = "kids_room"
	ClassKitchen       Classification = "kitchen"
	ClassLivingRoom    Classification = "living_room"
	ClassDiningRoom    Classification = "dining_room"
	ClassBathroom      Classification = "bathroom"
	ClassToilet        Classification = "toilet"
	ClassPoojaRoom     Classification = "pooja_room"
	ClassStudy         Classification = "study"
	ClassBalcony       Classification = "balcony"
	ClassStorage       Classification = "storage"
	ClassStaircase     Classification = "staircase"
	ClassEntrance      Classification = "entrance"
	ClassFoyer         Classification = "foyer"
	ClassCorridor      Classification = "corridor"
	ClassParking       Classification = "parking"
	ClassUtility       Classification = "utility"
	ClassVeranda       Classification = "veranda"
	ClassGarden        Classification = "garden"
)

// EnrichedRoom is a Room augmented with derived geometry: centroid,
// area, cardinal sector, and name classification.
type EnrichedRoom struct {
	Room

	CenterX        float64        `json:"centerX"`
	CenterY        float64        `json:"centerY"`
	Area           float64        `json:"area"`
	Sector         Sector         `json:"sector"`
	Classification Classification `json:"classification"`
}

// AdjacencyRelation describes a desired spatial relation between rooms.
type AdjacencyRelation string

const (
	RelationAdjacent  AdjacencyRelation = "adjacent"
	RelationNearby    AdjacencyRelation = "nearby"
	RelationSeparated AdjacencyRelation = "separated"
)

// AdjacencyPreference is a parsed adjacency hint from the requirements.
type AdjacencyPreference struct {
	RoomA    string            `json:"roomA"`
	RoomB    string            `json:"roomB"`
	Relation AdjacencyRelation `json:"relation"`
}

// RoomRequirement is a single required room derived from the config.
type RoomRequirement struct {
	Classification Classification `json:"classification"`
	Name           string         `json:"name"`
	MinArea        float64        `json:"minArea"`
	Count          int            `json:"count"`
}

// SetbackRequirements are the mandatory clearances from the plot
// boundary, in metres.
type SetbackRequirements struct {
	Front float64 `json:"front" yaml:"front"`
	Left  float64 `json:"left" yaml:"left"`
	Right float64 `json:"right" yaml:"right"`
	Rear  float64 `json:"rear" yaml:"rear"`
}

// MunicipalProfile holds the regulatory limits of one authority.
type MunicipalProfile struct {
	// Authority is the canonical authority tag.
	Authority string `json:"authority" yaml:"authority"`

	// DisplayName is the human name of the authority.
	DisplayName string `json:"displayName" yaml:"display_name"`

	// MaxFAR is the maximum floor-area ratio.
	MaxFAR float64 `json:"maxFAR" yaml:"max_far"`

	// MaxGroundCoverage is the maximum built-up / plot-area ratio.
	MaxGroundCoverage float64 `json:"maxGroundCoverage" yaml:"max_ground_coverage"`

	// MinRoomSizes maps a classification to its minimum area in m².
	MinRoomSizes map[Classification]float64 `json:"minRoomSizes" yaml:"min_room_sizes"`

	// MinCorridorWidth is the minimum clear corridor width in metres.
	MinCorridorWidth float64 `json:"minCorridorWidth" yaml:"min_corridor_width"`

	// MinVentilationRatio is the minimum window-area / floor-area
	// ratio for habitable rooms.
	MinVentilationRatio float64 `json:"minVentilationRatio" yaml:"min_ventilation_ratio"`

	// DefaultSetbacks are the authority's default boundary clearances.
	DefaultSetbacks SetbackRequirements `json:"defaultSetbacks" yaml:"default_setbacks"`
}

// NormalizedSpec is the ProjectConfig plus everything derived from it
// by the input agent. It is the single input to spatial generation.
type NormalizedSpec struct {
	Config ProjectConfig `json:"config"`

	PlotWidth float64 `json:"plotWidth"`
	PlotDepth float64 `json:"plotDepth"`
	PlotArea  float64 `json:"plotArea"`

	Requirements []RoomRequirement `json:"requirements"`

	Profile  MunicipalProfile    `json:"profile"`
	Setbacks SetbackRequirements `json:"setbacks"`

	// StrictnessCoefficient is the Vastu penalty multiplier in [0,1].
	StrictnessCoefficient float64 `json:"strictnessCoefficient"`

	Adjacencies []AdjacencyPreference `json:"adjacencies,omitempty"`

	FloorCount    int `json:"floorCount"`
	BathroomCount int `json:"bathroomCount"`
}

// Severity grades a violation.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

// Violation is a single failed regulatory or cultural check.
type Violation struct {
	Rule           string   `json:"rule"`
	Severity       Severity `json:"severity"`
	Room           string   `json:"room,omitempty"`
	Message        string   `json:"message"`
	Recommendation string   `json:"recommendation,omitempty"`
}

// ComplianceStatus is the outcome of a single compliance check.
type ComplianceStatus string

const (
	StatusPass    ComplianceStatus = "PASS"
	StatusFail    ComplianceStatus = "FAIL"
	StatusWarn    ComplianceStatus = "WARN"
	StatusUnknown ComplianceStatus = "UNKNOWN"
)

// ComplianceItem records one check performed by a validator,
// including passing checks.
type ComplianceItem struct {
	Rule           string           `json:"rule"`
	Status         ComplianceStatus `json:"status"`
	Message        string           `json:"message"`
	Recommendation string           `json:"recommendation,omitempty"`
}

// ValidationResult is the common output shape of both validators.
type ValidationResult struct {
	Violations []Violation      `json:"violations"`
	Items      []ComplianceItem `json:"items"`
	Score      float64          `json:"score"`
}

// Critique is the critic agent's qualitative assessment. All scores
// are clamped to [0,1] by the orchestrator before use.
type Critique struct {
	SpatialEfficiency  float64  `json:"spatialEfficiency"`
	CirculationQuality float64  `json:"circulationQuality"`
	NaturalLighting    float64  `json:"naturalLighting"`
	PrivacyGradient    float64  `json:"privacyGradient"`
	AestheticBalance   float64  `json:"aestheticBalance"`
	OverallConfidence  float64  `json:"overallConfidence"`
	Critiques          []string `json:"critiques"`
	Strengths          []string `json:"strengths"`
}

// ScoreCategory is one weighted component of the final score.
type ScoreCategory struct {
	Category      string  `json:"category"`
	Weight        float64 `json:"weight"`
	RawScore      float64 `json:"rawScore"`
	WeightedScore float64 `json:"weightedScore"`
}

// PlanScore is the weighted convergence signal.
type PlanScore struct {
	Final           float64         `json:"final"`
	Breakdown       []ScoreCategory `json:"breakdown"`
	PassesThreshold bool            `json:"passesThreshold"`
}

// FloorPlanGraph is the current candidate solution during iteration.
type FloorPlanGraph struct {
	Rooms []EnrichedRoom `json:"rooms"`

	TotalArea         float64 `json:"totalArea"`
	BuiltUpArea       float64 `json:"builtUpArea"`
	CirculationArea   float64 `json:"circulationArea"`
	SetbackArea       float64 `json:"setbackArea"`
	OutdoorArea       float64 `json:"outdoorArea"`
	PlotCoverageRatio float64 `json:"plotCoverageRatio"`

	DesignLog   []string              `json:"designLog"`
	Adjacencies []AdjacencyPreference `json:"adjacencies,omitempty"`
}

// BOMItem is one line of the bill of materials.
type BOMItem struct {
	Material      string  `json:"material"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	EstimatedCost float64 `json:"estimatedCost"`
}

// CostRange is the estimated total construction cost band.
type CostRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

// FurnitureItem is a furniture placement in absolute plot coordinates.
type FurnitureItem struct {
	RoomID   string  `json:"roomId"`
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Depth    float64 `json:"depth"`
	Rotation float64 `json:"rotation,omitempty"`
}

// Compliance groups the compliance items of the final iteration.
type Compliance struct {
	Regulatory []ComplianceItem `json:"regulatory"`
	Cultural   []ComplianceItem `json:"cultural"`
}

// FloorPartition groups the final rooms of one floor.
type FloorPartition struct {
	FloorNumber int    `json:"floorNumber"`
	FloorLabel  string `json:"floorLabel"`
	Rooms       []Room `json:"rooms"`
}

// GeneratedPlan is the externally visible result of a run.
type GeneratedPlan struct {
	DesignLog         []string         `json:"designLog"`
	Rooms             []Room           `json:"rooms"`
	TotalArea         float64          `json:"totalArea"`
	BuiltUpArea       float64          `json:"builtUpArea"`
	PlotCoverageRatio float64          `json:"plotCoverageRatio"`
	Compliance        Compliance       `json:"compliance"`
	BOM               []BOMItem        `json:"bom"`
	TotalCostRange    CostRange        `json:"totalCostRange"`
	Furniture         []FurnitureItem  `json:"furniture,omitempty"`
	Floors            []FloorPartition `json:"floors,omitempty"`
}
