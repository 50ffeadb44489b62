package tables

import (
	"fmt"
	"math"
	"sort"
)

// tablePoint is one (key, value) pair of a 1-D lookup table. Tables are
// built sorted once at package init and searched by binary search.
type tablePoint struct {
	Key   float64
	Value float64
}

// kinematic viscosity of water, m2/s, by temperature in deg C.
var waterViscosity = []tablePoint{
	{0, 1.787e-6},
	{5, 1.519e-6},
	{10, 1.307e-6},
	{15, 1.139e-6},
	{20, 1.004e-6},
	{25, 0.893e-6},
	{30, 0.801e-6},
	{35, 0.724e-6},
	{40, 0.658e-6},
	{50, 0.553e-6},
	{60, 0.475e-6},
}

func init() {
	sort.Slice(waterViscosity, func(i, j int) bool {
		return waterViscosity[i].Key < waterViscosity[j].Key
	})
}

// interpolate does clamped linear interpolation over a sorted table.
func interpolate(table []tablePoint, key float64) float64 {
	n := len(table)
	if key <= table[0].Key {
		return table[0].Value
	}
	if key >= table[n-1].Key {
		return table[n-1].Value
	}
	i := sort.Search(n, func(i int) bool { return table[i].Key >= key })
	lo, hi := table[i-1], table[i]
	t := (key - lo.Key) / (hi.Key - lo.Key)
	return lo.Value + t*(hi.Value-lo.Value)
}

// WaterViscosity returns the kinematic viscosity of water in m2/s for
// the given temperature in deg C, clamped to the tabulated range.
func WaterViscosity(tempC float64) float64 {
	return interpolate(waterViscosity, tempC)
}

// Manning roughness coefficients by pipe/channel material.
var manningRoughness = map[string]float64{
	"concrete":     0.013,
	"pvc":          0.009,
	"hdpe":         0.009,
	"cast_iron":    0.013,
	"steel":        0.012,
	"clay":         0.013,
	"brick":        0.015,
	"earth_smooth": 0.022,
}

// ManningRoughness returns n for a known material.
func ManningRoughness(material string) (float64, error) {
	n, ok := manningRoughness[material]
	if !ok {
		return 0, fmt.Errorf("unknown material %q", material)
	}
	return n, nil
}

// ConcreteClass carries the design strengths of one TCVN 5574 concrete
// grade, all in MPa.
type ConcreteClass struct {
	Grade string  `json:"grade"`
	Rb    float64 `json:"rb_mpa"`  // compressive design strength
	Rbt   float64 `json:"rbt_mpa"` // tensile design strength
	Eb    float64 `json:"eb_mpa"`  // modulus of elasticity
}

var concreteClasses = map[string]ConcreteClass{
	"B15": {"B15", 8.5, 0.75, 23000},
	"B20": {"B20", 11.5, 0.90, 27000},
	"B25": {"B25", 14.5, 1.05, 30000},
	"B30": {"B30", 17.0, 1.15, 32500},
	"B35": {"B35", 19.5, 1.30, 34500},
	"B40": {"B40", 22.0, 1.40, 36000},
}

func Concrete(grade string) (ConcreteClass, error) {
	c, ok := concreteClasses[grade]
	if !ok {
		return ConcreteClass{}, fmt.Errorf("unknown concrete grade %q", grade)
	}
	return c, nil
}

// SteelClass carries the design strengths of one TCVN 5574 reinforcement
// grade, in MPa.
type SteelClass struct {
	Grade string  `json:"grade"`
	Rs    float64 `json:"rs_mpa"` // tensile design strength
	Rsc   float64 `json:"rsc_mpa"`
	Es    float64 `json:"es_mpa"`
	XiR   float64 `json:"xi_r"` // relative limit of the compression zone
}

var steelClasses = map[string]SteelClass{
	"CB240-T": {"CB240-T", 210, 210, 200000, 0.615},
	"CB300-V": {"CB300-V", 260, 260, 200000, 0.577},
	"CB400-V": {"CB400-V", 350, 350, 200000, 0.533},
	"CB500-V": {"CB500-V", 435, 435, 200000, 0.493},
}

func Steel(grade string) (SteelClass, error) {
	s, ok := steelClasses[grade]
	if !ok {
		return SteelClass{}, fmt.Errorf("unknown steel grade %q", grade)
	}
	return s, nil
}

// ExposureClass couples an environment code with its allowable
// long-term crack width in mm.
type ExposureClass struct {
	Code         string  `json:"code"`
	Description  string  `json:"description"`
	CrackLimitMM float64 `json:"crack_limit_mm"`
}

var (
	ExposureNormal       = ExposureClass{"N", "indoor, dry environment", 0.30}
	ExposureOutdoor      = ExposureClass{"O", "outdoor, weather exposed", 0.25}
	ExposureWaterContact = ExposureClass{"W", "water-retaining face", 0.20}
	ExposureAggressive   = ExposureClass{"A", "chemically aggressive liquid", 0.15}
)

// Exposure resolves an exposure code.
func Exposure(code string) (ExposureClass, error) {
	switch code {
	case ExposureNormal.Code:
		return ExposureNormal, nil
	case ExposureOutdoor.Code:
		return ExposureOutdoor, nil
	case ExposureWaterContact.Code:
		return ExposureWaterContact, nil
	case ExposureAggressive.Code:
		return ExposureAggressive, nil
	}
	return ExposureClass{}, fmt.Errorf("unknown exposure class %q", code)
}

// StandardBarDiameters are the rebar diameters in mm considered when
// selecting reinforcement.
var StandardBarDiameters = []float64{8, 10, 12, 14, 16, 18, 20, 22, 25, 28, 32}

// BarArea returns the cross-section area of one bar in mm2.
func BarArea(diameterMM float64) float64 {
	return math.Pi * diameterMM * diameterMM / 4.0
}
