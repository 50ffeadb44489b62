package plates

import (
	"fmt"
	"sort"

	"AquaTrace/internal/calclog"
)

// Coefficients is one tabulated tuple of span and support moment
// coefficients for a plate boundary-condition family.
type Coefficients struct {
	AlphaX float64 `json:"alpha_x"` // span moment, x direction
	AlphaY float64 `json:"alpha_y"` // span moment, y direction
	BetaX  float64 `json:"beta_x"`  // support moment, x direction
	BetaY  float64 `json:"beta_y"`  // support moment, y direction
}

type tableRow struct {
	Ratio float64
	C     Coefficients
}

// BoundaryFamily selects one coefficient table.
type BoundaryFamily string

const (
	// Tank walls under triangular (hydrostatic) load.
	Wall3Fixed1Free BoundaryFamily = "wall_3fixed_1free"
	Wall2Fixed2Free BoundaryFamily = "wall_2fixed_2free"
	// Slabs under uniform load.
	Slab4Fixed        BoundaryFamily = "slab_4fixed"
	Slab4Pinned       BoundaryFamily = "slab_4pinned"
	Slab2Fixed2Pinned BoundaryFamily = "slab_2fixed_2pinned"
)

// Coefficient tables keyed by aspect ratio b/a. Rows are kept sorted by
// ratio; lookup clamps outside the tabulated range and interpolates
// componentwise between adjacent rows.
var families = map[BoundaryFamily][]tableRow{
	Wall3Fixed1Free: {
		{0.5, Coefficients{0.0060, 0.0318, 0.0210, 0.0690}},
		{0.75, Coefficients{0.0110, 0.0280, 0.0335, 0.0635}},
		{1.0, Coefficients{0.0170, 0.0225, 0.0451, 0.0559}},
		{1.25, Coefficients{0.0221, 0.0182, 0.0538, 0.0494}},
		{1.5, Coefficients{0.0268, 0.0146, 0.0604, 0.0440}},
		{1.75, Coefficients{0.0299, 0.0120, 0.0650, 0.0397}},
		{2.0, Coefficients{0.0322, 0.0100, 0.0683, 0.0363}},
	},
	Wall2Fixed2Free: {
		{0.5, Coefficients{0.0092, 0.0405, 0.0280, 0.0815}},
		{0.75, Coefficients{0.0158, 0.0352, 0.0421, 0.0748}},
		{1.0, Coefficients{0.0230, 0.0288, 0.0542, 0.0662}},
		{1.25, Coefficients{0.0291, 0.0232, 0.0635, 0.0582}},
		{1.5, Coefficients{0.0342, 0.0186, 0.0706, 0.0517}},
		{1.75, Coefficients{0.0380, 0.0152, 0.0758, 0.0466}},
		{2.0, Coefficients{0.0407, 0.0126, 0.0796, 0.0425}},
	},
	Slab4Fixed: {
		{0.5, Coefficients{0.0406, 0.0105, 0.0829, 0.0570}},
		{0.75, Coefficients{0.0317, 0.0150, 0.0726, 0.0581}},
		{1.0, Coefficients{0.0176, 0.0176, 0.0513, 0.0513}},
		{1.25, Coefficients{0.0113, 0.0168, 0.0392, 0.0470}},
		{1.5, Coefficients{0.0076, 0.0149, 0.0317, 0.0415}},
		{1.75, Coefficients{0.0053, 0.0131, 0.0269, 0.0373}},
		{2.0, Coefficients{0.0040, 0.0117, 0.0237, 0.0341}},
	},
	Slab4Pinned: {
		{0.5, Coefficients{0.0965, 0.0174, 0, 0}},
		{0.75, Coefficients{0.0681, 0.0293, 0, 0}},
		{1.0, Coefficients{0.0442, 0.0442, 0, 0}},
		{1.25, Coefficients{0.0296, 0.0411, 0, 0}},
		{1.5, Coefficients{0.0208, 0.0356, 0, 0}},
		{1.75, Coefficients{0.0152, 0.0305, 0, 0}},
		{2.0, Coefficients{0.0115, 0.0263, 0, 0}},
	},
	Slab2Fixed2Pinned: {
		{0.5, Coefficients{0.0583, 0.0131, 0.1212, 0}},
		{0.75, Coefficients{0.0447, 0.0199, 0.1028, 0}},
		{1.0, Coefficients{0.0280, 0.0271, 0.0787, 0}},
		{1.25, Coefficients{0.0182, 0.0272, 0.0607, 0}},
		{1.5, Coefficients{0.0123, 0.0243, 0.0487, 0}},
		{1.75, Coefficients{0.0087, 0.0212, 0.0406, 0}},
		{2.0, Coefficients{0.0064, 0.0186, 0.0349, 0}},
	},
}

func init() {
	for _, rows := range families {
		sort.Slice(rows, func(i, j int) bool { return rows[i].Ratio < rows[j].Ratio })
	}
}

// Lookup returns the interpolated coefficient tuple for an aspect ratio
// b/a, clamped to the tabulated range.
func Lookup(family BoundaryFamily, ratio float64) (Coefficients, error) {
	rows, ok := families[family]
	if !ok {
		return Coefficients{}, fmt.Errorf("unknown boundary family %q", family)
	}
	if ratio <= 0 {
		return Coefficients{}, fmt.Errorf("aspect ratio must be positive, got %g", ratio)
	}
	n := len(rows)
	if ratio <= rows[0].Ratio {
		return rows[0].C, nil
	}
	if ratio >= rows[n-1].Ratio {
		return rows[n-1].C, nil
	}
	i := sort.Search(n, func(i int) bool { return rows[i].Ratio >= ratio })
	lo, hi := rows[i-1], rows[i]
	t := (ratio - lo.Ratio) / (hi.Ratio - lo.Ratio)
	lerp := func(a, b float64) float64 { return a + t*(b-a) }
	return Coefficients{
		AlphaX: lerp(lo.C.AlphaX, hi.C.AlphaX),
		AlphaY: lerp(lo.C.AlphaY, hi.C.AlphaY),
		BetaX:  lerp(lo.C.BetaX, hi.C.BetaX),
		BetaY:  lerp(lo.C.BetaY, hi.C.BetaY),
	}, nil
}

// MomentSet holds the four plate design moments in kNm/m.
type MomentSet struct {
	SpanX    float64      `json:"span_x_knm"`
	SpanY    float64      `json:"span_y_knm"`
	SupportX float64      `json:"support_x_knm"`
	SupportY float64      `json:"support_y_knm"`
	C        Coefficients `json:"coefficients"`
}

// Moments computes M = c*q*a^2 for every coefficient of the family at
// the given aspect ratio. qDesign in kN/m2, a (short span) in m.
func Moments(family BoundaryFamily, ratio, qDesign, aM float64) (MomentSet, *calclog.Step, error) {
	if qDesign <= 0 || aM <= 0 {
		return MomentSet{}, nil, fmt.Errorf("design load and span must be positive")
	}
	c, err := Lookup(family, ratio)
	if err != nil {
		return MomentSet{}, nil, err
	}
	qa2 := qDesign * aM * aM
	ms := MomentSet{
		SpanX:    c.AlphaX * qa2,
		SpanY:    c.AlphaY * qa2,
		SupportX: c.BetaX * qa2,
		SupportY: c.BetaY * qa2,
		C:        c,
	}
	step := calclog.NewStep("plate_moments", "M = c*q*a^2", map[string]calclog.InputValue{
		"q":       {Value: qDesign, Unit: "kN/m2", Description: "design load"},
		"a":       {Value: aM, Unit: "m", Description: "short span"},
		"b/a":     {Value: ratio, Description: "aspect ratio"},
		"alpha_x": {Value: c.AlphaX},
		"alpha_y": {Value: c.AlphaY},
		"beta_x":  {Value: c.BetaX},
		"beta_y":  {Value: c.BetaY},
	}, ms.SupportX, "kNm/m")
	step.Condition = string(family)
	return ms, step, nil
}
