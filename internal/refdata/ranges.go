package refdata

// Package refdata holds the static clinical reference data used to validate
// extracted lab observations: population-normal ranges, critical ranges, and
// the age/gender adjustment rules applied on top of the base ranges.
//
// The tables are process-lifetime constants. Accessors return copies so
// callers can never mutate the shared data.

// ReferenceRange is the population-normal interval for a lab value.
type ReferenceRange struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Unit string  `json:"unit"`
}

// CriticalRange marks values requiring urgent clinical attention. Values at
// or beyond either bound are flagged critical regardless of the normal range.
type CriticalRange struct {
	CriticalLow  float64 `json:"critical_low"`
	CriticalHigh float64 `json:"critical_high"`
}

var baseRanges = map[string]ReferenceRange{
	"hemoglobin":            {Min: 12, Max: 16, Unit: "g/dL"},
	"glucose":               {Min: 70, Max: 140, Unit: "mg/dL"},
	"creatinine":            {Min: 0.6, Max: 1.3, Unit: "mg/dL"},
	"wbc":                   {Min: 4.5, Max: 11.0, Unit: "10^3/µL"},
	"platelets":             {Min: 150, Max: 450, Unit: "10^3/µL"},
	"sodium":                {Min: 136, Max: 145, Unit: "mmol/L"},
	"potassium":             {Min: 3.5, Max: 5.0, Unit: "mmol/L"},
	"chloride":              {Min: 98, Max: 107, Unit: "mmol/L"},
	"co2":                   {Min: 22, Max: 28, Unit: "mmol/L"},
	"urea":                  {Min: 7, Max: 20, Unit: "mg/dL"},
	"hba1c":                 {Min: 4, Max: 6, Unit: "%"},
	"alt":                   {Min: 7, Max: 56, Unit: "U/L"},
	"ast":                   {Min: 10, Max: 40, Unit: "U/L"},
	"bilirubin":             {Min: 0.1, Max: 1.2, Unit: "mg/dL"},
	"albumin":               {Min: 3.5, Max: 5.0, Unit: "g/dL"},
	"calcium":               {Min: 8.5, Max: 10.5, Unit: "mg/dL"},
	"phosphorus":            {Min: 2.5, Max: 4.5, Unit: "mg/dL"},
	"magnesium":             {Min: 1.7, Max: 2.2, Unit: "mg/dL"},
	"cholesterol":           {Min: 0, Max: 200, Unit: "mg/dL"},
	"hdl":                   {Min: 40, Max: 100, Unit: "mg/dL"},
	"ldl":                   {Min: 0, Max: 100, Unit: "mg/dL"},
	"triglycerides":         {Min: 0, Max: 150, Unit: "mg/dL"},
	"tsh":                   {Min: 0.4, Max: 4.0, Unit: "mIU/L"},
	"t4":                    {Min: 4.5, Max: 12.0, Unit: "µg/dL"},
	"t3":                    {Min: 80, Max: 200, Unit: "ng/dL"},
	"ferritin":              {Min: 15, Max: 200, Unit: "ng/mL"},
	"iron":                  {Min: 60, Max: 170, Unit: "µg/dL"},
	"tibc":                  {Min: 240, Max: 450, Unit: "µg/dL"},
	"transferrin":           {Min: 200, Max: 400, Unit: "mg/dL"},
	"vitamin_d":             {Min: 30, Max: 100, Unit: "ng/mL"},
	"vitamin_b12":           {Min: 200, Max: 900, Unit: "pg/mL"},
	"folate":                {Min: 3, Max: 20, Unit: "ng/mL"},
	"psa":                   {Min: 0, Max: 4, Unit: "ng/mL"},
	"crp":                   {Min: 0, Max: 3, Unit: "mg/L"},
	"esr":                   {Min: 0, Max: 20, Unit: "mm/hr"},
	"pt":                    {Min: 11, Max: 13, Unit: "seconds"},
	"ptt":                   {Min: 25, Max: 35, Unit: "seconds"},
	"inr":                   {Min: 0.8, Max: 1.1, Unit: "ratio"},
	"d_dimer":               {Min: 0, Max: 0.5, Unit: "mg/L"},
	"troponin":              {Min: 0, Max: 0.04, Unit: "ng/mL"},
	"ck_mb":                 {Min: 0, Max: 5, Unit: "ng/mL"},
	"bnp":                   {Min: 0, Max: 100, Unit: "pg/mL"},
	"nt_probnp":             {Min: 0, Max: 125, Unit: "pg/mL"},
	"lactate":               {Min: 0.5, Max: 2.2, Unit: "mmol/L"},
	"ammonia":               {Min: 15, Max: 45, Unit: "µmol/L"},
	"uric_acid":             {Min: 3.5, Max: 7.2, Unit: "mg/dL"},
	"lactate_dehydrogenase": {Min: 140, Max: 280, Unit: "U/L"},
	"alkaline_phosphatase":  {Min: 44, Max: 147, Unit: "U/L"},
	"gamma_gt":              {Min: 9, Max: 48, Unit: "U/L"},
	"amylase":               {Min: 23, Max: 85, Unit: "U/L"},
	"lipase":                {Min: 0, Max: 60, Unit: "U/L"},
}

var criticalRanges = map[string]CriticalRange{
	"glucose":    {CriticalLow: 40, CriticalHigh: 400},
	"sodium":     {CriticalLow: 120, CriticalHigh: 160},
	"potassium":  {CriticalLow: 2.5, CriticalHigh: 6.5},
	"creatinine": {CriticalLow: 0.2, CriticalHigh: 5.0},
	"hemoglobin": {CriticalLow: 6, CriticalHigh: 20},
	"platelets":  {CriticalLow: 20, CriticalHigh: 1000},
	"wbc":        {CriticalLow: 1.0, CriticalHigh: 30.0},
	"troponin":   {CriticalLow: 0, CriticalHigh: 0.1},
	"lactate":    {CriticalLow: 0, CriticalHigh: 4.0},
	"ammonia":    {CriticalLow: 0, CriticalHigh: 100},
}

const elderlyAge = 65

// ReferenceRangeFor returns the reference range for the given lab name,
// adjusted for age and gender when rules exist. Age is optional (nil means
// unknown). Gender matching is exact: only "female" triggers the female
// adjustments; callers are expected to pass a lowercased value.
// The second return value is false when the lab name is unknown.
func ReferenceRangeFor(labName string, age *int, gender string) (ReferenceRange, bool) {
	base, ok := baseRanges[labName]
	if !ok {
		return ReferenceRange{}, false
	}

	ranges := base

	if age != nil && *age > elderlyAge {
		if labName == "creatinine" {
			ranges.Max = 1.2
		}
		if labName == "hemoglobin" {
			ranges.Min = 11
		}
	}

	if gender == "female" {
		if labName == "hemoglobin" {
			ranges.Min = 11
		}
		if labName == "ferritin" {
			ranges.Min = 10
		}
	}

	return ranges, true
}

// CriticalRangeFor returns the critical range for the given lab name.
// Only a subset of labs carry critical bounds; the second return value is
// false for the rest.
func CriticalRangeFor(labName string) (CriticalRange, bool) {
	cr, ok := criticalRanges[labName]
	return cr, ok
}

// KnownLabs returns the closed vocabulary of lab names with a reference
// range, in no particular order.
func KnownLabs() []string {
	names := make([]string, 0, len(baseRanges))
	for name := range baseRanges {
		names = append(names, name)
	}
	return names
}
