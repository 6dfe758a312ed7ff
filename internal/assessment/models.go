package assessment

// RiskBand is the ordered classification a subject can receive.
// Low < Medium < High form the numeric order; AutoHigh and NoGo sit outside
// it and can only be produced by the escalation and stop phases, never by
// weighted scoring.
type RiskBand string

const (
	BandLow      RiskBand = "Low"
	BandMedium   RiskBand = "Medium"
	BandHigh     RiskBand = "High"
	BandAutoHigh RiskBand = "AutoHigh"
	BandNoGo     RiskBand = "NoGo"
)

// ValidBand reports whether s names a known risk band.
func ValidBand(s string) bool {
	switch RiskBand(s) {
	case BandLow, BandMedium, BandHigh, BandAutoHigh, BandNoGo:
		return true
	}
	return false
}

// SubmissionType discriminates the Subject union.
type SubmissionType string

const (
	TypeIndividual SubmissionType = "individual"
	TypeEntity     SubmissionType = "entity"
)

// Solicitation channels. Anything other than face-to-face scores Medium.
const (
	ChannelFaceToFace    = "face_to_face"
	ChannelNonFaceToFace = "non_face_to_face"
)

// Geographical statuses for individuals.
const (
	GeoResidentNational    = "resident_national"
	GeoResidentForeign     = "resident_foreign"
	GeoNonResidentNational = "non_resident_national"
	GeoNonResidentForeign  = "non_resident_foreign"
)

// Subject is the onboarding record under assessment, a tagged union selected
// by SubmissionType. Empty optional fields contribute no factor; the engine
// never requires fields belonging to the other variant.
type Subject struct {
	SubmissionType SubmissionType `json:"submissionType"`

	// Individual fields
	Nationality        string `json:"nationality,omitempty"`
	GeographicalStatus string `json:"geographicalStatus,omitempty"`
	CountryOfResidence string `json:"countryOfResidence,omitempty"`
	EmploymentType     string `json:"employmentType,omitempty"`
	IsPEP              bool   `json:"isPEP,omitempty"`

	// Entity fields
	NatureOfBusiness      string   `json:"natureOfBusiness,omitempty"`
	CountryOfRegistration string   `json:"countryOfRegistration,omitempty"`
	TradeCountries        []string `json:"expectedCountriesOfTrade,omitempty"`
	EntityPEP             bool     `json:"entityPEP,omitempty"`

	// Common fields
	SolicitationChannel string   `json:"solicitationChannel,omitempty"`
	ExpectedCountries   []string `json:"expectedCountries,omitempty"`
	Products            []string `json:"productUsage,omitempty"`
}

// ParameterScore is one evaluated factor of a weighted assessment. The
// ordered sequence of these is the audit trail; never mutated after creation.
type ParameterScore struct {
	Name   string   `json:"parameter"`
	Value  string   `json:"value"`
	Band   RiskBand `json:"riskLevel"`
	Score  float64  `json:"score"`
	Weight float64  `json:"weight"`
}

// Method records which phase produced the result.
type Method string

const (
	MethodImmediateStop   Method = "immediate_stop"
	MethodAutoHigh        Method = "auto_high"
	MethodWeightedAverage Method = "weighted_average"
)

// Result is the outcome of a single assessment. One instance per invocation;
// no cross-invocation state.
type Result struct {
	FinalBand       RiskBand         `json:"finalRisk"`
	Score           float64          `json:"score"`
	Reasons         []string         `json:"reasons"`
	StopReasons     []string         `json:"stopReasons,omitempty"`
	ParameterScores []ParameterScore `json:"parameterScores"`
	Method          Method           `json:"calculationMethod"`
}
