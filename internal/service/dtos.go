package service

// SubmitDetail is one scored subcharacteristic in a submission. The
// characteristic id and percentage are declared by the caller; the id is
// validated against the catalog, the percentage is used as-is for the
// weighting arithmetic.
type SubmitDetail struct {
	SubcharacteristicID      int64   `json:"subcharacteristic_id"`
	Score                    int     `json:"score"`
	Comment                  string  `json:"comment"`
	CharacteristicID         int64   `json:"characteristic_id"`
	CharacteristicPercentage float64 `json:"characteristic_percentage"`
}

type SubmitEvaluationRequest struct {
	SoftwareID int64          `json:"software_id"`
	Details    []SubmitDetail `json:"details"`
}

type SubcharacteristicScore struct {
	SubcharacteristicID   int64  `json:"subcharacteristic_id"`
	SubcharacteristicName string `json:"subcharacteristic_name"`
	Score                 int    `json:"score"`
	Comment               string `json:"comment"`
}

type CharacteristicDetails struct {
	QualityCharacteristicID   int64                    `json:"quality_characteristic_id"`
	QualityCharacteristicName string                   `json:"quality_characteristic_name"`
	Subcharacteristics        []SubcharacteristicScore `json:"subcharacteristics"`
}

// EvaluationDetailView is the latest evaluation of a software with its
// raw scores grouped by owning characteristic.
type EvaluationDetailView struct {
	EvaluationID    int64                   `json:"evaluation_id"`
	Characteristics []CharacteristicDetails `json:"characteristics"`
}

// EvaluatedSoftware is one row of the per-user software list. Date and
// percentages are pre-formatted for display.
type EvaluatedSoftware struct {
	SoftwareID       int64  `json:"software_id"`
	SoftwareName     string `json:"software_name"`
	EvaluationID     int64  `json:"evaluation_id"`
	EvaluationDate   string `json:"evaluation_date"`
	GlobalPercentage string `json:"global_percentage"`
	Result           string `json:"result"`
}

type CharacteristicSummaryRow struct {
	CharacteristicName    string `json:"characteristic_name"`
	Value                 int    `json:"value"`
	MaxValue              int    `json:"max_value"`
	ResultPercentage      string `json:"result_percentage"`
	WeightedPercentage    string `json:"weighted_percentage"`
	MaxPossiblePercentage string `json:"max_possible_percentage"`
}

type CharacteristicSummaryView struct {
	EvaluationID int64                      `json:"evaluation_id"`
	SoftwareID   int64                      `json:"software_id"`
	Summaries    []CharacteristicSummaryRow `json:"summaries"`
}
