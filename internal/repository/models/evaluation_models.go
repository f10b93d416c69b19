package models

import "time"

// QualityCharacteristic is a top-level quality dimension with a fixed
// weight toward the global score. Catalog data, read-only here.
type QualityCharacteristic struct {
	ID               int64
	Name             string
	WeightPercentage float64
}

// Subcharacteristic is a scorable leaf item under a characteristic.
// Catalog data, read-only here.
type Subcharacteristic struct {
	ID               int64
	Name             string
	Description      string
	MaxScore         int
	CharacteristicID int64
}

type Software struct {
	ID     int64
	UserID int64
	Name   string
}

// Evaluation is one scoring session for a software product.
type Evaluation struct {
	ID                    int64
	SoftwareID            int64
	Date                  time.Time
	GlobalScorePercentage float64
}

// EvaluationDetail is one raw subcharacteristic score. The name,
// description and max score are frozen snapshots taken at evaluation
// time so later catalog edits do not rewrite history.
type EvaluationDetail struct {
	ID                           int64
	EvaluationID                 int64
	SubcharacteristicID          int64
	Score                        int
	Comment                      string
	SubcharacteristicName        string
	SubcharacteristicDescription string
	MaxScore                     int
}

// EvaluationCharacteristicSummary is the aggregated per-characteristic
// result of one evaluation. Name and weight are frozen snapshots.
type EvaluationCharacteristicSummary struct {
	ID                 int64
	EvaluationID       int64
	CharacteristicID   int64
	Value              int
	MaxValue           int
	ResultPercentage   float64
	WeightedPercentage float64
	CharacteristicName string
	WeightPercentage   float64
}

// DetailWithCatalog is a detail row eager-joined with its owning
// subcharacteristic and that subcharacteristic's characteristic.
type DetailWithCatalog struct {
	Detail            EvaluationDetail
	Subcharacteristic Subcharacteristic
	Characteristic    QualityCharacteristic
}

// SoftwareWithEvaluations is a software row with all of its evaluations
// attached, loaded in a single query.
type SoftwareWithEvaluations struct {
	Software
	Evaluations []Evaluation
}
