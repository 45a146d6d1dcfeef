package geartrain

import (
	"geartrain/internal/kinematics"
	"geartrain/internal/report"
)

// ComputeRequest is the JSON body for POST /api/geartrain. Ratios use the
// same whitespace-separated text as the form.
type ComputeRequest struct {
	Module          float64 `json:"module"`
	BaseTeeth       int     `json:"base_teeth"`
	InputSpeed      float64 `json:"input_speed"`
	Ratios          string  `json:"ratios"`
	ToothPolicy     string  `json:"tooth_policy,omitempty"`
	RatioValidation string  `json:"ratio_validation,omitempty"`
}

// ComputeResponse is the JSON response for POST /api/geartrain.
type ComputeResponse struct {
	Params          kinematics.Params `json:"params"`
	ToothPolicy     string            `json:"tooth_policy"`
	RatioValidation string            `json:"ratio_validation"`
	Gears           kinematics.Chain  `json:"gears"`
	Table           []report.Row      `json:"table"`
	OverallRatio    float64           `json:"overall_ratio"`
}

// BatchResult is one row of a batch response. Exactly one of Gears and
// Error is set.
type BatchResult struct {
	Row   int              `json:"row"`
	Gears kinematics.Chain `json:"gears,omitempty"`
	Error string           `json:"error,omitempty"`
}

// BatchResponse is the JSON response for POST /geartrain/batch.
type BatchResponse struct {
	Count   int           `json:"count"`
	Failed  int           `json:"failed"`
	Results []BatchResult `json:"results"`
}
