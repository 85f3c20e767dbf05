package domain

import "math"

// SafetyBuffer is the fixed over-order multiplier applied before the waste factor.
const SafetyBuffer = 1.2

// Prediction is the recommended order quantity for a roster.
type Prediction struct {
	ConfirmedCount int
	WasteFactor    float64
	TotalOrders    int
	ExtraOrders    int
}

// Predict derives the total and surplus meal count from confirmed participants.
func Predict(confirmedCount int, wasteFactor float64) Prediction {
	if confirmedCount < 0 {
		confirmedCount = 0
	}
	if wasteFactor < 0 || math.IsNaN(wasteFactor) || math.IsInf(wasteFactor, 0) {
		wasteFactor = 0
	}
	total := int(math.Floor(float64(confirmedCount) * SafetyBuffer * (1 + wasteFactor)))
	extra := total - confirmedCount
	if extra < 0 {
		extra = 0
	}
	return Prediction{
		ConfirmedCount: confirmedCount,
		WasteFactor:    wasteFactor,
		TotalOrders:    total,
		ExtraOrders:    extra,
	}
}

// EstimatedCost prices the total orders. A nil cost means no provider was selected
// and yields nil rather than zero.
func (p Prediction) EstimatedCost(costPerPerson *float64) *float64 {
	if costPerPerson == nil {
		return nil
	}
	cost := float64(p.TotalOrders) * *costPerPerson
	return &cost
}
