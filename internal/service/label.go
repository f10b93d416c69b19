package service

// ResultLabel maps a global score percentage to its qualitative label.
// Band upper bounds are inclusive. The 70→81 band is narrower than the
// others; that asymmetry is part of the evaluation scheme.
func ResultLabel(percentage float64) string {
	switch {
	case percentage <= 30:
		return "Deficient"
	case percentage <= 50:
		return "Insufficient"
	case percentage <= 70:
		return "Acceptable"
	case percentage <= 81:
		return "Outstanding"
	default:
		return "Excellent"
	}
}
