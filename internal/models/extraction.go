package models

// ExtractedExpense is a draft filled from a PDF. It is returned to the
// caller for review and never stored automatically.
type ExtractedExpense struct {
	Draft      CreateExpenseRequest `json:"draft"`
	Confidence map[string]float32   `json:"confidence"`
}
