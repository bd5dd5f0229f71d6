package domain

// Verdict is the binary outcome of scoring a transaction.
type Verdict int

const (
	NotFraud Verdict = 0
	Fraud    Verdict = 1
)

// Label returns the classifier label backing the verdict.
func (v Verdict) Label() int {
	return int(v)
}

// String renders the verdict the way the presentation layer shows it.
func (v Verdict) String() string {
	if v == Fraud {
		return "Fraud detected"
	}
	return "No fraud detected"
}
