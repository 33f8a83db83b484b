package domain

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityPending Severity = "pending"
	SeverityInfo    Severity = "info"
)

type Status struct {
	Severity Severity `json:"severity"`
	Fill     string   `json:"fill"`
	Shape    string   `json:"shape"`
	Text     string   `json:"text"`
}

// Outcome names the terminal state an evaluation ended in.
type Outcome string

const (
	OutcomeEmitted         Outcome = "emitted"
	OutcomeUnchanged       Outcome = "unchanged"
	OutcomeWaiting         Outcome = "waiting"
	OutcomeMissingExternal Outcome = "missing_external"
)

// Result is the acknowledged result of one evaluation. Output is nil unless
// Outcome is OutcomeEmitted.
type Result struct {
	Outcome  Outcome  `json:"outcome"`
	Status   Status   `json:"status"`
	Present  *bool    `json:"present,omitempty"`
	Distance *float64 `json:"distance_km,omitempty"`
	Output   Message  `json:"output,omitempty"`
}
