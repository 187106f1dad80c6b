package domain

// Outcome is the structured result of a transition attempt.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Symbol  Symbol `json:"symbol,omitempty"`

	// Previous is the state the attempt started from.
	Previous State `json:"previous,omitempty"`
	// State is the resulting state; equal to Previous on failure.
	State State `json:"state"`

	Failure FailureKind `json:"failure,omitempty"`
	// Valid lists the symbols that would have been accepted (failures only).
	Valid []Symbol `json:"valid,omitempty"`
}

// NeutralOutcome is the last-outcome value of a fresh or reset session.
func NeutralOutcome(state State) Outcome {
	return Outcome{Success: true, State: state}
}

// IsNeutral reports whether no attempt has been recorded since the last reset.
func (o Outcome) IsNeutral() bool {
	return o.Success && o.Symbol == "" && o.Message == ""
}

// Err returns the typed error for a failed attempt, nil otherwise.
func (o Outcome) Err() error {
	if o.Success {
		return nil
	}
	return &TransitionError{
		Kind:   o.Failure,
		State:  o.State,
		Symbol: o.Symbol,
		Valid:  o.Valid,
	}
}
