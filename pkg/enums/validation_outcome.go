package enums

// ValidationOutcome classifies a listing draft before it is sent out.
type ValidationOutcome string

const (
	// ValidationOK means the draft can be submitted as is.
	ValidationOK ValidationOutcome = "ok"
	// ValidationWarn means the draft is valid but the caller must confirm it.
	ValidationWarn ValidationOutcome = "warn"
	// ValidationReject means the draft must not be submitted.
	ValidationReject ValidationOutcome = "reject"
)

func (v ValidationOutcome) String() string {
	return string(v)
}

// Blocks reports whether the outcome forbids submission outright.
func (v ValidationOutcome) Blocks() bool {
	return v == ValidationReject
}
