package guardrail

// Reason is the machine-readable code explaining why a query was blocked.
type Reason string

// Block reasons, in evaluation order.
const (
	ReasonNone     Reason = ""
	ReasonDenylist Reason = "denylist"
	ReasonBudget   Reason = "budget"
)

// Verdict is the outcome of running a query through the guardrail gate.
// A blocked verdict is a successful outcome, not an error.
type Verdict struct {
	Blocked bool
	Reason  Reason
	// Term is the denylist phrase (or combo) that matched; empty otherwise.
	Term string
	// Words is the whitespace word count of the query.
	Words int
}

// Pass returns a non-blocking verdict.
func Pass(words int) Verdict {
	return Verdict{Words: words}
}

// Block returns a blocking verdict.
func Block(reason Reason, term string, words int) Verdict {
	return Verdict{Blocked: true, Reason: reason, Term: term, Words: words}
}
