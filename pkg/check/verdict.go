package check

// Status classifies the outcome of an acceptance check.
type Status string

const (
	// StatusAccepted means the result is a valid new entry (or improvement)
	// for its config-key slot.
	StatusAccepted Status = "accepted"
	// StatusDuplicate means an identical or non-improving result already
	// exists for the slot. Informational, not an error.
	StatusDuplicate Status = "duplicate"
	// StatusRejected means the result failed a remote policy check.
	StatusRejected Status = "rejected"
	// StatusTransportFailure means the authority could not be reached or
	// answered with something unintelligible. Retry later; this is not a
	// judgment on the result.
	StatusTransportFailure Status = "transport_failure"
)

// Verdict is the outcome of one acceptance check. Outcomes are values, not
// errors: a non-accepting verdict is an expected result of a check.
type Verdict struct {
	Status Status `json:"status"`
	// Reason explains rejections and transport failures.
	Reason string `json:"reason,omitempty"`
	// SubmissionID is the client-generated id sent with the check request,
	// useful for correlating against server-side logs.
	SubmissionID string `json:"submission_id"`
}

// Retryable reports whether re-issuing the same check could change the
// outcome. Only transport failures are worth retrying; a rejection is a
// policy judgment and a duplicate is already settled.
func (v Verdict) Retryable() bool { return v.Status == StatusTransportFailure }
