package dashboard

import (
	"fmt"

	"github.com/ppiankov/aegis/internal/model"
)

// FailureKind classifies why a submission did not produce a report
type FailureKind int

const (
	// FailureTransport covers connection errors, timeouts and cancellation
	FailureTransport FailureKind = iota
	// FailureStatus is a response with a non-2xx status code
	FailureStatus
	// FailureMalformed is a 2xx response whose body is not a valid trust report
	FailureMalformed
)

func (k FailureKind) String() string {
	switch k {
	case FailureTransport:
		return "transport"
	case FailureStatus:
		return "status"
	case FailureMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Failure describes a submission that did not complete successfully
type Failure struct {
	Kind       FailureKind
	StatusCode int // set for FailureStatus
	Err        error
}

func (f *Failure) Error() string {
	switch f.Kind {
	case FailureStatus:
		return fmt.Sprintf("analysis request failed: status %d", f.StatusCode)
	case FailureMalformed:
		return fmt.Sprintf("analysis request failed: malformed response: %v", f.Err)
	default:
		return fmt.Sprintf("analysis request failed: %v", f.Err)
	}
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Result is the outcome of one submission: either a report or a failure
type Result struct {
	Report  *model.TrustReport
	Failure *Failure
}

// Ok wraps a successfully received report
func Ok(report model.TrustReport) Result {
	return Result{Report: &report}
}

// Err wraps a failure
func Err(failure *Failure) Result {
	return Result{Failure: failure}
}

// OK reports whether the submission produced a report
func (r Result) OK() bool {
	return r.Failure == nil && r.Report != nil
}

// Unwrap returns the result as a conventional (report, error) pair
func (r Result) Unwrap() (*model.TrustReport, error) {
	if r.OK() {
		return r.Report, nil
	}
	if r.Failure == nil {
		return nil, &Failure{Kind: FailureMalformed, Err: fmt.Errorf("empty result")}
	}
	return nil, r.Failure
}

// NoticeMessage is the user-facing text for a failure
func NoticeMessage(f *Failure) string {
	if f != nil && f.Kind == FailureMalformed {
		return "Backend returned a malformed report."
	}
	return "Failed to connect to backend."
}
