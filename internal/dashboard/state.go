// Package dashboard implements the Aegis trust-report dashboard: the view
// state and its transitions, the client that submits drafts to the /analyze
// service, and the terminal presentation of the resulting report.
package dashboard

import "github.com/ppiankov/aegis/internal/model"

// Notice is a blocking notification shown to the user until dismissed
type Notice struct {
	Message string
	Failure *Failure
}

// State is everything the dashboard shows. It is owned by a single view and
// only changed through the transition functions below, none of which do I/O.
type State struct {
	Draft  string
	Busy   bool
	Report *model.TrustReport // nil until the first successful analysis
	Notice *Notice

	// InFlight counts submissions that have started and not yet settled.
	// Overlapping submissions are allowed to race; Busy stays set until
	// the last one settles.
	InFlight int
}

// UpdateDraft replaces the draft verbatim
func UpdateDraft(s *State, text string) {
	s.Draft = text
}

// OnRequestStart marks a submission as outstanding and returns the payload
// captured at this moment. Later edits to the draft do not change it.
func OnRequestStart(s *State) string {
	s.InFlight++
	s.Busy = true
	return s.Draft
}

// OnRequestSuccess replaces the report wholesale with the one received
func OnRequestSuccess(s *State, report model.TrustReport) {
	s.Report = &report
	settle(s)
}

// OnRequestFailure leaves the report untouched and raises one notice
func OnRequestFailure(s *State, failure *Failure) {
	s.Notice = &Notice{
		Message: NoticeMessage(failure),
		Failure: failure,
	}
	settle(s)
}

// Apply routes a settled submission to the matching transition
func Apply(s *State, result Result) {
	if result.OK() {
		OnRequestSuccess(s, *result.Report)
		return
	}
	OnRequestFailure(s, result.Failure)
}

// DismissNotice clears the current notice, if any
func DismissNotice(s *State) {
	s.Notice = nil
}

func settle(s *State) {
	if s.InFlight > 0 {
		s.InFlight--
	}
	s.Busy = s.InFlight > 0
}
