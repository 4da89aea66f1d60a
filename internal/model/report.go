package model

// Claim is one fact-check hit: the asserted statement, the verdict a
// fact-checker gave it, and who gave that verdict.
type Claim struct {
	Claim  string `json:"claim"`            // The claim text as published by the fact-checker
	Rating string `json:"rating"`           // Verdict label, free-form (e.g. "False", "Mostly true")
	Source string `json:"source,omitempty"` // Publisher of the verdict
}

// TrustReport is the result shown to the user for one analyzed text.
// Claims keep the order the backend produced them in.
type TrustReport struct {
	AIScore float64 `json:"ai_score"` // Likelihood the text is machine-generated, nominally 0.0-1.0
	Claims  []Claim `json:"claims"`
}

// AnalysisRequest is the body accepted by POST /analyze
type AnalysisRequest struct {
	Text string `json:"text"`
}

// AnalysisResponse is the body returned by POST /analyze
type AnalysisResponse struct {
	AIScore  float64  `json:"ai_score"`
	Claims   []Claim  `json:"claims"`
	Status   string   `json:"status"`
	Warnings []string `json:"warnings,omitempty"` // Upstream problems that did not fail the request
}

// StatusSuccess is the only status the service reports for a completed analysis
const StatusSuccess = "success"

// Report returns the trust report carried by the response
func (r AnalysisResponse) Report() TrustReport {
	claims := r.Claims
	if claims == nil {
		claims = []Claim{}
	}
	return TrustReport{
		AIScore: r.AIScore,
		Claims:  claims,
	}
}

// ErrorResponse is the body returned for rejected requests
type ErrorResponse struct {
	Detail string `json:"detail"`
}
