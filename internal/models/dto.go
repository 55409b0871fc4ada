package models

// MatchResponse is returned by POST /match. The ID lets a later generate
// request reuse this analysis instead of paying for a second scoring pass.
type MatchResponse struct {
	ID        string            `json:"id"`
	Candidate *CandidateProfile `json:"candidate"`
	Match     *MatchResult      `json:"match"`
}

// ErrorResponse is the uniform error payload at the HTTP boundary. Kind is
// present for the typed pipeline failures so the caller can pick the right
// corrective message.
type ErrorResponse struct {
	Error string    `json:"error"`
	Kind  ErrorKind `json:"kind,omitempty"`
}
