package models

import "time"

// QAEntry is one technical question and the respondent's answer. Index is
// the zero-based emission order.
type QAEntry struct {
	Index    int    `json:"index"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Submission is what the engine hands to the record store. ID is the
// session id, so repeated saves of one session address one record.
type Submission struct {
	ID      string
	Profile Profile
	QA      []QAEntry
}

// CandidateRow mirrors the candidates table. Email, PhoneNumber and
// CurrentLocation hold ciphertext tokens; TechnicalResponses is the JSON
// encoded QA log.
type CandidateRow struct {
	ID                 string
	CreatedAt          time.Time
	Name               string
	PhoneNumber        string
	Email              string
	CurrentLocation    string
	ExperienceYears    *int
	DesiredPositions   string
	TechStack          string
	TechnicalResponses string
}

// Candidate is a stored record with sensitive fields decrypted.
type Candidate struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Profile   Profile   `json:"profile"`
	Responses []QAEntry `json:"technical_responses"`
}
