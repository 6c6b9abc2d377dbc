// internal/workers/candidate/create-candidate-record/models.go
package createcandidaterecord

type Input struct {
	CandidateID  string `json:"candidateId,omitempty"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Location     string `json:"location,omitempty"`
	Availability string `json:"availability,omitempty"`
	ProfileText  string `json:"profileText,omitempty"`
}

type Output struct {
	CandidateID string `json:"candidateId"`
	Created     bool   `json:"created"`
	CreatedAt   string `json:"createdAt"`
}
