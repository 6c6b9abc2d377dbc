// internal/workers/candidate/add-timeline-event/models.go
package addtimelineevent

type Input struct {
	CandidateID      string   `json:"candidateId"`
	Title            string   `json:"title"`
	Organization     string   `json:"organization,omitempty"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	Responsibilities string   `json:"responsibilities,omitempty"`
	Description      string   `json:"description,omitempty"`
}

type Output struct {
	EventID     int64    `json:"eventId"`
	CandidateID string   `json:"candidateId"`
	Tags        []string `json:"tags"`
}
