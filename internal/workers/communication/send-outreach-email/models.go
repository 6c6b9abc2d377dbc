// internal/workers/communication/send-outreach-email/models.go
package sendoutreachemail

type Input struct {
	CandidateName  string `json:"candidateName"`
	CandidateEmail string `json:"candidateEmail"`
	RecruiterName  string `json:"recruiterName"`
	Company        string `json:"company"`
	// Skills drives the personalized line in the template, typically the
	// tags the candidate matched on.
	Skills []string `json:"skills,omitempty"`
	// Body overrides the generated template when the recruiter wrote their
	// own message.
	Body     string `json:"body,omitempty"`
	Subject  string `json:"subject,omitempty"`
	SMSPhone string `json:"smsPhone,omitempty"`
}

type Output struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	SMSSent   bool   `json:"smsSent"`
	SentAt    string `json:"sentAt"`
}
