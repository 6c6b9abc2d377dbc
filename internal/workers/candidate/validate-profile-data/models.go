// internal/workers/candidate/validate-profile-data/models.go
package validateprofiledata

type Input struct {
	Profile map[string]interface{} `json:"profile"`
}

type Output struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"validationErrors,omitempty"`
}
