package models

import "encoding/json"

// CodeReview is a single automated review run against a repository.
type CodeReview struct {
	ID                string             `json:"_id"`
	RepositoryURL     string             `json:"repository_url"`
	Status            Status             `json:"status"`
	StandardSets      []string           `json:"standard_sets,omitempty"`
	ComplianceReports []ComplianceReport `json:"compliance_reports,omitempty"`
	CreatedAt         Timestamp          `json:"created_at"`
	UpdatedAt         Timestamp          `json:"updated_at"`
}

// ComplianceReport is the markdown report produced for one standard set.
type ComplianceReport struct {
	ID              string `json:"_id,omitempty"`
	StandardSetName string `json:"standard_set_name"`
	Report          string `json:"report"`
}

// ReviewStatus is the payload served to pollers.
type ReviewStatus struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
}

// UnmarshalJSON accepts either "_id" or "id" as the identifier.
func (r *CodeReview) UnmarshalJSON(data []byte) error {
	type alias CodeReview
	var aux struct {
		alias
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = CodeReview(aux.alias)
	if r.ID == "" {
		r.ID = aux.AltID
	}
	return nil
}
