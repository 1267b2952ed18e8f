package models

import "encoding/json"

// StandardSet is a named collection of coding standards sourced from a repository.
type StandardSet struct {
	ID            string `json:"_id"`
	Name          string `json:"name"`
	RepositoryURL string `json:"repository_url"`
	CustomPrompt  string `json:"custom_prompt,omitempty"`
}

// Classification tags standard sets, e.g. "Python" or "C#".
type Classification struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts either "_id" or "id" as the identifier.
func (s *StandardSet) UnmarshalJSON(data []byte) error {
	type alias StandardSet
	var aux struct {
		alias
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = StandardSet(aux.alias)
	if s.ID == "" {
		s.ID = aux.AltID
	}
	return nil
}

// UnmarshalJSON accepts either "_id" or "id" as the identifier.
func (c *Classification) UnmarshalJSON(data []byte) error {
	type alias Classification
	var aux struct {
		alias
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Classification(aux.alias)
	if c.ID == "" {
		c.ID = aux.AltID
	}
	return nil
}
