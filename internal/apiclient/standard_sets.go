package apiclient

import (
	"context"
	"net/http"

	"codereview-frontend/internal/models"
)

// CreateStandardSetRequest is the body sent to POST /standard-sets.
type CreateStandardSetRequest struct {
	Name          string `json:"name"`
	RepositoryURL string `json:"repository_url"`
	CustomPrompt  string `json:"custom_prompt"`
}

// CreateClassificationRequest is the body sent to POST /classifications.
type CreateClassificationRequest struct {
	Name string `json:"name"`
}

func (c *Client) ListStandardSets(ctx context.Context) ([]models.StandardSet, error) {
	var out []models.StandardSet
	if err := c.do(ctx, http.MethodGet, "standard-sets", "/standard-sets", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetStandardSet(ctx context.Context, id string) (models.StandardSet, error) {
	var out models.StandardSet
	if err := c.do(ctx, http.MethodGet, "standard-sets/{id}", "/standard-sets/"+escape(id), nil, &out); err != nil {
		return models.StandardSet{}, err
	}
	return out, nil
}

func (c *Client) CreateStandardSet(ctx context.Context, req CreateStandardSetRequest) (models.StandardSet, error) {
	var out models.StandardSet
	if err := c.do(ctx, http.MethodPost, "standard-sets", "/standard-sets", req, &out); err != nil {
		return models.StandardSet{}, err
	}
	return out, nil
}

func (c *Client) DeleteStandardSet(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "standard-sets/{id}", "/standard-sets/"+escape(id), nil, nil)
}

func (c *Client) ListClassifications(ctx context.Context) ([]models.Classification, error) {
	var out []models.Classification
	if err := c.do(ctx, http.MethodGet, "classifications", "/classifications", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateClassification(ctx context.Context, req CreateClassificationRequest) (models.Classification, error) {
	var out models.Classification
	if err := c.do(ctx, http.MethodPost, "classifications", "/classifications", req, &out); err != nil {
		return models.Classification{}, err
	}
	return out, nil
}

func (c *Client) DeleteClassification(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "classifications/{id}", "/classifications/"+escape(id), nil, nil)
}
