package dto

import "repohub/internal/model"

// RepositoryRequest is decoded loosely: a field holding the wrong JSON type
// is treated as absent instead of failing the request.
type RepositoryRequest struct {
	Title any `json:"title"`
	URL   any `json:"url"`
	Techs any `json:"techs"`
}

func (r RepositoryRequest) TitleValue() string {
	s, _ := r.Title.(string)
	return s
}

func (r RepositoryRequest) URLValue() string {
	s, _ := r.URL.(string)
	return s
}

// TechsValue keeps the string entries of a techs array, in order.
func (r RepositoryRequest) TechsValue() []string {
	items, ok := r.Techs.([]any)
	if !ok {
		return nil
	}
	techs := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			techs = append(techs, s)
		}
	}
	return techs
}

type HealthResponse struct {
	Status      string `json:"status"`
	Subscribers int    `json:"subscribers"`
}

type LikesResponse struct {
	Likes int `json:"likes"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Success: false, Code: code, Message: message}
}

// RepositoryList never serialises as null.
func RepositoryList(repos []model.Repository) []model.Repository {
	if repos == nil {
		return []model.Repository{}
	}
	return repos
}
