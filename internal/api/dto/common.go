package dto

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// ValueResponse carries the result of a single field view. At is set for
// views evaluated at a point in time.
type ValueResponse[T any] struct {
	ID    int64 `json:"id,omitempty"`
	At    int64 `json:"at,omitempty"`
	Value T     `json:"value"`
}

// ListResponse is a plain list wrapper
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func NewListResponse[T any](items []T) *ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return &ListResponse[T]{Items: items, Total: len(items)}
}
