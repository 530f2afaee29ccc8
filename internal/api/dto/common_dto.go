package dto

import (
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/pkg/util/paging"
)

// ListQuery holds the paging parameters every list endpoint accepts.
type ListQuery struct {
	Page    int  `query:"page" validate:"omitempty,min=1,max=25"`
	Limit   int  `query:"limit" validate:"omitempty,min=1,max=100"`
	Deleted bool `query:"deleted"`
}

// ToService converts the query to the service form.
func (q ListQuery) ToService() service.ListQuery {
	return service.ListQuery{Page: q.Page, Limit: q.Limit, Deleted: q.Deleted}
}

// PageResponse is a page of items plus pagination metadata.
type PageResponse[T any] struct {
	Items []T         `json:"items"`
	Meta  paging.Meta `json:"meta"`
}

// MapPage converts every item of a service page.
func MapPage[S, T any](page service.PageResult[S], convert func(*S) T) PageResponse[T] {
	items := make([]T, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, convert(&page.Items[i]))
	}
	return PageResponse[T]{Items: items, Meta: page.Meta}
}

// MapSlice converts every item of a slice.
func MapSlice[S, T any](in []S, convert func(*S) T) []T {
	out := make([]T, 0, len(in))
	for i := range in {
		out = append(out, convert(&in[i]))
	}
	return out
}

// MessageResponse carries a confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// StatusRequest toggles the active flag of a category or priority.
type StatusRequest struct {
	Status *bool `json:"status" validate:"required"`
}
