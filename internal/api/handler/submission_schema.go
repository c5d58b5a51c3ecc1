package handler

import "github.com/communityzine/magazine-system/internal/core/domain"

type submitRequest struct {
	Category string `json:"category" validate:"required,oneof=my_news saying_hello my_say"`
	Body     string `json:"body"     validate:"required,max=4000"`
}

type submissionListResponse struct {
	Items []*domain.Submission `json:"items"`
	Count int                  `json:"count"`
}

type moderateRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}
