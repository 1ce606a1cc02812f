package dto

type ErrorResponse struct {
	Status int    `json:"status"`
	Detail string `json:"detail"`
}
