package dto

// Response is the envelope for all read API responses
type Response struct {
	Data  any        `json:"data,omitempty"`
	Meta  *Meta      `json:"meta,omitempty"`
	Error *ErrorInfo `json:"error,omitempty"`
}

// Meta carries pagination metadata for list responses
type Meta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

// ErrorInfo describes a failed request
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewSuccessResponse wraps data in a success envelope
func NewSuccessResponse(data any) Response {
	return Response{Data: data}
}

// NewSuccessResponseWithMeta wraps a page of data with pagination metadata
func NewSuccessResponseWithMeta(data any, total int64, page, perPage int) Response {
	return Response{
		Data: data,
		Meta: &Meta{
			Page:    page,
			PerPage: perPage,
			Total:   total,
		},
	}
}

// NewErrorResponse wraps an error code and message in the envelope
func NewErrorResponse(code, message string) Response {
	return Response{
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}
