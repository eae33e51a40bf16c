package dto

const defaultPageSize = 20

// Response is the envelope of every API answer
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorInfo is set on failures. Kind carries the domain error kind when
// the failure came from the domain layer.
type ErrorInfo struct {
	Code      string             `json:"code"`
	Kind      string             `json:"kind,omitempty"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail names one rejected request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta describes the page returned by a list endpoint
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// Paged wraps one page of a listing. Non-positive page and size fall back
// to the first page of twenty.
func Paged(data any, total int64, page, pageSize int) Response {
	page = max(page, 1)
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	pages := (total + int64(pageSize) - 1) / int64(pageSize)
	return Response{
		Success: true,
		Data:    data,
		Meta:    &Meta{Total: total, Page: page, PageSize: pageSize, TotalPages: int(pages)},
	}
}

func Fail(code, message, requestID string) Response {
	return Response{Error: &ErrorInfo{Code: code, Message: message, RequestID: requestID}}
}

// Invalid is the 400 body for a request whose fields failed validation
func Invalid(message, requestID string, details []ValidationDetail) Response {
	resp := Fail(ErrCodeValidation, message, requestID)
	resp.Error.Details = details
	return resp
}
