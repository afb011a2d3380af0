package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leofalp/wfextract/core/pipeline"
	"github.com/leofalp/wfextract/internal/utils"
)

// APIResponse is the envelope for every JSON reply.
type APIResponse struct {
	Success   bool             `json:"success"`
	RequestID string           `json:"request_id,omitempty"`
	Data      *pipeline.Result `json:"data,omitempty"`
	Error     *APIError        `json:"error,omitempty"`
}

// APIError describes a failed extraction.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// RawText is the unsalvageable text, truncated.
	RawText string `json:"raw_text,omitempty"`
}

const rawTextLimit = 2000

// respondOK sends a 200 envelope holding result.
func respondOK(c *gin.Context, result *pipeline.Result) {
	c.JSON(http.StatusOK, APIResponse{Success: true, RequestID: c.GetString(requestIDKey), Data: result})
}

// respondError sends an error envelope with the given status code.
func respondError(c *gin.Context, status int, apiErr *APIError) {
	c.JSON(status, APIResponse{Success: false, RequestID: c.GetString(requestIDKey), Error: apiErr})
}

// mapPipelineError translates pipeline errors to HTTP status codes and error
// codes.
func mapPipelineError(err error) (int, *APIError) {
	apiErr := &APIError{Message: err.Error()}
	if raw, ok := pipeline.RawText(err); ok {
		apiErr.RawText = utils.TruncateString(raw, rawTextLimit)
	}

	switch kind := pipeline.ErrorKind(err); kind {
	case pipeline.KindStream:
		apiErr.Code = "STREAM_FAILURE"
		if errors.Is(err, pipeline.ErrBufferLimit) {
			apiErr.Code = "STREAM_TOO_LARGE"
			return http.StatusRequestEntityTooLarge, apiErr
		}
		return http.StatusBadRequest, apiErr
	case pipeline.KindNoRegion:
		apiErr.Code = "NO_STRUCTURED_REGION"
		return http.StatusUnprocessableEntity, apiErr
	case pipeline.KindSyntax:
		apiErr.Code = "JSON_SYNTAX_ERROR"
		return http.StatusUnprocessableEntity, apiErr
	case pipeline.KindSchema:
		apiErr.Code = "SCHEMA_REPAIR_ERROR"
		return http.StatusUnprocessableEntity, apiErr
	default:
		apiErr.Code = "INTERNAL"
		return http.StatusInternalServerError, apiErr
	}
}
