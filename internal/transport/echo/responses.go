package echo

import (
	"errors"
	"net/http"

	apperrors "watermark-service/pkg/errors"
)

type SuccessResponse struct {
	Status       string      `json:"status"`
	ResponseCode int         `json:"response_code"`
	Data         interface{} `json:"data"`
}

type FailureResponse struct {
	Status       string `json:"status"`
	ResponseCode int    `json:"response_code"`
	ErrorMessage string `json:"error_message"`
}

func getSuccessResponse(data interface{}) SuccessResponse {
	return SuccessResponse{
		Status:       "Success",
		ResponseCode: http.StatusOK,
		Data:         data,
	}
}

func getFailureResponse(code int, message string) FailureResponse {
	return FailureResponse{
		Status:       "Failure",
		ResponseCode: code,
		ErrorMessage: message,
	}
}

// mapError translates pipeline errors to HTTP status and a client-safe
// message. Server-side failures never leak internal detail.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrAssetNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, apperrors.ErrFileSizeExceeded):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, apperrors.ErrInvalidConfig):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrProcessingTimeout):
		return http.StatusGatewayTimeout, "watermark processing timed out"
	default:
		return http.StatusInternalServerError, "watermark processing failed"
	}
}
