package errors

import (
	"errors"
	"fmt"
)

// Domain errors - Sentinel errors for use with errors.Is()
var (
	ErrInvalidConfig     = errors.New("invalid watermark configuration")
	ErrAssetNotFound     = errors.New("asset not found")
	ErrFileSizeExceeded  = errors.New("file size limit exceeded")
	ErrStoreTransport    = errors.New("object store transport failure")
	ErrDecode            = errors.New("image decode failure")
	ErrEncode            = errors.New("image encode failure")
	ErrProcessing        = errors.New("image processing failure")
	ErrProcessingTimeout = errors.New("processing timeout exceeded")
	ErrCatalogInsert     = errors.New("catalog insert failure")
	ErrUnsafePath        = errors.New("unsafe path argument")
	ErrInternalServer    = errors.New("internal server error")
)

// Custom error type with context
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Constructors
func InvalidConfig(msg string) *AppError {
	return &AppError{Code: "INVALID_CONFIG", Message: msg, Err: ErrInvalidConfig}
}

func AssetNotFound(msg string) *AppError {
	return &AppError{Code: "ASSET_NOT_FOUND", Message: msg, Err: ErrAssetNotFound}
}

func FileSizeExceeded(msg string) *AppError {
	return &AppError{Code: "FILE_SIZE_EXCEEDED", Message: msg, Err: ErrFileSizeExceeded}
}

func StoreTransport(msg string, err error) *AppError {
	return &AppError{Code: "STORE_TRANSPORT", Message: msg, Err: join(ErrStoreTransport, err)}
}

func Decode(msg string, err error) *AppError {
	return &AppError{Code: "DECODE", Message: msg, Err: join(ErrDecode, err)}
}

func Encode(msg string, err error) *AppError {
	return &AppError{Code: "ENCODE", Message: msg, Err: join(ErrEncode, err)}
}

func Processing(msg string, err error) *AppError {
	return &AppError{Code: "PROCESSING", Message: msg, Err: join(ErrProcessing, err)}
}

func ProcessingTimeout(msg string) *AppError {
	return &AppError{Code: "PROCESSING_TIMEOUT", Message: msg, Err: ErrProcessingTimeout}
}

func CatalogInsert(msg string, err error) *AppError {
	return &AppError{Code: "CATALOG_INSERT", Message: msg, Err: join(ErrCatalogInsert, err)}
}

func UnsafePath(msg string) *AppError {
	return &AppError{Code: "UNSAFE_PATH", Message: msg, Err: join(ErrInvalidConfig, ErrUnsafePath)}
}

func InternalServer(msg string, err error) *AppError {
	return &AppError{Code: "INTERNAL_SERVER_ERROR", Message: msg, Err: join(ErrInternalServer, err)}
}

func join(sentinel, err error) error {
	if err == nil {
		return sentinel
	}
	return errors.Join(sentinel, err)
}
