package qerr

import "fmt"

// A TransportError is a connection-fatal error: the connection-level
// event described in spec.md §7. Raising one tears down every stream
// on the connection; there is no partial/stream-scoped recovery from it.
type TransportError struct {
	ErrorCode    TransportErrorCode
	FrameType    uint64 // 0 if the error isn't attributable to a single frame type
	ErrorMessage string
}

func (e *TransportError) Error() string {
	if e.ErrorMessage == "" {
		return e.ErrorCode.String()
	}
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.ErrorMessage)
}

// NewTransportError builds a connection-fatal error attributable to a
// specific frame type.
func NewTransportError(code TransportErrorCode, frameType uint64, msg string) *TransportError {
	return &TransportError{ErrorCode: code, FrameType: frameType, ErrorMessage: msg}
}

// FlowControlErrorf reports that the peer exceeded MAX_DATA/MAX_STREAM_DATA
// or that an end offset exceeded the wire maximum varint.
func FlowControlErrorf(format string, args ...interface{}) *TransportError {
	return &TransportError{ErrorCode: FlowControlError, ErrorMessage: fmt.Sprintf(format, args...)}
}

// FinalSizeErrorf reports a FIN/RESET_STREAM final-size inconsistency.
func FinalSizeErrorf(format string, args ...interface{}) *TransportError {
	return &TransportError{ErrorCode: FinalSizeError, ErrorMessage: fmt.Sprintf(format, args...)}
}

// TransportParameterErrorf reports use of an unnegotiated feature.
func TransportParameterErrorf(format string, args ...interface{}) *TransportError {
	return &TransportError{ErrorCode: TransportParameterError, ErrorMessage: fmt.Sprintf(format, args...)}
}

// InternalErrorf reports an internal bookkeeping failure, such as a
// SparseAckRanges allocation failure.
func InternalErrorf(format string, args ...interface{}) *TransportError {
	return &TransportError{ErrorCode: InternalError, ErrorMessage: fmt.Sprintf(format, args...)}
}
