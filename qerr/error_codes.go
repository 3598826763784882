// Package qerr defines the RFC 9000 transport error codes that the
// transport core can raise as connection-fatal events.
package qerr

//go:generate stringer -type=TransportErrorCode -output error_codes_string.go

// A TransportErrorCode is one of the error codes defined by RFC 9000,
// plus the core-specific codes this implementation raises internally.
type TransportErrorCode uint64

const (
	// NoError means no error occurred.
	NoError TransportErrorCode = 0x0
	// InternalError signals that the endpoint encountered an internal
	// error and cannot continue with the connection.
	InternalError TransportErrorCode = 0x1
	// FlowControlError signals that the peer violated flow control:
	// it sent more data than was permitted by the advertised credit.
	FlowControlError TransportErrorCode = 0x3
	// StreamLimitError signals that the peer opened more streams than
	// permitted.
	StreamLimitError TransportErrorCode = 0x4
	// StreamStateError signals that the peer sent a frame for a stream
	// that was not in a state that permitted that frame.
	StreamStateError TransportErrorCode = 0x5
	// FinalSizeError signals that the peer sent data or a RESET_STREAM
	// that is inconsistent with a previously established final size.
	FinalSizeError TransportErrorCode = 0x6
	// InvalidParameter signals a frame with a structurally invalid field,
	// escalated to FrameEncodingError at the connection layer.
	InvalidParameter TransportErrorCode = 0x7
	// TransportParameterError signals a problem with a transport
	// parameter, including use of a feature that was not negotiated
	// (e.g. an unnegotiated RELIABLE_RESET_STREAM).
	TransportParameterError TransportErrorCode = 0x8
	// ApplicationError is a substitute used when closing a connection
	// with an application-supplied error code at a non-1-RTT key phase.
	ApplicationError TransportErrorCode = 0xc
)

func (e TransportErrorCode) String() string {
	switch e {
	case NoError:
		return "NoError"
	case InternalError:
		return "InternalError"
	case FlowControlError:
		return "FlowControlError"
	case StreamLimitError:
		return "StreamLimitError"
	case StreamStateError:
		return "StreamStateError"
	case FinalSizeError:
		return "FinalSizeError"
	case InvalidParameter:
		return "InvalidParameter"
	case TransportParameterError:
		return "TransportParameterError"
	case ApplicationError:
		return "ApplicationError"
	default:
		return "unknown error code"
	}
}
