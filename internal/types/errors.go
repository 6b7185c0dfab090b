package types

import "fmt"

// DeviceErrorKind enumerates the ways a Source session can fail fatally.
type DeviceErrorKind uint8

const (
	NoDrive DeviceErrorKind = iota
	OpenFailed
	ReadFailed
	IdFailed
)

var deviceErrorNames = map[DeviceErrorKind]string{
	NoDrive:    "no drive",
	OpenFailed: "open failed",
	ReadFailed: "read failed",
	IdFailed:   "disc id failed",
}

// DeviceError is fatal to a ripping session: the drive itself could not
// be read, so no amount of retrying the Source will help.
type DeviceError struct {
	Kind DeviceErrorKind
	Err  error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device error (%s): %v", deviceErrorNames[e.Kind], e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// TransportErrorKind enumerates provider-scoped network failures.
type TransportErrorKind uint8

const (
	TransportTimeout TransportErrorKind = iota
	TransportProtocol
	TransportNotFound
	TransportRateLimited
)

// TransportError is provider-scoped: the Aggregator continues to the next
// provider unless running in strict (non continue-on-error) mode.
type TransportError struct {
	Kind TransportErrorKind
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error (%d): %v", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeErrorKind enumerates provider-scoped response decoding failures.
type DecodeErrorKind uint8

const (
	Malformed DecodeErrorKind = iota
	SchemaMismatch
)

// DecodeError is provider-scoped and is treated exactly like zero matches.
type DecodeError struct {
	Kind DecodeErrorKind
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error (%d): %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IndexOutOfRangeError is a caller bug and is always propagated.
type IndexOutOfRangeError struct {
	Index, Bound int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range [0,%d)", e.Index, e.Bound)
}

// ProtocolViolationError is a sink lock/phase-order caller bug.
type ProtocolViolationError struct {
	Msg string
}

func (e *ProtocolViolationError) Error() string { return "protocol violation: " + e.Msg }

// NotOwnerError is a sink lock-sign mismatch.
type NotOwnerError struct {
	Msg string
}

func (e *NotOwnerError) Error() string { return "not owner: " + e.Msg }

// UnsupportedError marks a feature the current variant does not offer,
// e.g. embedding a cue sheet in a WAVE sink.
type UnsupportedError struct {
	Msg string
}

func (e *UnsupportedError) Error() string { return "unsupported: " + e.Msg }

// TemplateErrorKind enumerates filename-grammar failure shapes.
type TemplateErrorKind uint8

const (
	TemplateUnterminatedQuote TemplateErrorKind = iota
	TemplateUnterminatedGroup
	TemplateUnbalancedGroup
	TemplateBadFunctionCall
)

// TemplateError is fatal to filename generation; Offset is the position,
// counted in runes, in the template string where the grammar broke.
type TemplateError struct {
	Offset int
	Kind   TemplateErrorKind
	Msg    string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template error at offset %d: %s", e.Offset, e.Msg)
}

// AlreadyRunningError signals a mutation of Aggregator input after start().
type AlreadyRunningError struct {
	Msg string
}

func (e *AlreadyRunningError) Error() string { return "already running: " + e.Msg }
