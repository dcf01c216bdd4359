// Package dlt implements the AUTOSAR Diagnostic Log and Trace wire codec: a
// bit-exact binary format with optional headers, per-message endianness,
// self-describing verbose arguments, and a FIBEX-backed non-verbose mode.
package dlt

import (
	"fmt"
	"time"
)

// Endianness selects the byte order a Message's payload (and the TypeInfo
// word inside every verbose argument) is encoded in. The storage header is
// always little-endian on the wire regardless of this setting.
type Endianness uint8

const (
	LittleEndian Endianness = iota
	BigEndian
)

func (e Endianness) String() string {
	if e == BigEndian {
		return "big"
	}
	return "little"
}

// TimeStamp is a DLT storage timestamp: whole seconds plus a microsecond
// fraction in [0, 1_000_000].
type TimeStamp struct {
	Seconds      uint32
	Microseconds uint32
}

// FromMillis builds a TimeStamp from a millisecond count. It truncates
// sub-millisecond precision the same way the original implementation does:
// microseconds = (ms % 1000) * 1000. See DESIGN.md Open Question (a).
func FromMillis(ms uint64) TimeStamp {
	return TimeStamp{
		Seconds:      uint32(ms / 1000),
		Microseconds: uint32(ms%1000) * 1000,
	}
}

// String renders the timestamp as RFC-3339 UTC, or a diagnostic placeholder
// when the seconds/microseconds pair falls outside what time.Time can
// represent as a valid calendar date (e.g. overflowing year 9999).
func (t TimeStamp) String() string {
	tm := time.Unix(int64(t.Seconds), int64(t.Microseconds)*1000).UTC()
	if tm.Year() > 9999 || tm.Year() < 0 {
		return fmt.Sprintf("no valid timestamp for %ds/%dus", t.Seconds, t.Microseconds)
	}
	return tm.Format(time.RFC3339)
}

// LogLevelKind enumerates the DLT log severities.
type LogLevelKind uint8

const (
	LogFatal LogLevelKind = iota + 1
	LogError
	LogWarn
	LogInfo
	LogDebug
	LogVerbose
	LogInvalid
)

// LogLevel is MessageType's Log payload. InvalidValue carries the raw 7..15
// nibble when Kind is LogInvalid.
type LogLevel struct {
	Kind         LogLevelKind
	InvalidValue uint8
}

func (l LogLevel) String() string {
	switch l.Kind {
	case LogFatal:
		return "FATAL"
	case LogError:
		return "Error"
	case LogWarn:
		return "WARN"
	case LogInfo:
		return "INFO"
	case LogDebug:
		return "DEBUG"
	case LogVerbose:
		return "VERBOSE"
	default:
		return fmt.Sprintf("INVALID (0x%02X)", l.InvalidValue)
	}
}

// mtin returns the 4-bit message-type-info nibble this level encodes to.
func (l LogLevel) mtin() uint8 {
	switch l.Kind {
	case LogFatal:
		return 1
	case LogError:
		return 2
	case LogWarn:
		return 3
	case LogInfo:
		return 4
	case LogDebug:
		return 5
	case LogVerbose:
		return 6
	default:
		return l.InvalidValue & 0xF
	}
}

func logLevelFromMTIN(v uint8) LogLevel {
	switch v {
	case 1:
		return LogLevel{Kind: LogFatal}
	case 2:
		return LogLevel{Kind: LogError}
	case 3:
		return LogLevel{Kind: LogWarn}
	case 4:
		return LogLevel{Kind: LogInfo}
	case 5:
		return LogLevel{Kind: LogDebug}
	case 6:
		return LogLevel{Kind: LogVerbose}
	default:
		return LogLevel{Kind: LogInvalid, InvalidValue: v}
	}
}

// AppTraceKindValue enumerates MessageType's ApplicationTrace sub-kinds.
type AppTraceKindValue uint8

const (
	AppTraceVariable AppTraceKindValue = iota + 1
	AppTraceFunctionIn
	AppTraceFunctionOut
	AppTraceState
	AppTraceVfb
	AppTraceInvalid
)

type AppTraceKind struct {
	Kind         AppTraceKindValue
	InvalidValue uint8
}

func (a AppTraceKind) String() string {
	switch a.Kind {
	case AppTraceVariable:
		return "VARIABLE"
	case AppTraceFunctionIn:
		return "FUNC_IN"
	case AppTraceFunctionOut:
		return "FUNC_OUT"
	case AppTraceState:
		return "STATE"
	case AppTraceVfb:
		return "VFB"
	default:
		return fmt.Sprintf("invalid(%d)", a.InvalidValue)
	}
}

func (a AppTraceKind) mtin() uint8 {
	switch a.Kind {
	case AppTraceVariable:
		return 1
	case AppTraceFunctionIn:
		return 2
	case AppTraceFunctionOut:
		return 3
	case AppTraceState:
		return 4
	case AppTraceVfb:
		return 5
	default:
		return a.InvalidValue & 0xF
	}
}

func appTraceFromMTIN(v uint8) AppTraceKind {
	switch v {
	case 1:
		return AppTraceKind{Kind: AppTraceVariable}
	case 2:
		return AppTraceKind{Kind: AppTraceFunctionIn}
	case 3:
		return AppTraceKind{Kind: AppTraceFunctionOut}
	case 4:
		return AppTraceKind{Kind: AppTraceState}
	case 5:
		return AppTraceKind{Kind: AppTraceVfb}
	default:
		return AppTraceKind{Kind: AppTraceInvalid, InvalidValue: v}
	}
}

// NetKindValue enumerates MessageType's NetworkTrace sub-kinds.
type NetKindValue uint8

const (
	NetInvalid NetKindValue = iota
	NetIpc
	NetCan
	NetFlexray
	NetMost
	NetEthernet
	NetSomeip
	NetUserDefined
)

type NetKind struct {
	Kind           NetKindValue
	UserDefinedVal uint8
}

func (n NetKind) String() string {
	switch n.Kind {
	case NetIpc:
		return "IPC"
	case NetCan:
		return "CAN"
	case NetFlexray:
		return "FLEXRAY"
	case NetMost:
		return "MOST"
	case NetEthernet:
		return "ETHERNET"
	case NetSomeip:
		return "SOMEIP"
	case NetUserDefined:
		return fmt.Sprintf("USERDEFINED(%d)", n.UserDefinedVal)
	default:
		return "INVALID"
	}
}

func (n NetKind) mtin() uint8 {
	switch n.Kind {
	case NetIpc:
		return 1
	case NetCan:
		return 2
	case NetFlexray:
		return 3
	case NetMost:
		return 4
	case NetEthernet:
		return 5
	case NetSomeip:
		return 6
	case NetUserDefined:
		return n.UserDefinedVal & 0xF
	default:
		return 0
	}
}

func netKindFromMTIN(v uint8) NetKind {
	switch v {
	case 0:
		return NetKind{Kind: NetInvalid}
	case 1:
		return NetKind{Kind: NetIpc}
	case 2:
		return NetKind{Kind: NetCan}
	case 3:
		return NetKind{Kind: NetFlexray}
	case 4:
		return NetKind{Kind: NetMost}
	case 5:
		return NetKind{Kind: NetEthernet}
	case 6:
		return NetKind{Kind: NetSomeip}
	default:
		return NetKind{Kind: NetUserDefined, UserDefinedVal: v}
	}
}

// CtrlKindValue enumerates MessageType's Control sub-kinds.
type CtrlKindValue uint8

const (
	CtrlRequest CtrlKindValue = iota + 1
	CtrlResponse
	CtrlUnknown
)

type CtrlKind struct {
	Kind         CtrlKindValue
	UnknownValue uint8
}

func (c CtrlKind) String() string {
	switch c.Kind {
	case CtrlRequest:
		return "REQ"
	case CtrlResponse:
		return "RES"
	default:
		return fmt.Sprintf("%d", c.UnknownValue)
	}
}

// ServiceID returns the byte placed in the control payload's first byte.
func (c CtrlKind) ServiceID() uint8 {
	switch c.Kind {
	case CtrlRequest:
		return 1
	case CtrlResponse:
		return 2
	default:
		return c.UnknownValue
	}
}

func (c CtrlKind) mtin() uint8 {
	switch c.Kind {
	case CtrlRequest:
		return 1
	case CtrlResponse:
		return 2
	default:
		return c.UnknownValue & 0xF
	}
}

func ctrlKindFromMTIN(v uint8) CtrlKind {
	switch v {
	case 1:
		return CtrlKind{Kind: CtrlRequest}
	case 2:
		return CtrlKind{Kind: CtrlResponse}
	default:
		return CtrlKind{Kind: CtrlUnknown, UnknownValue: v}
	}
}

// CtrlKindFromServiceID maps a control payload's leading service-id byte
// back to a CtrlKind, the inverse of ServiceID.
func CtrlKindFromServiceID(b uint8) CtrlKind {
	switch b {
	case 1:
		return CtrlKind{Kind: CtrlRequest}
	case 2:
		return CtrlKind{Kind: CtrlResponse}
	default:
		return CtrlKind{Kind: CtrlUnknown, UnknownValue: b}
	}
}

// MessageTypeCategory is MessageType's discriminant.
type MessageTypeCategory uint8

const (
	CategoryLog MessageTypeCategory = iota
	CategoryAppTrace
	CategoryNetTrace
	CategoryControl
	CategoryUnknown
)

// MessageType is the extended header's MSTP/MTIN pair, decoded into one of
// Log/ApplicationTrace/NetworkTrace/Control/Unknown.
type MessageType struct {
	Category    MessageTypeCategory
	Log         LogLevel
	AppTrace    AppTraceKind
	NetTrace    NetKind
	Control     CtrlKind
	UnknownMSTP uint8
	UnknownMTIN uint8
}

func (m MessageType) String() string {
	switch m.Category {
	case CategoryLog:
		return m.Log.String()
	case CategoryAppTrace:
		return m.AppTrace.String()
	case CategoryNetTrace:
		return m.NetTrace.String()
	case CategoryControl:
		return m.Control.String()
	default:
		return fmt.Sprintf("Unkown MSTP (%d, %d)", m.UnknownMSTP, m.UnknownMTIN)
	}
}

// encodeMessageInfo packs the MSTP/MTIN pair into bits 1-7 of the
// extended header's first byte (the verbose bit, bit 0, is added by the
// caller): mstp<<1 | mtin<<4.
func (m MessageType) encodeMessageInfo() uint8 {
	switch m.Category {
	case CategoryLog:
		return 0<<1 | m.Log.mtin()<<4
	case CategoryAppTrace:
		return 1<<1 | m.AppTrace.mtin()<<4
	case CategoryNetTrace:
		return 2<<1 | m.NetTrace.mtin()<<4
	case CategoryControl:
		return 3<<1 | m.Control.mtin()<<4
	default:
		return (m.UnknownMSTP&0x7)<<1 | (m.UnknownMTIN&0xF)<<4
	}
}

// decodeMessageType recovers a MessageType from the extended header's first
// byte (verbose bit already stripped by the caller is not required; only
// bits 1-7 are consulted).
func decodeMessageType(b uint8) MessageType {
	mstp := (b >> 1) & 0b111
	mtin := (b >> 4) & 0b1111
	switch mstp {
	case 0:
		return MessageType{Category: CategoryLog, Log: logLevelFromMTIN(mtin)}
	case 1:
		return MessageType{Category: CategoryAppTrace, AppTrace: appTraceFromMTIN(mtin)}
	case 2:
		return MessageType{Category: CategoryNetTrace, NetTrace: netKindFromMTIN(mtin)}
	case 3:
		return MessageType{Category: CategoryControl, Control: ctrlKindFromMTIN(mtin)}
	default:
		return MessageType{Category: CategoryUnknown, UnknownMSTP: mstp, UnknownMTIN: mtin}
	}
}

// MessageInfoFromFibex maps the FIBEX frame-metadata MessageInfo strings
// (DLT_LOG_FATAL, ...) to a Log MessageType. It returns false if the string
// is not a recognized DLT_LOG_* tag.
func MessageInfoFromFibex(s string) (MessageType, bool) {
	var kind LogLevelKind
	switch s {
	case "DLT_LOG_FATAL":
		kind = LogFatal
	case "DLT_LOG_ERROR":
		kind = LogError
	case "DLT_LOG_WARN":
		kind = LogWarn
	case "DLT_LOG_INFO":
		kind = LogInfo
	case "DLT_LOG_DEBUG":
		kind = LogDebug
	case "DLT_LOG_VERBOSE":
		kind = LogVerbose
	default:
		return MessageType{}, false
	}
	return MessageType{Category: CategoryLog, Log: LogLevel{Kind: kind}}, true
}

// Sentinel runes reserved to delimit fields in a rendered output line. They
// must never appear literally in a rendered string value.
const (
	ColumnSeparator   = ''
	ArgumentSeparator = ''
	NewlineSentinel   = ''
)
