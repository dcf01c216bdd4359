package dlt

import "encoding/binary"

// PayloadKind is PayloadContent's discriminant.
type PayloadKind uint8

const (
	PayloadVerbose PayloadKind = iota
	PayloadNonVerbose
	PayloadControl
)

// PayloadContent is a Message's body: a sequence of self-describing
// arguments, an opaque non-verbose frame, or a control-service request.
type PayloadContent struct {
	Kind      PayloadKind
	Arguments []Argument // Verbose
	MessageID uint32     // NonVerbose
	Data      []byte     // NonVerbose (opaque bytes) / Control (opaque body)
	Control   CtrlKind   // Control
}

// ArgumentCount mirrors the ExtendedHeader invariant: for Verbose
// payloads it is min(255, len(Arguments)); otherwise 0.
func (p PayloadContent) ArgumentCount() uint8 {
	if p.Kind != PayloadVerbose {
		return 0
	}
	if len(p.Arguments) > 255 {
		return 255
	}
	return uint8(len(p.Arguments))
}

// Encode serializes p in message endianness bo.
func (p PayloadContent) Encode(bo binary.ByteOrder) []byte {
	switch p.Kind {
	case PayloadVerbose:
		var buf []byte
		for _, a := range p.Arguments {
			buf = append(buf, a.Encode(bo)...)
		}
		return buf
	case PayloadNonVerbose:
		buf := make([]byte, 4)
		bo.PutUint32(buf, p.MessageID)
		return append(buf, p.Data...)
	case PayloadControl:
		buf := []byte{p.Control.ServiceID()}
		return append(buf, p.Data...)
	default:
		return nil
	}
}
