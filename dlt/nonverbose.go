package dlt

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// renderNonVerbose looks up the message id's frame metadata in catalog
// and renders its PDU/signal sequence against data.
func renderNonVerbose(messageID uint32, data []byte, bo binary.ByteOrder, ext *ExtendedHeader, catalog *Catalog) (string, error) {
	fm, ok := catalog.Lookup(messageID, ext)
	if !ok {
		return fallbackRendering(messageID, ext), nil
	}

	var rendered []string
	off := 0
	for _, pdu := range fm.PDUs {
		if pdu.Description != nil {
			rendered = append(rendered, *pdu.Description)
			continue
		}
		for _, t := range pdu.SignalTypes {
			s, n, err := decodeSignal(data[off:], bo, t)
			if err != nil {
				return "", err
			}
			rendered = append(rendered, s)
			off += n
		}
	}
	return strings.Join(rendered, string(rune(ArgumentSeparator))), nil
}

func fallbackRendering(messageID uint32, ext *ExtendedHeader) string {
	hint := "-"
	if ext != nil {
		hint = ext.MessageType.String()
	}
	return fmt.Sprintf("[%d] %s", messageID, hint)
}

// decodeSignal consumes one FIBEX-described signal from buf, returning its
// rendered text and the number of bytes consumed.
func decodeSignal(buf []byte, bo binary.ByteOrder, t TypeInfo) (string, int, error) {
	switch t.Kind {
	case KindStringType:
		if len(buf) < 2 {
			return "", 0, &NonVerboseTruncated{Reason: "string length"}
		}
		n := int(bo.Uint16(buf[0:2]))
		if len(buf) < 2+n {
			return "", 0, &NonVerboseTruncated{Reason: "string body"}
		}
		return string(buf[2 : 2+n]), 2 + n, nil
	case KindRaw:
		if len(buf) < 2 {
			return "", 0, &NonVerboseTruncated{Reason: "raw length"}
		}
		n := int(bo.Uint16(buf[0:2]))
		if len(buf) < 2+n {
			return "", 0, &NonVerboseTruncated{Reason: "raw body"}
		}
		return fmt.Sprintf("%x", buf[2:2+n]), 2 + n, nil
	case KindBool:
		if len(buf) < 1 {
			return "", 0, &NonVerboseTruncated{Reason: "bool"}
		}
		return fmt.Sprintf("%t", buf[0] != 0), 1, nil
	case KindFloat:
		n := t.Length / 8
		if len(buf) < n {
			return "", 0, &NonVerboseTruncated{Reason: "float"}
		}
		if t.Length == 32 {
			return fmt.Sprintf("%v", math.Float32frombits(bo.Uint32(buf[0:4]))), 4, nil
		}
		return fmt.Sprintf("%v", math.Float64frombits(bo.Uint64(buf[0:8]))), 8, nil
	case KindSigned:
		v, n, err := decodeSigned(buf, bo, t.Length)
		if err != nil {
			return "", 0, &NonVerboseTruncated{Reason: "signed"}
		}
		return v.String(), n, nil
	case KindUnsigned:
		v, n, err := decodeUnsigned(buf, bo, t.Length)
		if err != nil {
			return "", 0, &NonVerboseTruncated{Reason: "unsigned"}
		}
		return v.String(), n, nil
	case KindSignedFixedPoint, KindUnsignedFixedPoint:
		fp, used, err := decodeFixedPoint(buf, bo, t.Length == 64)
		if err != nil {
			return "", 0, &NonVerboseTruncated{Reason: "fixed-point header"}
		}
		var raw Value
		var n int
		if t.Kind == KindSignedFixedPoint {
			raw, n, err = decodeSigned(buf[used:], bo, t.Length)
		} else {
			raw, n, err = decodeUnsigned(buf[used:], bo, t.Length)
		}
		if err != nil {
			return "", 0, &NonVerboseTruncated{Reason: "fixed-point value"}
		}
		return fmt.Sprintf("%d", fp.LogicalValue(raw)), used + n, nil
	default:
		return "", 0, &NonVerboseTruncated{Reason: "unsupported signal kind"}
	}
}
