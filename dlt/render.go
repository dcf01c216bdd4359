package dlt

import (
	"fmt"
	"strconv"
	"strings"
)

func replaceNewlines(s string) string {
	if !strings.ContainsRune(s, '\n') {
		return s
	}
	return strings.ReplaceAll(s, "\n", string(rune(NewlineSentinel)))
}

// renderArgument formats a single Argument the way it appears inside a
// rendered line's trailing argument column: "name: value", or just
// "value" when unnamed. Fixed-point arguments render their computed
// logical value rather than the raw encoded one.
func renderArgument(a Argument) string {
	var valStr string
	if a.FixedPoint != nil {
		valStr = strconv.FormatUint(a.FixedPoint.LogicalValue(a.Value), 10)
	} else {
		valStr = a.Value.String()
	}
	valStr = replaceNewlines(valStr)

	if a.Name != nil && *a.Name != "" {
		return *a.Name + ": " + valStr
	}
	return valStr
}

// Render produces the tagged-line rendering: columns separated by the
// Column Separator, with a trailing column holding the leading-separator-
// prefixed, Argument-Separator-joined argument renderings (or the
// non-verbose renderer's output).
func (m *Message) Render() string {
	var b strings.Builder
	col := string(rune(ColumnSeparator))

	if m.StorageHeader != nil {
		b.WriteString(m.StorageHeader.Timestamp.String())
		b.WriteString(col)
		b.WriteString(m.StorageHeader.ECUID)
	} else {
		b.WriteString("-")
		b.WriteString(col)
		b.WriteString("-")
	}
	b.WriteString(col)
	b.WriteString(strconv.Itoa(int(m.Header.Version)))
	b.WriteString(col)
	if m.Header.SessionID != nil {
		b.WriteString(strconv.FormatUint(uint64(*m.Header.SessionID), 10))
	}
	b.WriteString(col)
	b.WriteString(strconv.Itoa(int(m.Header.MessageCounter)))
	b.WriteString(col)
	if m.Header.Timestamp != nil {
		b.WriteString(strconv.FormatUint(uint64(*m.Header.Timestamp), 10))
	}
	b.WriteString(col)
	if m.Header.ECUID != nil {
		b.WriteString(*m.Header.ECUID)
	}
	b.WriteString(col)
	if m.ExtendedHeader != nil {
		b.WriteString(m.ExtendedHeader.ApplicationID)
	} else {
		b.WriteString("-")
	}
	b.WriteString(col)
	if m.ExtendedHeader != nil {
		b.WriteString(m.ExtendedHeader.ContextID)
	} else {
		b.WriteString("-")
	}
	b.WriteString(col)
	if m.ExtendedHeader != nil {
		b.WriteString(m.ExtendedHeader.MessageType.String())
	} else {
		b.WriteString("-")
	}

	b.WriteString(col)

	argSep := string(rune(ArgumentSeparator))
	b.WriteString(argSep)
	b.WriteString(m.renderPayload(argSep))
	return b.String()
}

func (m *Message) renderPayload(argSep string) string {
	switch m.Payload.Kind {
	case PayloadVerbose:
		rendered := make([]string, 0, len(m.Payload.Arguments))
		for _, a := range m.Payload.Arguments {
			rendered = append(rendered, renderArgument(a))
		}
		return strings.Join(rendered, argSep)
	case PayloadNonVerbose:
		bo := byteOrder(m.Header.Endianness)
		s, err := renderNonVerbose(m.Payload.MessageID, m.Payload.Data, bo, m.ExtendedHeader, m.Fibex)
		if err != nil {
			return fmt.Sprintf("[%d]", m.Payload.MessageID)
		}
		return s
	case PayloadControl:
		return fmt.Sprintf("%s %x", m.Payload.Control.String(), m.Payload.Data)
	default:
		return ""
	}
}
