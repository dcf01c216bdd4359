package dlt

import (
	"encoding/binary"
	"errors"
)

// DecodeMessage decodes one complete DLT frame from the front of buf,
// returning the decoded message, the number of bytes consumed, and an
// error that is one of ErrIncomplete, *ParsingHickup, or *Unrecoverable.
// A storage header is detected by its magic and consumed only when
// present. If filter rejects the message, (nil, consumed, nil) is
// returned: the caller advances past it without treating it as an error.
func DecodeMessage(buf []byte, filter Filter, catalog *Catalog) (*Message, int, error) {
	off := 0
	var storage *StorageHeader
	if len(buf) >= 4 && buf[0] == storageMagic[0] && buf[1] == storageMagic[1] && buf[2] == storageMagic[2] && buf[3] == storageMagic[3] {
		sh, n, err := DecodeStorageHeader(buf)
		if err != nil {
			return nil, 0, classifyDecodeErr(err)
		}
		storage = &sh
		off += n
	}

	std, n, err := DecodeStandardHeader(buf[off:])
	if err != nil {
		return nil, 0, classifyDecodeErr(err)
	}
	off += n

	var ext *ExtendedHeader
	if std.HasExtendedHeader {
		e, n2, err := DecodeExtendedHeader(buf[off:])
		if err != nil {
			return nil, 0, classifyDecodeErr(err)
		}
		ext = &e
		off += n2
	}

	payloadLen := int(std.PayloadLength)
	if len(buf) < off+payloadLen {
		return nil, 0, ErrIncomplete
	}
	payloadBuf := buf[off : off+payloadLen]
	bo := byteOrder(std.Endianness)

	payload, err := decodePayload(payloadBuf, bo, ext)
	if err != nil {
		return nil, 0, classifyDecodeErr(err)
	}
	off += payloadLen

	msg := &Message{
		StorageHeader:  storage,
		Header:         std,
		ExtendedHeader: ext,
		Payload:        payload,
		Fibex:          catalog,
	}

	if filter != nil && !filter.Allow(msg) {
		return nil, off, nil
	}
	return msg, off, nil
}

func decodePayload(buf []byte, bo binary.ByteOrder, ext *ExtendedHeader) (PayloadContent, error) {
	if ext != nil && ext.Verbose {
		var args []Argument
		remaining := buf
		for i := uint8(0); i < ext.ArgumentCount; i++ {
			a, n, err := DecodeArgument(remaining, bo)
			if err != nil {
				if errors.Is(err, ErrIncomplete) {
					return PayloadContent{}, &ArgumentTruncated{Reason: "fewer bytes than declared argument_count implies"}
				}
				return PayloadContent{}, err
			}
			args = append(args, a)
			remaining = remaining[n:]
		}
		return PayloadContent{Kind: PayloadVerbose, Arguments: args}, nil
	}

	if ext != nil && ext.MessageType.Category == CategoryControl {
		if len(buf) < 1 {
			return PayloadContent{}, &ArgumentTruncated{Reason: "control payload missing service id"}
		}
		data := make([]byte, len(buf)-1)
		copy(data, buf[1:])
		return PayloadContent{Kind: PayloadControl, Control: CtrlKindFromServiceID(buf[0]), Data: data}, nil
	}

	if len(buf) < 4 {
		return PayloadContent{}, &ArgumentTruncated{Reason: "non-verbose payload missing message id"}
	}
	msgID := bo.Uint32(buf[0:4])
	data := make([]byte, len(buf)-4)
	copy(data, buf[4:])
	return PayloadContent{Kind: PayloadNonVerbose, MessageID: msgID, Data: data}, nil
}

// classifyDecodeErr maps header-decode errors onto the recoverable/fatal kinds:
// ErrIncomplete passes through (streaming "not yet"), everything else
// (magic mismatch, inconsistent lengths) is a recoverable ParsingHickup
// the caller skips and keeps reading from.
func classifyDecodeErr(err error) error {
	if errors.Is(err, ErrIncomplete) {
		return err
	}
	var hickup *ParsingHickup
	if errors.As(err, &hickup) {
		return err
	}
	return &ParsingHickup{Reason: err.Error()}
}
