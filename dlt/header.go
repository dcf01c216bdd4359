package dlt

import (
	"encoding/binary"
	"fmt"
)

var storageMagic = [4]byte{'D', 'L', 'T', 0x01}

const storageHeaderLen = 16

// StorageHeader records when and from which ECU a message was received. It
// is always encoded little-endian on the wire, independent of the
// message's own endianness.
type StorageHeader struct {
	Timestamp TimeStamp
	ECUID     string
}

// EncodeStorageHeader appends the 16-byte storage header to buf.
func EncodeStorageHeader(buf []byte, h StorageHeader) []byte {
	buf = append(buf, storageMagic[:]...)
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], h.Timestamp.Seconds)
	buf = append(buf, tmp[:]...)
	binary.LittleEndian.PutUint32(tmp[:], h.Timestamp.Microseconds)
	buf = append(buf, tmp[:]...)
	buf = append(buf, padID(h.ECUID, 4)...)
	return buf
}

// DecodeStorageHeader reads a storage header from the front of buf,
// returning the header and the number of bytes consumed.
func DecodeStorageHeader(buf []byte) (StorageHeader, int, error) {
	if len(buf) < storageHeaderLen {
		return StorageHeader{}, 0, ErrIncomplete
	}
	if buf[0] != storageMagic[0] || buf[1] != storageMagic[1] || buf[2] != storageMagic[2] || buf[3] != storageMagic[3] {
		return StorageHeader{}, 0, &ParsingHickup{Reason: "storage header magic mismatch"}
	}
	h := StorageHeader{
		Timestamp: TimeStamp{
			Seconds:      binary.LittleEndian.Uint32(buf[4:8]),
			Microseconds: binary.LittleEndian.Uint32(buf[8:12]),
		},
		ECUID: trimID(buf[12:16]),
	}
	return h, storageHeaderLen, nil
}

// padID right-pads (zero-fills) s to exactly n bytes, truncating if longer.
func padID(s string, n int) []byte {
	out := make([]byte, n)
	copy(out, s)
	return out
}

// trimID strips the zero padding an identifier field was written with.
func trimID(b []byte) string {
	i := 0
	for i < len(b) && b[i] != 0 {
		i++
	}
	return string(b[:i])
}

const (
	flagExtendedHeader = 1 << 0
	flagBigEndian      = 1 << 1
	flagWithECUID      = 1 << 2
	flagWithSessionID  = 1 << 3
	flagWithTimestamp  = 1 << 4
)

// StandardHeader is present on every message and carries version,
// endianness, optional identifiers, and the overall serialized length.
type StandardHeader struct {
	Version           uint8
	Endianness        Endianness
	HasExtendedHeader bool
	MessageCounter    uint8
	ECUID             *string
	SessionID         *uint32
	Timestamp         *uint32
	PayloadLength     uint16
}

// bodyLen returns the number of bytes this header occupies on the wire,
// excluding any storage header and excluding the extended header/payload.
func (h StandardHeader) bodyLen() int {
	n := 4
	if h.ECUID != nil {
		n += 4
	}
	if h.SessionID != nil {
		n += 4
	}
	if h.Timestamp != nil {
		n += 4
	}
	return n
}

// OverallLength is the serialized byte count of standard header + optional
// extended header + payload, matching spec invariant 4 (storage header
// excluded).
func (h StandardHeader) OverallLength() uint16 {
	n := h.bodyLen()
	if h.HasExtendedHeader {
		n += extendedHeaderLen
	}
	n += int(h.PayloadLength)
	return uint16(n)
}

func (h StandardHeader) typeByte() byte {
	var b byte
	if h.HasExtendedHeader {
		b |= flagExtendedHeader
	}
	if h.Endianness == BigEndian {
		b |= flagBigEndian
	}
	if h.ECUID != nil {
		b |= flagWithECUID
	}
	if h.SessionID != nil {
		b |= flagWithSessionID
	}
	if h.Timestamp != nil {
		b |= flagWithTimestamp
	}
	b |= (h.Version & 0x7) << 5
	return b
}

// Encode appends the standard header to buf.
func (h StandardHeader) Encode(buf []byte) []byte {
	buf = append(buf, h.typeByte(), h.MessageCounter)
	var tmp2 [2]byte
	binary.BigEndian.PutUint16(tmp2[:], h.OverallLength())
	buf = append(buf, tmp2[:]...)
	if h.ECUID != nil {
		buf = append(buf, padID(*h.ECUID, 4)...)
	}
	if h.SessionID != nil {
		var tmp4 [4]byte
		binary.BigEndian.PutUint32(tmp4[:], *h.SessionID)
		buf = append(buf, tmp4[:]...)
	}
	if h.Timestamp != nil {
		var tmp4 [4]byte
		binary.BigEndian.PutUint32(tmp4[:], *h.Timestamp)
		buf = append(buf, tmp4[:]...)
	}
	return buf
}

// DecodeStandardHeader reads a standard header (and its trailing optional
// identifier fields) from the front of buf.
func DecodeStandardHeader(buf []byte) (StandardHeader, int, error) {
	if len(buf) < 4 {
		return StandardHeader{}, 0, ErrIncomplete
	}
	typeByte := buf[0]
	h := StandardHeader{
		Version:           (typeByte >> 5) & 0x7,
		HasExtendedHeader: typeByte&flagExtendedHeader != 0,
		MessageCounter:    buf[1],
	}
	if typeByte&flagBigEndian != 0 {
		h.Endianness = BigEndian
	} else {
		h.Endianness = LittleEndian
	}
	overall := binary.BigEndian.Uint16(buf[2:4])

	off := 4
	if typeByte&flagWithECUID != 0 {
		if len(buf) < off+4 {
			return StandardHeader{}, 0, ErrIncomplete
		}
		id := trimID(buf[off : off+4])
		h.ECUID = &id
		off += 4
	}
	if typeByte&flagWithSessionID != 0 {
		if len(buf) < off+4 {
			return StandardHeader{}, 0, ErrIncomplete
		}
		v := binary.BigEndian.Uint32(buf[off : off+4])
		h.SessionID = &v
		off += 4
	}
	if typeByte&flagWithTimestamp != 0 {
		if len(buf) < off+4 {
			return StandardHeader{}, 0, ErrIncomplete
		}
		v := binary.BigEndian.Uint32(buf[off : off+4])
		h.Timestamp = &v
		off += 4
	}

	remaining := int(overall) - h.bodyLen()
	if h.HasExtendedHeader {
		remaining -= extendedHeaderLen
	}
	if remaining < 0 {
		return StandardHeader{}, 0, &InvalidHeader{Reason: fmt.Sprintf("overall_length %d inconsistent with flags", overall)}
	}
	h.PayloadLength = uint16(remaining)
	return h, off, nil
}

const extendedHeaderLen = 10

// ExtendedHeader carries the verbose flag, argument count, message type and
// the application/context identifiers.
type ExtendedHeader struct {
	Verbose       bool
	ArgumentCount uint8
	MessageType   MessageType
	ApplicationID string
	ContextID     string
}

// Encode appends the 10-byte extended header to buf.
func (h ExtendedHeader) Encode(buf []byte) []byte {
	b0 := h.MessageType.encodeMessageInfo()
	if h.Verbose {
		b0 |= 1
	}
	buf = append(buf, b0, h.ArgumentCount)
	buf = append(buf, padID(h.ApplicationID, 4)...)
	buf = append(buf, padID(h.ContextID, 4)...)
	return buf
}

// DecodeExtendedHeader reads the 10-byte extended header from the front of
// buf.
func DecodeExtendedHeader(buf []byte) (ExtendedHeader, int, error) {
	if len(buf) < extendedHeaderLen {
		return ExtendedHeader{}, 0, ErrIncomplete
	}
	h := ExtendedHeader{
		Verbose:       buf[0]&1 != 0,
		ArgumentCount: buf[1],
		MessageType:   decodeMessageType(buf[0]),
		ApplicationID: trimID(buf[2:6]),
		ContextID:     trimID(buf[6:10]),
	}
	return h, extendedHeaderLen, nil
}

// InvalidHeader is returned when a standard/storage header's declared
// lengths are internally inconsistent.
type InvalidHeader struct {
	Reason string
}

func (e *InvalidHeader) Error() string {
	return fmt.Sprintf("invalid header: %s", e.Reason)
}
