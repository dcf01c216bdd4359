package dlt

import "encoding/binary"

// ExtendedHeaderConfig supplies the fields NewMessage needs to build an
// ExtendedHeader; nil on MessageConfig means the message has none.
type ExtendedHeaderConfig struct {
	Verbose       bool // not consulted: NewMessage sets the flag from Payload.Kind
	MessageType   MessageType
	ApplicationID string
	ContextID     string
}

// MessageConfig is the input to NewMessage: everything about a message
// except its computed lengths.
type MessageConfig struct {
	Version        uint8
	Endianness     Endianness
	MessageCounter uint8
	ECUID          *string
	SessionID      *uint32
	Timestamp      *uint32
	ExtendedHeader *ExtendedHeaderConfig
	Payload        PayloadContent
}

// Message is a fully assembled DLT frame: optional storage header,
// standard header, optional extended header, and payload.
type Message struct {
	StorageHeader  *StorageHeader
	Header         StandardHeader
	ExtendedHeader *ExtendedHeader
	Payload        PayloadContent
	Fibex          *Catalog
}

// byteOrder returns the binary.ByteOrder matching an Endianness value.
func byteOrder(e Endianness) binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// NewMessage computes payload length and the extended header's
// verbose/argument-count fields, then assembles a Message. fibex and
// storage may both be nil.
func NewMessage(cfg MessageConfig, fibex *Catalog, storage *StorageHeader) (*Message, error) {
	bo := byteOrder(cfg.Endianness)
	payloadBytes := cfg.Payload.Encode(bo)

	var ext *ExtendedHeader
	if cfg.ExtendedHeader != nil {
		ext = &ExtendedHeader{
			Verbose:       cfg.Payload.Kind == PayloadVerbose,
			ArgumentCount: cfg.Payload.ArgumentCount(),
			MessageType:   cfg.ExtendedHeader.MessageType,
			ApplicationID: cfg.ExtendedHeader.ApplicationID,
			ContextID:     cfg.ExtendedHeader.ContextID,
		}
	}

	header := StandardHeader{
		Version:           cfg.Version,
		Endianness:        cfg.Endianness,
		HasExtendedHeader: ext != nil,
		MessageCounter:    cfg.MessageCounter,
		ECUID:             cfg.ECUID,
		SessionID:         cfg.SessionID,
		Timestamp:         cfg.Timestamp,
		PayloadLength:     uint16(len(payloadBytes)),
	}

	return &Message{
		StorageHeader:  storage,
		Header:         header,
		ExtendedHeader: ext,
		Payload:        cfg.Payload,
		Fibex:          fibex,
	}, nil
}

// Encode serializes the full message: optional storage header (always
// little-endian) ‖ standard header ‖ optional extended header ‖ payload in
// message endianness.
func (m *Message) Encode() []byte {
	var buf []byte
	if m.StorageHeader != nil {
		buf = EncodeStorageHeader(buf, *m.StorageHeader)
	}
	buf = m.Header.Encode(buf)
	if m.ExtendedHeader != nil {
		buf = m.ExtendedHeader.Encode(buf)
	}
	bo := byteOrder(m.Header.Endianness)
	buf = append(buf, m.Payload.Encode(bo)...)
	return buf
}

// Filter is a caller-supplied predicate consulted by the decode entrypoint;
// its construction is out of scope here.
type Filter interface {
	Allow(*Message) bool
}
