package dlt

// FrameKey is the lookup key for Catalog.FrameMapWithKey: context id,
// application id, and the frame identifier derived from a non-verbose
// message id ("ID_" + id).
type FrameKey struct {
	ContextID     string
	ApplicationID string
	FrameID       string
}

// Pdu is one signal-group inside a non-verbose frame: either a static
// description string, or a sequence of typed signals.
type Pdu struct {
	Description *string
	SignalTypes []TypeInfo
}

// FrameMetadata describes how to render one non-verbose message id.
type FrameMetadata struct {
	ApplicationID *string
	ContextID     *string
	MessageInfo   *string
	PDUs          []Pdu
}

// Catalog is the in-memory query surface of a FIBEX description (parsing
// the FIBEX XML itself is out of scope; a caller constructs this once and
// shares it immutably for the pipeline's lifetime).
type Catalog struct {
	FrameMapWithKey map[FrameKey]FrameMetadata
	FrameMap        map[string]FrameMetadata
}

// Lookup resolves a non-verbose message id to frame metadata, preferring
// the (context, application, frame-id) keyed map when an extended header
// is present, falling back to the frame-id-only map otherwise.
func (c *Catalog) Lookup(messageID uint32, ext *ExtendedHeader) (FrameMetadata, bool) {
	if c == nil {
		return FrameMetadata{}, false
	}
	frameID := frameIDFor(messageID)
	if ext != nil {
		if fm, ok := c.FrameMapWithKey[FrameKey{ContextID: ext.ContextID, ApplicationID: ext.ApplicationID, FrameID: frameID}]; ok {
			return fm, true
		}
	}
	fm, ok := c.FrameMap[frameID]
	return fm, ok
}

func frameIDFor(messageID uint32) string {
	return "ID_" + uintToDecimal(messageID)
}

func uintToDecimal(v uint32) string {
	if v == 0 {
		return "0"
	}
	var digits [10]byte
	i := len(digits)
	for v > 0 {
		i--
		digits[i] = byte('0' + v%10)
		v /= 10
	}
	return string(digits[i:])
}
