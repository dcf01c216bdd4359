package dlt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlt-toolkit/dlthub/dlt"
)

func TestStorageHeaderRoundTrip(t *testing.T) {
	t.Parallel()
	h := dlt.StorageHeader{
		Timestamp: dlt.TimeStamp{Seconds: 1700000000, Microseconds: 123456},
		ECUID:     "ECU1",
	}
	buf := dlt.EncodeStorageHeader(nil, h)
	require.Len(t, buf, 16)
	decoded, n, err := dlt.DecodeStorageHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, h, decoded)
}

func TestStorageHeaderBadMagicIsRecoverable(t *testing.T) {
	t.Parallel()
	buf := make([]byte, 16)
	copy(buf, []byte{'X', 'X', 'X', 'X'})
	_, _, err := dlt.DecodeStorageHeader(buf)
	require.Error(t, err)
	var hickup *dlt.ParsingHickup
	assert.ErrorAs(t, err, &hickup)
}

func ecuID(s string) *string { return &s }
func sess(v uint32) *uint32  { return &v }
func ts(v uint32) *uint32    { return &v }

func TestStandardHeaderRoundTrip(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		h    dlt.StandardHeader
	}{
		{"minimal", dlt.StandardHeader{Version: 1, Endianness: dlt.LittleEndian, PayloadLength: 5}},
		{"with ecu", dlt.StandardHeader{Version: 1, Endianness: dlt.BigEndian, ECUID: ecuID("ECU1"), PayloadLength: 10}},
		{"with all optional fields", dlt.StandardHeader{
			Version: 1, Endianness: dlt.LittleEndian, HasExtendedHeader: true,
			MessageCounter: 7, ECUID: ecuID("ECU1"), SessionID: sess(42), Timestamp: ts(99),
			PayloadLength: 20,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			buf := tt.h.Encode(nil)
			decoded, n, err := dlt.DecodeStandardHeader(buf)
			require.NoError(t, err)
			assert.Equal(t, len(buf), n)
			assert.Equal(t, tt.h, decoded)
		})
	}
}

func TestStandardHeaderOverallLengthConsistency(t *testing.T) {
	t.Parallel()
	h := dlt.StandardHeader{
		Version: 1, Endianness: dlt.BigEndian, HasExtendedHeader: true,
		ECUID: ecuID("ECU1"), PayloadLength: 15,
	}
	buf := h.Encode(nil)
	// bytes[2:4] is overall_length, big-endian regardless of message endianness.
	overall := uint16(buf[2])<<8 | uint16(buf[3])
	assert.Equal(t, h.OverallLength(), overall)
	assert.Equal(t, len(buf)+int(h.PayloadLength)+extendedHeaderLenForTest, int(overall))
}

const extendedHeaderLenForTest = 10

func TestStandardHeaderTypeByteRecomputedOnDecode(t *testing.T) {
	t.Parallel()
	h := dlt.StandardHeader{Version: 3, Endianness: dlt.BigEndian, HasExtendedHeader: true, SessionID: sess(1), PayloadLength: 1}
	buf := h.Encode(nil)
	decoded, _, err := dlt.DecodeStandardHeader(buf)
	require.NoError(t, err)
	redone := decoded.Encode(nil)
	assert.Equal(t, buf[0], redone[0])
}

func TestExtendedHeaderRoundTrip(t *testing.T) {
	t.Parallel()
	mt, ok := dlt.MessageInfoFromFibex("DLT_LOG_INFO")
	require.True(t, ok)
	h := dlt.ExtendedHeader{
		Verbose:       true,
		ArgumentCount: 3,
		MessageType:   mt,
		ApplicationID: "APP",
		ContextID:     "CTX",
	}
	buf := h.Encode(nil)
	require.Len(t, buf, 10)
	decoded, n, err := dlt.DecodeExtendedHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, h, decoded)
}

func TestExtendedHeaderArgumentCountCapsAt255(t *testing.T) {
	t.Parallel()
	args := make([]dlt.Argument, 300)
	for i := range args {
		a, err := dlt.NewArgument(dlt.TypeInfo{Kind: dlt.KindBool}, nil, nil, nil, dlt.NewBoolValue(true))
		require.NoError(t, err)
		args[i] = a
	}
	payload := dlt.PayloadContent{Kind: dlt.PayloadVerbose, Arguments: args}
	assert.Equal(t, uint8(255), payload.ArgumentCount())
}
