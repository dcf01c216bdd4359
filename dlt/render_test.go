package dlt_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dlt-toolkit/dlthub/dlt"
)

// TestRenderVerboseLogMessage reproduces the scenario of a verbose
// little-endian log-info message carrying one named U32 argument: the
// rendered line's column sequence is
// "-COL-COL<ver>COLCOL<mcnt>COLCOLCOLAPPCOLCTXCOLINFOCOL" followed by the
// argument separator and "count: 42".
func TestRenderVerboseLogMessage(t *testing.T) {
	t.Parallel()

	mt, ok := dlt.MessageInfoFromFibex("DLT_LOG_INFO")
	require.True(t, ok)

	arg, err := dlt.NewArgument(
		dlt.TypeInfo{Kind: dlt.KindUnsigned, Length: 32, HasVariableInfo: true},
		strPtr("count"), nil, nil, dlt.NewUintValue(42))
	require.NoError(t, err)

	msg, err := dlt.NewMessage(dlt.MessageConfig{
		Version:        1,
		Endianness:     dlt.LittleEndian,
		MessageCounter: 0,
		ExtendedHeader: &dlt.ExtendedHeaderConfig{
			Verbose:       true,
			MessageType:   mt,
			ApplicationID: "APP",
			ContextID:     "CTX",
		},
		Payload: dlt.PayloadContent{Kind: dlt.PayloadVerbose, Arguments: []dlt.Argument{arg}},
	}, nil, nil)
	require.NoError(t, err)

	col := string(rune(dlt.ColumnSeparator))
	argSep := string(rune(dlt.ArgumentSeparator))
	expected := "-" + col + "-" + col + "1" + col + col + "0" + col + col + col +
		"APP" + col + "CTX" + col + "INFO" + col + argSep + "count: 42"

	require.Equal(t, expected, msg.Render())
}

func TestRenderMessageWithNoExtendedHeaderUsesDashes(t *testing.T) {
	t.Parallel()
	msg, err := dlt.NewMessage(dlt.MessageConfig{
		Version:    1,
		Endianness: dlt.LittleEndian,
		Payload:    dlt.PayloadContent{Kind: dlt.PayloadNonVerbose, MessageID: 7},
	}, nil, nil)
	require.NoError(t, err)
	rendered := msg.Render()
	require.Contains(t, rendered, "-"+string(rune(dlt.ColumnSeparator))+"-")
}

func TestMessageEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	mt, ok := dlt.MessageInfoFromFibex("DLT_LOG_WARN")
	require.True(t, ok)
	arg, err := dlt.NewArgument(dlt.TypeInfo{Kind: dlt.KindBool}, nil, nil, nil, dlt.NewBoolValue(false))
	require.NoError(t, err)

	storage := &dlt.StorageHeader{Timestamp: dlt.FromMillis(1500), ECUID: "ECU1"}
	msg, err := dlt.NewMessage(dlt.MessageConfig{
		Version:        1,
		Endianness:     dlt.BigEndian,
		MessageCounter: 5,
		ExtendedHeader: &dlt.ExtendedHeaderConfig{
			Verbose:       true,
			MessageType:   mt,
			ApplicationID: "APP",
			ContextID:     "CTX",
		},
		Payload: dlt.PayloadContent{Kind: dlt.PayloadVerbose, Arguments: []dlt.Argument{arg}},
	}, nil, storage)
	require.NoError(t, err)

	encoded := msg.Encode()
	decoded, n, err := dlt.DecodeMessage(encoded, nil, nil)
	require.NoError(t, err)
	require.Equal(t, len(encoded), n)
	require.NotNil(t, decoded.StorageHeader)
	require.Equal(t, "ECU1", decoded.StorageHeader.ECUID)
	require.Equal(t, uint8(1), decoded.ExtendedHeader.ArgumentCount)
	require.Len(t, decoded.Payload.Arguments, 1)
}

func TestDltTimeStampFromMillis(t *testing.T) {
	t.Parallel()
	ts := dlt.FromMillis(1500)
	require.Equal(t, uint32(1), ts.Seconds)
	require.Equal(t, uint32(500000), ts.Microseconds)
}
