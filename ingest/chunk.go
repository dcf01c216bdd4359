package ingest

// chunkFactory tracks accumulated lines/bytes since the last emitted chunk
// and yields a Chunk descriptor once either configured threshold is
// crossed.
type chunkFactory struct {
	lineThreshold uint64
	byteThreshold uint64

	rowStart, rowEnd   uint64
	byteStart, byteEnd uint64

	linesSinceChunk uint64
	bytesSinceChunk uint64
}

func newChunkFactory(lineThreshold, byteThreshold uint64, startRow, startByte uint64) *chunkFactory {
	return &chunkFactory{
		lineThreshold: lineThreshold,
		byteThreshold: byteThreshold,
		rowStart:      startRow,
		rowEnd:        startRow,
		byteStart:     startByte,
		byteEnd:       startByte,
	}
}

// Observe records one more written line of n bytes and reports a ready
// Chunk when a threshold has been crossed, resetting its internal counters
// so ranges tile without overlap or gap.
func (c *chunkFactory) Observe(lineBytes int) (Chunk, bool) {
	c.rowEnd++
	c.byteEnd += uint64(lineBytes)
	c.linesSinceChunk++
	c.bytesSinceChunk += uint64(lineBytes)

	crossed := (c.lineThreshold > 0 && c.linesSinceChunk >= c.lineThreshold) ||
		(c.byteThreshold > 0 && c.bytesSinceChunk >= c.byteThreshold)
	if !crossed {
		return Chunk{}, false
	}
	chunk := Chunk{RowStart: c.rowStart, RowEnd: c.rowEnd, ByteStart: c.byteStart, ByteEnd: c.byteEnd}
	c.rowStart = c.rowEnd
	c.byteStart = c.byteEnd
	c.linesSinceChunk = 0
	c.bytesSinceChunk = 0
	return chunk, true
}

// Final returns the trailing partial Chunk covering everything written
// since the last emitted chunk, for use at stream termination. ok is false
// when nothing remains to report.
func (c *chunkFactory) Final() (Chunk, bool) {
	if c.rowEnd == c.rowStart {
		return Chunk{}, false
	}
	return Chunk{RowStart: c.rowStart, RowEnd: c.rowEnd, ByteStart: c.byteStart, ByteEnd: c.byteEnd}, true
}
