package ingest

import "testing"

func TestChunkFactoryEmitsOnLineThreshold(t *testing.T) {
	f := newChunkFactory(3, 0, 0, 0)
	if _, ready := f.Observe(10); ready {
		t.Fatalf("unexpected emission after 1 line")
	}
	if _, ready := f.Observe(10); ready {
		t.Fatalf("unexpected emission after 2 lines")
	}
	chunk, ready := f.Observe(10)
	if !ready {
		t.Fatalf("expected emission after 3rd line")
	}
	if chunk.RowStart != 0 || chunk.RowEnd != 3 {
		t.Fatalf("unexpected row range: %+v", chunk)
	}
	if chunk.ByteStart != 0 || chunk.ByteEnd != 30 {
		t.Fatalf("unexpected byte range: %+v", chunk)
	}
}

func TestChunkFactoryEmitsOnByteThreshold(t *testing.T) {
	f := newChunkFactory(0, 25, 0, 0)
	if _, ready := f.Observe(10); ready {
		t.Fatalf("unexpected emission at 10 bytes")
	}
	if _, ready := f.Observe(10); ready {
		t.Fatalf("unexpected emission at 20 bytes")
	}
	chunk, ready := f.Observe(10)
	if !ready {
		t.Fatalf("expected emission once bytes threshold crossed")
	}
	if chunk.ByteEnd != 30 {
		t.Fatalf("unexpected byte end: %d", chunk.ByteEnd)
	}
}

func TestChunkFactoryTilesWithoutOverlapOrGap(t *testing.T) {
	f := newChunkFactory(2, 0, 0, 0)
	var chunks []Chunk
	for i := 0; i < 6; i++ {
		if c, ready := f.Observe(5); ready {
			chunks = append(chunks, c)
		}
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].RowStart != chunks[i-1].RowEnd {
			t.Fatalf("row range gap/overlap between chunk %d and %d: %+v, %+v", i-1, i, chunks[i-1], chunks[i])
		}
		if chunks[i].ByteStart != chunks[i-1].ByteEnd {
			t.Fatalf("byte range gap/overlap between chunk %d and %d: %+v, %+v", i-1, i, chunks[i-1], chunks[i])
		}
	}
}

func TestChunkFactoryStartsFromInitialOffsets(t *testing.T) {
	f := newChunkFactory(1, 0, 100, 5000)
	chunk, ready := f.Observe(50)
	if !ready {
		t.Fatalf("expected emission")
	}
	if chunk.RowStart != 100 || chunk.RowEnd != 101 {
		t.Fatalf("unexpected row range: %+v", chunk)
	}
	if chunk.ByteStart != 5000 || chunk.ByteEnd != 5050 {
		t.Fatalf("unexpected byte range: %+v", chunk)
	}
}

func TestChunkFactoryFinalReportsTrailingPartial(t *testing.T) {
	f := newChunkFactory(100, 0, 0, 0)
	f.Observe(10)
	f.Observe(10)
	chunk, ok := f.Final()
	if !ok {
		t.Fatalf("expected a trailing partial chunk")
	}
	if chunk.RowStart != 0 || chunk.RowEnd != 2 || chunk.ByteEnd != 20 {
		t.Fatalf("unexpected trailing chunk: %+v", chunk)
	}
}

func TestChunkFactoryFinalReportsNothingWhenClean(t *testing.T) {
	f := newChunkFactory(2, 0, 0, 0)
	f.Observe(10)
	f.Observe(10) // exactly crosses the threshold, resetting counters
	if _, ok := f.Final(); ok {
		t.Fatalf("expected no trailing chunk right after an emission")
	}
}
