package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/dlt-toolkit/dlthub/dlt"
)

const writerBufferSize = 10 * 1024 * 1024

// Metrics is the optional observability hook the pipeline reports through;
// a nil Metrics is a valid no-op.
type Metrics interface {
	DecodedMessage()
	ParsingHiccup()
	UnrecoverableError()
	ChunkEmitted()
	BytesWritten(n int)
	DecodeDuration(d time.Duration)
}

// Params bundles IndexFromSocket's configuration.
type Params struct {
	Socket        SocketConfig
	Filter        dlt.Filter
	Fibex         *dlt.Catalog
	Append        bool
	Tag           string
	ECUID         string
	OutPath       string
	InitialLineNr uint64
	ChunkLines    uint64
	ChunkBytes    uint64
	Metrics       Metrics
	Logger        *slog.Logger
}

// IndexFromSocket runs the ingest pipeline until ctx is cancelled or the
// socket stream ends. It returns the terminal error, if any (socket I/O
// and writer/flush failures); a cancellation-triggered stop is not an
// error.
func IndexFromSocket(ctx context.Context, p Params, progress chan<- ProgressResult) error {
	log := p.Logger
	if log == nil {
		log = slog.Default()
	}

	ctx, span := otel.Tracer("dlthub").Start(ctx, "ingest.IndexFromSocket")
	defer span.End()

	flags := os.O_CREATE | os.O_WRONLY
	if p.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(p.OutPath, flags, 0o644)
	if err != nil {
		return fmt.Errorf("ingest: opening output file: %w", err)
	}
	defer file.Close()

	var startByte uint64
	if p.Append {
		if st, err := file.Stat(); err == nil {
			startByte = uint64(st.Size())
		}
	}

	conn, err := openSocket(p.Socket)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Info("ingest: bound", "addr", conn.LocalAddr().String())

	progress <- ProgressResult{Progress: IndexingProgress{Kind: ProgressGotItem, Item: Chunk{}}}

	writer := bufio.NewWriterSize(file, writerBufferSize)
	factory := newChunkFactory(p.ChunkLines, p.ChunkBytes, p.InitialLineNr, startByte)
	lineNr := p.InitialLineNr

	type datagram struct {
		data []byte
		err  error
	}
	// Buffered by one: on shutdown the main loop stops receiving as soon as
	// ctx is done, and the reader goroutine's final error send must not
	// block forever waiting for a receiver that will never come again.
	datagrams := make(chan datagram, 1)
	go func() {
		buf := make([]byte, 64*1024)
		for {
			n, _, err := conn.ReadFromUDP(buf)
			if err != nil {
				datagrams <- datagram{err: err}
				return
			}
			cp := make([]byte, n)
			copy(cp, buf[:n])
			datagrams <- datagram{data: cp}
		}
	}()

	log.Info("ingest: running")

	shuttingDown := false
	for {
		select {
		case <-ctx.Done():
			shuttingDown = true
			conn.Close()
			if err := flushFinal(writer, factory, progress, p.Metrics); err != nil {
				ierr := &IndexingError{Cause: fmt.Errorf("ingest: flush: %w", err)}
				progress <- ProgressResult{Err: ierr}
				return ierr
			}
			progress <- ProgressResult{Progress: IndexingProgress{Kind: ProgressStopped}}
			log.Info("ingest: stopped")
			return nil

		case dg := <-datagrams:
			if dg.err != nil {
				if shuttingDown {
					return nil
				}
				if p.Metrics != nil {
					p.Metrics.UnrecoverableError()
				}
				flushFinal(writer, factory, progress, p.Metrics)
				ierr := &IndexingError{Cause: fmt.Errorf("ingest: socket read: %w", dg.err)}
				progress <- ProgressResult{Err: ierr}
				log.Error("ingest: unrecoverable", "error", dg.err)
				return ierr
			}

			decodeStart := time.Now()
			msg, _, err := dlt.DecodeMessage(dg.data, p.Filter, p.Fibex)
			if p.Metrics != nil {
				p.Metrics.DecodeDuration(time.Since(decodeStart))
			}
			if err != nil {
				if errors.Is(err, dlt.ErrIncomplete) {
					continue
				}
				var hickup *dlt.ParsingHickup
				if errors.As(err, &hickup) {
					if p.Metrics != nil {
						p.Metrics.ParsingHiccup()
					}
					log.Warn("ingest: parsing hickup", "reason", hickup.Reason)
					continue
				}
				if p.Metrics != nil {
					p.Metrics.UnrecoverableError()
				}
				flushFinal(writer, factory, progress, p.Metrics)
				ierr := &IndexingError{Cause: err}
				progress <- ProgressResult{Err: ierr}
				log.Error("ingest: unrecoverable decode error", "error", err)
				return ierr
			}
			if msg == nil {
				continue // filtered out
			}
			if p.Metrics != nil {
				p.Metrics.DecodedMessage()
			}
			log.Debug("ingest: decoded message", "line", lineNr)

			if msg.StorageHeader == nil {
				now := time.Now().UTC()
				msg.StorageHeader = &dlt.StorageHeader{
					Timestamp: dlt.FromMillis(uint64(now.UnixMilli())),
					ECUID:     p.ECUID,
				}
			}

			line := fmt.Sprintf("%s\t%d\t%s\n", p.Tag, lineNr, msg.Render())
			n, err := writer.WriteString(line)
			if err != nil {
				flushFinal(writer, factory, progress, p.Metrics)
				ierr := &IndexingError{Cause: fmt.Errorf("ingest: write: %w", err)}
				progress <- ProgressResult{Err: ierr}
				return ierr
			}
			if p.Metrics != nil {
				p.Metrics.BytesWritten(n)
			}
			lineNr++

			if chunk, ready := factory.Observe(n); ready {
				if err := writer.Flush(); err != nil {
					ierr := &IndexingError{Cause: fmt.Errorf("ingest: flush: %w", err)}
					progress <- ProgressResult{Err: ierr}
					return ierr
				}
				if p.Metrics != nil {
					p.Metrics.ChunkEmitted()
				}
				progress <- ProgressResult{Progress: IndexingProgress{Kind: ProgressGotItem, Item: chunk}}
			}
		}
	}
}

// flushFinal flushes the writer and, if a partial chunk remains
// unreported, emits it before the terminal progress record. It returns the
// flush error, if any.
func flushFinal(writer *bufio.Writer, factory *chunkFactory, progress chan<- ProgressResult, m Metrics) error {
	err := writer.Flush()
	if chunk, ok := factory.Final(); ok {
		if m != nil {
			m.ChunkEmitted()
		}
		progress <- ProgressResult{Progress: IndexingProgress{Kind: ProgressGotItem, Item: chunk}}
	}
	return err
}
