// Copyright © 2026 Quadrille contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: trace/recorder.go
// Summary: SQLite-backed frame and input trace recorder.

package trace

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/quadrille-tui/quadrille/ui"
)

// RecorderConfig holds configuration for the trace recorder.
type RecorderConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BatchSize is the number of entries to accumulate before flushing.
	// Default: 100
	BatchSize int

	// BatchTimeout is how long to wait before flushing a partial batch.
	// Default: 2s
	BatchTimeout time.Duration

	// ChannelBuffer is the size of the async recording channel.
	// Default: 1000
	ChannelBuffer int
}

// DefaultRecorderConfig returns sensible defaults.
func DefaultRecorderConfig(dbPath string) RecorderConfig {
	return RecorderConfig{
		DBPath:        dbPath,
		BatchSize:     100,
		BatchTimeout:  2 * time.Second,
		ChannelBuffer: 1000,
	}
}

// entry is a queued trace row, either a frame or an input event.
type entry struct {
	frame *ui.FrameStats
	input *ui.Event
	at    time.Time
}

// Recorder implements ui.Tracer over SQLite. Rows are queued on a channel
// and written in batched transactions by a background goroutine, so
// RecordFrame never blocks the run loop on disk I/O.
type Recorder struct {
	config RecorderConfig
	db     *sql.DB

	batchChan chan entry
	stopCh    chan struct{}
	doneCh    chan struct{}
	flushCh   chan chan struct{}

	mu sync.RWMutex
}

const schema = `
CREATE TABLE IF NOT EXISTS frames (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    at INTEGER NOT NULL,              -- UnixNano
    full_redraw INTEGER NOT NULL,
    dirty_count INTEGER NOT NULL,
    rendered INTEGER NOT NULL,
    input_count INTEGER NOT NULL,
    render_ns INTEGER NOT NULL,
    overrun_ns INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_frames_at ON frames(at);

CREATE TABLE IF NOT EXISTS inputs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    at INTEGER NOT NULL,              -- UnixNano
    type INTEGER NOT NULL,
    key INTEGER NOT NULL,
    rune INTEGER NOT NULL,
    mouse_x INTEGER NOT NULL,
    mouse_y INTEGER NOT NULL,
    click INTEGER NOT NULL,
    scroll INTEGER NOT NULL
);
`

// NewRecorder creates a SQLite-backed trace recorder.
func NewRecorder(dbPath string) (*Recorder, error) {
	return NewRecorderWithConfig(DefaultRecorderConfig(dbPath))
}

// NewRecorderWithConfig creates a recorder with custom configuration.
func NewRecorderWithConfig(config RecorderConfig) (*Recorder, error) {
	dir := filepath.Dir(config.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dsn := config.DBPath +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=temp_store(MEMORY)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	r := &Recorder{
		config:    config,
		db:        db,
		batchChan: make(chan entry, config.ChannelBuffer),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		flushCh:   make(chan chan struct{}),
	}

	go r.batchWriter()

	return r, nil
}

// RecordFrame queues a frame row. When the channel is full the row is
// dropped; tracing must never stall rendering.
func (r *Recorder) RecordFrame(s ui.FrameStats) {
	select {
	case r.batchChan <- entry{frame: &s, at: s.Time}:
	default:
	}
}

// RecordInput queues an input row.
func (r *Recorder) RecordInput(ev ui.Event) {
	select {
	case r.batchChan <- entry{input: &ev, at: time.Now()}:
	default:
	}
}

// batchWriter runs in a background goroutine, batching rows and flushing
// periodically.
func (r *Recorder) batchWriter() {
	defer close(r.doneCh)

	batch := make([]entry, 0, r.config.BatchSize)
	timer := time.NewTimer(r.config.BatchTimeout)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		r.flushBatch(batch)
		batch = batch[:0]
	}

	for {
		select {
		case e := <-r.batchChan:
			batch = append(batch, e)
			if len(batch) >= r.config.BatchSize {
				flush()
				timer.Reset(r.config.BatchTimeout)
			}

		case <-timer.C:
			flush()
			timer.Reset(r.config.BatchTimeout)

		case done := <-r.flushCh:
			draining := true
			for draining {
				select {
				case e := <-r.batchChan:
					batch = append(batch, e)
				default:
					draining = false
				}
			}
			flush()
			close(done)

		case <-r.stopCh:
			for {
				select {
				case e := <-r.batchChan:
					batch = append(batch, e)
				default:
					flush()
					return
				}
			}
		}
	}
}

// flushBatch writes a batch in a single transaction.
func (r *Recorder) flushBatch(batch []entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		log.Printf("Trace: Failed to begin transaction: %v", err)
		return
	}

	frameStmt, err := tx.Prepare(
		"INSERT INTO frames (at, full_redraw, dirty_count, rendered, input_count, render_ns, overrun_ns) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		log.Printf("Trace: Failed to prepare frame statement: %v", err)
		tx.Rollback()
		return
	}
	defer frameStmt.Close()

	inputStmt, err := tx.Prepare(
		"INSERT INTO inputs (at, type, key, rune, mouse_x, mouse_y, click, scroll) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		log.Printf("Trace: Failed to prepare input statement: %v", err)
		tx.Rollback()
		return
	}
	defer inputStmt.Close()

	for _, e := range batch {
		if e.frame != nil {
			s := e.frame
			full := 0
			if s.FullRedraw {
				full = 1
			}
			_, err = frameStmt.Exec(e.at.UnixNano(), full, s.DirtyCount, s.Rendered,
				s.InputCount, s.RenderTime.Nanoseconds(), s.Overrun.Nanoseconds())
		} else if e.input != nil {
			ev := e.input
			click := 0
			if ev.Click {
				click = 1
			}
			_, err = inputStmt.Exec(e.at.UnixNano(), int(ev.Type), int(ev.Key), int(ev.Rune),
				ev.MouseX, ev.MouseY, click, ev.ScrollDelta)
		}
		if err != nil {
			log.Printf("Trace: Failed to insert row: %v", err)
			tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("Trace: Failed to commit batch: %v", err)
	}
}

// Flush blocks until all queued rows are written.
func (r *Recorder) Flush() error {
	done := make(chan struct{})
	select {
	case r.flushCh <- done:
		<-done
	case <-r.stopCh:
	}
	return nil
}

// Close flushes pending rows and closes the database.
func (r *Recorder) Close() error {
	close(r.stopCh)
	<-r.doneCh
	return r.db.Close()
}

// Summary aggregates recorded frames for post-run reporting.
type Summary struct {
	Frames      int64
	FullRedraws int64
	AvgRender   time.Duration
	MaxOverrun  time.Duration
	Inputs      int64
}

// Summarize reads aggregate statistics back from the database.
func (r *Recorder) Summarize() (Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var s Summary
	var avgRender sql.NullFloat64
	var maxOverrun sql.NullInt64
	err := r.db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(full_redraw), 0), AVG(render_ns), MAX(overrun_ns) FROM frames").
		Scan(&s.Frames, &s.FullRedraws, &avgRender, &maxOverrun)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize frames: %w", err)
	}
	if avgRender.Valid {
		s.AvgRender = time.Duration(int64(avgRender.Float64))
	}
	if maxOverrun.Valid {
		s.MaxOverrun = time.Duration(maxOverrun.Int64)
	}

	if err := r.db.QueryRow("SELECT COUNT(*) FROM inputs").Scan(&s.Inputs); err != nil {
		return Summary{}, fmt.Errorf("summarize inputs: %w", err)
	}
	return s, nil
}

// Compile-time interface check
var _ ui.Tracer = (*Recorder)(nil)
