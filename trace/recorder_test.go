// Copyright © 2026 Quadrille contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package trace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quadrille-tui/quadrille/ui"
)

func TestRecorder_CreateAndClose(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "trace.db")

	r, err := NewRecorder(dbPath)
	if err != nil {
		t.Fatalf("failed to create recorder: %v", err)
	}

	if err := r.Close(); err != nil {
		t.Errorf("failed to close recorder: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file not created")
	}
}

func TestRecorder_FramesAndInputs(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "trace.db")

	r, err := NewRecorder(dbPath)
	if err != nil {
		t.Fatalf("failed to create recorder: %v", err)
	}
	defer r.Close()

	now := time.Now()
	r.RecordFrame(ui.FrameStats{
		Time:       now,
		FullRedraw: true,
		DirtyCount: 3,
		Rendered:   3,
		RenderTime: 2 * time.Millisecond,
	})
	r.RecordFrame(ui.FrameStats{
		Time:       now.Add(16 * time.Millisecond),
		Rendered:   1,
		RenderTime: 4 * time.Millisecond,
		Overrun:    time.Millisecond,
	})
	r.RecordInput(ui.Event{Type: ui.EventKey, Key: ui.KeyEnter})

	if err := r.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	s, err := r.Summarize()
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if s.Frames != 2 {
		t.Errorf("expected 2 frames, got %d", s.Frames)
	}
	if s.FullRedraws != 1 {
		t.Errorf("expected 1 full redraw, got %d", s.FullRedraws)
	}
	if s.Inputs != 1 {
		t.Errorf("expected 1 input, got %d", s.Inputs)
	}
	if s.AvgRender != 3*time.Millisecond {
		t.Errorf("expected 3ms average render, got %v", s.AvgRender)
	}
	if s.MaxOverrun != time.Millisecond {
		t.Errorf("expected 1ms max overrun, got %v", s.MaxOverrun)
	}
}

func TestRecorder_BatchFlushOnSize(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "trace.db")

	cfg := DefaultRecorderConfig(dbPath)
	cfg.BatchSize = 5
	cfg.BatchTimeout = time.Hour // only size triggers the flush

	r, err := NewRecorderWithConfig(cfg)
	if err != nil {
		t.Fatalf("failed to create recorder: %v", err)
	}
	defer r.Close()

	for i := 0; i < 5; i++ {
		r.RecordFrame(ui.FrameStats{Time: time.Now()})
	}

	// The size-triggered flush is asynchronous; poll briefly.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s, err := r.Summarize()
		if err != nil {
			t.Fatalf("summarize failed: %v", err)
		}
		if s.Frames == 5 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("batch was not flushed on reaching batch size")
}
