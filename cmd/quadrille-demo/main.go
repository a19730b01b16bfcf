// Copyright © 2026 Quadrille contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/quadrille-demo/main.go
// Summary: Demo application showcasing the widget set and the run loop.
// Usage: Run `quadrille-demo`; ESC quits, Tab cycles focus, F2 opens a dialog.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/quadrille-tui/quadrille/config"
	"github.com/quadrille-tui/quadrille/term"
	"github.com/quadrille-tui/quadrille/trace"
	"github.com/quadrille-tui/quadrille/ui"
	"github.com/quadrille-tui/quadrille/ui/widgets"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("quadrille-demo", flag.ContinueOnError)
	useTcell := fs.Bool("tcell", false, "Render through tcell instead of the raw terminal")
	traceDB := fs.String("trace", "", "Record frame diagnostics to the given SQLite file")
	logPath := fs.String("log", "quadrille-demo.log", "Log file path")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	// The terminal owns stdout, so logs go to a file.
	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.Println("Demo: starting")

	cfg := config.Get()

	var sink ui.Sink
	var input ui.InputSource
	if *useTcell {
		drv, err := term.NewTcellDriver()
		if err != nil {
			return fmt.Errorf("init tcell: %w", err)
		}
		sink, input = drv, drv
	} else {
		t, err := term.Open(term.Options{
			Mouse:     cfg.GetBool("input", "mouse", true),
			AltScreen: cfg.GetBool("input", "alt_screen", true),
		})
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		sink, input = t, t
	}

	app := ui.NewApplication(sink, input)
	if fps := cfg.GetInt("frame", "fps", 60); fps > 0 {
		app.SetFrameInterval(time.Second / time.Duration(fps))
	}
	app.SetFrameBudget(cfg.GetBool("frame", "budget_mode", false))

	if *traceDB == "" && cfg.GetBool("trace", "enabled", false) {
		*traceDB = cfg.GetString("trace", "path", "")
		if *traceDB == "" {
			*traceDB = filepath.Join(os.TempDir(), "quadrille-trace.db")
		}
	}
	var recorder *trace.Recorder
	if *traceDB != "" {
		recorder, err = trace.NewRecorder(*traceDB)
		if err != nil {
			return fmt.Errorf("open trace recorder: %w", err)
		}
		defer func() {
			if s, err := recorder.Summarize(); err == nil {
				log.Printf("Demo: %d frames (%d full), avg render %v, max overrun %v, %d inputs",
					s.Frames, s.FullRedraws, s.AvgRender, s.MaxOverrun, s.Inputs)
			}
			recorder.Close()
		}()
		app.SetTracer(recorder)
	}

	buildUI(app, sink)

	return app.Run()
}

func buildUI(app *ui.Application, sink ui.Sink) {
	w, h := sink.Width(), sink.Height()

	title := widgets.NewLabel(ui.Rect{X: 1, Y: 0, W: w - 2, H: 1},
		"quadrille demo  (Tab: focus, F2: dialog, ESC: quit)")
	app.AddWidget(title)

	status := widgets.NewLabel(ui.Rect{X: 1, Y: h - 1, W: w - 2, H: 1}, "ready")
	app.AddWidget(status)

	setStatus := func(text string) {
		status.Text = text
		app.MarkDirty(status)
	}

	list := widgets.NewListView(ui.Rect{X: 1, Y: 2, W: 24, H: h - 4}, []string{
		"geometry.go", "color.go", "dirty.go", "quadtree.go",
		"app.go", "batcher.go", "input.go", "theme.go",
	})
	app.AddWidget(list)

	code := widgets.NewCodeView(ui.Rect{X: 27, Y: 2, W: w - 28, H: h - 7})
	code.SetSource("demo.go", demoSource)
	app.AddWidget(code)

	list.OnSelect = func(_ int, item string) {
		setStatus("selected " + item)
		app.MarkDirty(code)
	}

	input := widgets.NewTextBox(ui.Rect{X: 27, Y: h - 4, W: w - 40, H: 1})
	input.OnSubmit = func(text string) {
		setStatus("you typed: " + text)
	}
	app.AddWidget(input)

	gauge := widgets.NewProgressBar(ui.Rect{X: 27, Y: h - 3, W: w - 40, H: 1})
	app.AddWidget(gauge)
	go animateGauge(app, gauge)

	dialog := widgets.NewDialog(ui.Rect{X: w/2 - 18, Y: h/2 - 3, W: 36, H: 6},
		"Confirm", "Open the dialog again?", []string{"Yes", "No"})
	dialog.OnChoose = func(choice int) {
		setStatus(fmt.Sprintf("dialog choice %d", choice))
	}

	open := widgets.NewButton(ui.Rect{X: w - 12, Y: h - 4, W: 10, H: 1}, "Dialog", func() {
		dialog.SetVisible(true)
		app.MarkDirty(dialog)
	})
	open.Shortcut = ui.KeyF2
	app.AddWidget(open)
	app.AddWidget(dialog)
}

// animateGauge drives the progress bar from a background goroutine, marking
// it dirty through the application rather than touching render state.
func animateGauge(app *ui.Application, gauge *widgets.ProgressBar) {
	v := 0.0
	started := false
	for {
		time.Sleep(100 * time.Millisecond)
		if app.Running() {
			started = true
		} else if started {
			return
		}
		v += 0.01
		if v > 1 {
			v = 0
		}
		gauge.SetValue(v)
		app.MarkDirty(gauge)
	}
}

const demoSource = `package main

import "fmt"

// greet prints a friendly banner.
func greet(name string) {
	fmt.Printf("hello, %s\n", name)
}

func main() {
	for _, n := range []string{"ada", "grace", "edsger"} {
		greet(n)
	}
}
`
