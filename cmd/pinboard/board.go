package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/pinboard"
	"github.com/aretw0/pinboard/pkg/canvas"
	"github.com/aretw0/pinboard/pkg/core"
	"github.com/aretw0/pinboard/pkg/note"
)

// openBoard resolves the configuration (file, environment, then flags) and
// opens the board.
func openBoard(cmd *cobra.Command, opts ...pinboard.Option) *pinboard.Pinboard {
	path := configPath
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path, _ = pinboard.FindConfig(wd)
		}
	}

	c, err := pinboard.LoadConfig(path)
	if err != nil {
		fatal("Failed to load config", err)
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		c.Backend = backend
	}
	if flags.Changed("path") {
		c.Path = storePath
	}
	if flags.Changed("format") {
		c.Format = format
	}
	if flags.Changed("versioned") {
		c.Versioned = versioned
	}
	if flags.Changed("read-only") {
		c.ReadOnly = readOnly
	}

	base := []pinboard.Option{
		pinboard.WithConfig(c),
		pinboard.WithLogger(slog.Default()),
	}
	pb, err := pinboard.New(append(base, opts...)...)
	if err != nil {
		fatal("Failed to open board", err)
	}
	return pb
}

// withReason attaches a semantic change reason for versioned boards.
func withReason(ctx context.Context, ctype, subject string) context.Context {
	return withRawReason(ctx, pinboard.FormatChangeReason(ctype, "notes", subject, ""))
}

func withRawReason(ctx context.Context, msg string) context.Context {
	return context.WithValue(ctx, core.ChangeReasonKey, msg)
}

// parseStroke reads a polyline written as "x,y x,y ...".
func parseStroke(s string) ([]canvas.Point, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty stroke")
	}

	points := make([]canvas.Point, 0, len(fields))
	for _, f := range fields {
		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return nil, fmt.Errorf("invalid point %q: want x,y", f)
		}
		x, err := strconv.Atoi(xs)
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", f, err)
		}
		y, err := strconv.Atoi(ys)
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", f, err)
		}
		points = append(points, canvas.Point{X: x, Y: y})
	}
	return points, nil
}

// summary renders a note on one line for list output.
func summary(n note.Note) string {
	pin := " "
	if n.IsPinned {
		pin = "*"
	}

	var text string
	switch info := n.Info.(type) {
	case *note.TodoListInfo:
		done := 0
		for _, t := range info.Todos {
			if t.DoneAt != nil {
				done++
			}
		}
		text = fmt.Sprintf("%s [%d/%d]", info.Title, done, len(info.Todos))
	case *note.ImageInfo:
		text = info.Title
		if text == "" {
			text = truncate(info.URL, 40)
		}
	case *note.DrawingInfo:
		text = fmt.Sprintf("(drawing, %d bytes)", len(info.DrawingData))
	default:
		if t := n.Text(); len(t) > 0 {
			text = t[0]
		}
	}
	return fmt.Sprintf("%s %-38s %-13s %s", pin, n.ID, n.Type, truncate(text, 60))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
