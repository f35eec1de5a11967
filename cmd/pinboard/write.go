package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/pinboard"
	"github.com/aretw0/pinboard/pkg/editor"
	"github.com/aretw0/pinboard/pkg/note"
)

var (
	writeID      string
	writeType    string
	writeTxt     string
	writeTitle   string
	writeURL     string
	writeVideo   string
	writeImage   string
	writeTodos   []string
	writeStrokes []string
	changeReason string
)

// writeCmd represents the write command
var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Create or edit a note",
	Long: `Create a note of --type, or edit the note --id, through the note editor.

  pinboard write --type text --txt "Call mom"
  pinboard write --type img --image ./me.png --title "Bobi and Me"
  pinboard write --type todos --title Groceries --todo milk --todo eggs
  pinboard write --type draw --stroke "10,10 50,40 90,10"
  pinboard write --id n101 --txt "Edited"`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		pb := openBoard(cmd)
		defer pb.Close()

		ctx := context.Background()
		ed, err := pinboard.NewEditor(pb, pinboard.EditorConfig{Logger: slog.Default()})
		if err != nil {
			fatal("Failed to create editor", err)
		}

		if err := prepare(ctx, cmd, ed); err != nil {
			fatal("Failed to prepare note", err)
		}
		if err := applyEdits(ctx, ed); err != nil {
			fatal("Failed to edit note", err)
		}

		msg := changeReason
		if msg == "" {
			msg = pinboard.FormatChangeReason(pinboard.CommitTypeFeat, "notes", "write "+string(ed.Variant()), "")
		} else {
			msg = pinboard.AppendFooter(msg)
		}
		saved, err := ed.Submit(withRawReason(ctx, msg))
		if err != nil {
			fatal("Failed to save note", err)
		}
		fmt.Printf("Note '%s' saved (%s).\n", saved.ID, saved.Type)
	},
}

// prepare loads the note to edit or switches to the requested variant.
func prepare(ctx context.Context, cmd *cobra.Command, ed *editor.Editor) error {
	if writeID != "" {
		if err := ed.Load(ctx, writeID); err != nil {
			return err
		}
		if cmd.Flags().Changed("type") {
			t, err := note.ParseType(writeType)
			if err != nil {
				return err
			}
			if t != ed.Variant() {
				return fmt.Errorf("note %s is a %s, not a %s", writeID, ed.Variant(), t)
			}
		}
		return nil
	}

	t, err := note.ParseType(writeType)
	if err != nil {
		return err
	}
	return ed.Switch(t)
}

// applyEdits feeds the flag values to the editor the way a form would.
func applyEdits(ctx context.Context, ed *editor.Editor) error {
	fields := []struct {
		name, value string
	}{
		{"txt", writeTxt},
		{"title", writeTitle},
		{"url", writeURL},
		{"videoUrl", writeVideo},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := ed.Change(editor.FieldInput{Name: f.name, Kind: editor.KindText, Value: f.value}); err != nil {
			return err
		}
	}

	if writeImage != "" {
		f, err := os.Open(writeImage)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := <-ed.UploadImage(ctx, filepath.Base(writeImage), f); err != nil {
			return err
		}
	}

	for _, txt := range writeTodos {
		if !ed.AddTodo(txt) && ed.Variant() != note.TypeTodos {
			return fmt.Errorf("--todo needs a todo list note: %w", editor.ErrWrongVariant)
		}
	}

	if len(writeStrokes) > 0 && ed.Variant() != note.TypeDrawing {
		return fmt.Errorf("--stroke needs a drawing note: %w", editor.ErrWrongVariant)
	}
	for _, s := range writeStrokes {
		points, err := parseStroke(s)
		if err != nil {
			return err
		}
		ed.PointerDown(points[0])
		for _, p := range points[1:] {
			ed.PointerMove(p)
		}
		if err := ed.PointerUp(); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().StringVar(&writeID, "id", "", "Edit the note with this ID instead of creating one")
	writeCmd.Flags().StringVarP(&writeType, "type", "t", "text", "Note type: text, img, todos, video or draw")
	writeCmd.Flags().StringVar(&writeTxt, "txt", "", "Text of a text note")
	writeCmd.Flags().StringVar(&writeTitle, "title", "", "Title of an image or todo list note")
	writeCmd.Flags().StringVar(&writeURL, "url", "", "Image URL")
	writeCmd.Flags().StringVar(&writeVideo, "video", "", "Video URL")
	writeCmd.Flags().StringVar(&writeImage, "image", "", "Image file to embed as a data URL")
	writeCmd.Flags().StringArrayVar(&writeTodos, "todo", nil, "Todo entry (repeatable)")
	writeCmd.Flags().StringArrayVar(&writeStrokes, "stroke", nil, `Stroke as "x,y x,y ..." (repeatable)`)
	writeCmd.Flags().StringVarP(&changeReason, "message", "m", "", "Change reason for versioned boards")
}
