// Package pinboard is the composition root of the pinboard sticky-notes board.
//
// It wires a storage backend (files, sqlite or memory) to the generic
// collection adapter and the note service, and exposes the headless note
// editor that drives creation and editing.
//
// Every collection is stored as one serialized list under a storage key.
// The notes live under "noteDB". Mutations rewrite the whole list.
//
// Usage:
//
//	pb, err := pinboard.New(
//		pinboard.WithPath("./board"),
//		pinboard.WithSeed(true),
//	)
//
//	notes, err := pb.Notes.Query(ctx)
//
//	ed, err := pinboard.NewEditor(pb, pinboard.EditorConfig{})
//	_ = ed.Switch(note.TypeTodos)
//	ed.AddTodo("Buy milk")
//	saved, err := ed.Submit(ctx)
package pinboard
