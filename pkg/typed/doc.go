// Package typed layers generic, type-safe collections over the storage adapter.
//
//	notes := typed.NewCollection[note.Note](adapter, "noteDB")
//	saved, err := notes.Post(ctx, n)
package typed
