package pinboard_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/pinboard"
	"github.com/aretw0/pinboard/pkg/note"
)

// Example_basic opens a board in a temporary directory, seeds it and lists the pinned notes.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "pinboard-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	pb, err := pinboard.New(pinboard.WithPath(tmpDir), pinboard.WithSeed(true))
	if err != nil {
		log.Fatal(err)
	}

	pinned := true
	notes, err := pb.Notes.Search(context.Background(), note.Filter{Pinned: &pinned})
	if err != nil {
		log.Fatal(err)
	}

	for _, n := range notes {
		fmt.Println(n.ID, n.Text()[0])
	}
	// Output:
	// n101 Fullstack Me Baby!
}

// ExampleNewEditor builds a todo list with the editor and saves it.
func ExampleNewEditor() {
	pb, err := pinboard.New(
		pinboard.WithBackend("memory"),
		pinboard.WithIDGenerator(func() string { return "n200" }),
	)
	if err != nil {
		log.Fatal(err)
	}

	ed, err := pinboard.NewEditor(pb, pinboard.EditorConfig{})
	if err != nil {
		log.Fatal(err)
	}
	if err := ed.Switch(note.TypeTodos); err != nil {
		log.Fatal(err)
	}
	ed.AddTodo("Buy milk")
	ed.AddTodo("   ")

	saved, err := ed.Submit(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	list := saved.Info.(*note.TodoListInfo)
	fmt.Println(saved.ID, len(list.Todos), list.Todos[0].Txt)
	// Output:
	// n200 1 Buy milk
}
