package editor

import (
	"fmt"
	"strings"

	"github.com/aretw0/pinboard/pkg/note"
)

// AddTodo appends an open entry to the todo list. Blank text is ignored.
// It reports whether an entry was added.
func (e *Editor) AddTodo(txt string) bool {
	if strings.TrimSpace(txt) == "" {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	list, ok := e.note.Info.(*note.TodoListInfo)
	if !ok {
		return false
	}
	list.Todos = append(list.Todos, note.Todo{Txt: txt})
	return true
}

// RemoveTodo deletes the entry at index i, keeping the order of the rest.
func (e *Editor) RemoveTodo(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	list, err := e.todoList(i)
	if err != nil {
		return err
	}
	list.Todos = append(list.Todos[:i:i], list.Todos[i+1:]...)
	return nil
}

// ToggleTodo marks the entry at index i done now, or open again.
func (e *Editor) ToggleTodo(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	list, err := e.todoList(i)
	if err != nil {
		return err
	}
	if list.Todos[i].DoneAt != nil {
		list.Todos[i].DoneAt = nil
		return nil
	}
	ms := e.now().UnixMilli()
	list.Todos[i].DoneAt = &ms
	return nil
}

func (e *Editor) todoList(i int) (*note.TodoListInfo, error) {
	list, ok := e.note.Info.(*note.TodoListInfo)
	if !ok {
		return nil, ErrWrongVariant
	}
	if i < 0 || i >= len(list.Todos) {
		return nil, fmt.Errorf("todo %d of %d: %w", i, len(list.Todos), ErrIndexOutOfRange)
	}
	return list, nil
}
