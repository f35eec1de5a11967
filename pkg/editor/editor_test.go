package editor_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/aretw0/pinboard/pkg/adapters/memory"
	"github.com/aretw0/pinboard/pkg/canvas"
	"github.com/aretw0/pinboard/pkg/editor"
	"github.com/aretw0/pinboard/pkg/note"
	"github.com/aretw0/pinboard/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type host struct {
	notes []note.Note
	paths []string
}

func setupEditor(t *testing.T) (*editor.Editor, *note.Service, *host) {
	t.Helper()
	svc := note.NewService(note.Config{
		Store: storage.New(storage.Config{Backend: memory.NewBackend()}),
	})
	_, err := svc.Initialize(context.Background())
	require.NoError(t, err)

	h := &host{}
	ed, err := editor.New(editor.Config{
		Notes:    svc,
		OnSaved:  func(n note.Note) { h.notes = append(h.notes, n) },
		Navigate: func(p string) { h.paths = append(h.paths, p) },
		Now:      func() time.Time { return time.UnixMilli(5000) },
	})
	require.NoError(t, err)
	return ed, svc, h
}

func TestEditor_StartsWithEmptyText(t *testing.T) {
	ed, _, _ := setupEditor(t)

	assert.Equal(t, note.TypeText, ed.Variant())
	n := ed.Note()
	assert.Empty(t, n.ID)
	assert.Equal(t, &note.TextInfo{}, n.Info)
}

func TestEditor_SwitchDiscardsEdits(t *testing.T) {
	ed, _, _ := setupEditor(t)

	require.NoError(t, ed.Change(editor.FieldInput{Name: "txt", Value: "draft"}))
	require.NoError(t, ed.Switch(note.TypeVideo))
	assert.Equal(t, note.TypeVideo, ed.Variant())
	assert.Equal(t, &note.VideoInfo{}, ed.Note().Info)

	require.NoError(t, ed.Switch(note.TypeText))
	assert.Equal(t, &note.TextInfo{}, ed.Note().Info)

	assert.Error(t, ed.Switch("StickerNote"))
	assert.Equal(t, note.TypeText, ed.Variant())
}

func TestEditor_Change(t *testing.T) {
	ed, _, _ := setupEditor(t)

	cases := []struct {
		in   editor.FieldInput
		want string
	}{
		{editor.FieldInput{Name: "txt", Kind: editor.KindText, Value: "hello"}, "hello"},
		{editor.FieldInput{Name: "txt", Kind: editor.KindNumber, Value: "42"}, "42"},
		{editor.FieldInput{Name: "txt", Kind: editor.KindRange, Value: "2.5"}, "2.5"},
		{editor.FieldInput{Name: "txt", Kind: editor.KindNumber, Value: "0"}, ""},
		{editor.FieldInput{Name: "txt", Kind: editor.KindNumber, Value: "abc"}, ""},
		{editor.FieldInput{Name: "txt", Kind: editor.KindCheckbox, Checked: true}, "true"},
	}
	for _, tc := range cases {
		require.NoError(t, ed.Change(tc.in))
		assert.Equal(t, tc.want, ed.Note().Info.(*note.TextInfo).Txt, "%+v", tc.in)
	}

	err := ed.Change(editor.FieldInput{Name: "title", Value: "x"})
	assert.ErrorIs(t, err, editor.ErrUnknownField)
}

func TestCoerce(t *testing.T) {
	assert.Equal(t, 3.0, editor.Coerce(editor.FieldInput{Kind: editor.KindNumber, Value: " 3 "}))
	assert.Equal(t, "", editor.Coerce(editor.FieldInput{Kind: editor.KindRange, Value: ""}))
	assert.Equal(t, false, editor.Coerce(editor.FieldInput{Kind: editor.KindCheckbox}))
	assert.Equal(t, "raw", editor.Coerce(editor.FieldInput{Kind: "email", Value: "raw"}))
}

func TestEditor_Todos(t *testing.T) {
	ed, _, _ := setupEditor(t)
	require.NoError(t, ed.Switch(note.TypeTodos))

	assert.False(t, ed.AddTodo(""))
	assert.False(t, ed.AddTodo("   "))
	assert.Empty(t, ed.Note().Info.(*note.TodoListInfo).Todos)

	assert.True(t, ed.AddTodo("Buy milk"))
	todos := ed.Note().Info.(*note.TodoListInfo).Todos
	require.Len(t, todos, 1)
	assert.Equal(t, note.Todo{Txt: "Buy milk"}, todos[0])

	ed.AddTodo("Walk dog")
	ed.AddTodo("Call mom")
	require.NoError(t, ed.RemoveTodo(1))
	todos = ed.Note().Info.(*note.TodoListInfo).Todos
	assert.Equal(t, []note.Todo{{Txt: "Buy milk"}, {Txt: "Call mom"}}, todos)

	assert.ErrorIs(t, ed.RemoveTodo(2), editor.ErrIndexOutOfRange)
	assert.ErrorIs(t, ed.RemoveTodo(-1), editor.ErrIndexOutOfRange)

	require.NoError(t, ed.ToggleTodo(0))
	todos = ed.Note().Info.(*note.TodoListInfo).Todos
	require.NotNil(t, todos[0].DoneAt)
	assert.Equal(t, int64(5000), *todos[0].DoneAt)
	require.NoError(t, ed.ToggleTodo(0))
	assert.Nil(t, ed.Note().Info.(*note.TodoListInfo).Todos[0].DoneAt)

	require.NoError(t, ed.Switch(note.TypeText))
	assert.False(t, ed.AddTodo("nope"))
	assert.ErrorIs(t, ed.RemoveTodo(0), editor.ErrWrongVariant)
}

func TestEditor_ImageUploadAndSubmit(t *testing.T) {
	ed, svc, h := setupEditor(t)
	ctx := context.Background()
	require.NoError(t, ed.Switch(note.TypeImage))

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	file := buf.Bytes()

	done := ed.UploadImage(ctx, "me.png", bytes.NewReader(file))
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for image read")
	}
	assert.Equal(t, "me.png", ed.FileName())

	require.NoError(t, ed.Change(editor.FieldInput{Name: "title", Value: "Bobi and Me"}))

	saved, err := ed.Submit(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	stored, err := svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	info, ok := stored.Info.(*note.ImageInfo)
	require.True(t, ok)
	assert.Equal(t, editor.DataURL(file), info.URL)
	assert.Contains(t, info.URL, "data:image/png;base64,")
	assert.Equal(t, "Bobi and Me", info.Title)

	// Host callbacks and reset.
	require.Len(t, h.notes, 1)
	assert.Equal(t, saved.ID, h.notes[0].ID)
	assert.Equal(t, []string{editor.DefaultListPath}, h.paths)
	assert.Equal(t, note.TypeText, ed.Variant())
	assert.Equal(t, &note.TextInfo{}, ed.Note().Info)
	assert.Empty(t, ed.FileName())
}

func TestEditor_UploadWrongVariant(t *testing.T) {
	ed, _, _ := setupEditor(t)

	err := <-ed.UploadImage(context.Background(), "x.png", bytes.NewReader(nil))
	assert.ErrorIs(t, err, editor.ErrWrongVariant)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("io failure") }

func TestEditor_UploadReadError(t *testing.T) {
	ed, _, _ := setupEditor(t)
	require.NoError(t, ed.Switch(note.TypeImage))

	err := <-ed.UploadImage(context.Background(), "bad.png", failingReader{})
	assert.Error(t, err)
	assert.Empty(t, ed.Note().Info.(*note.ImageInfo).URL)
}

// gatedReader blocks its first Read until open is closed.
type gatedReader struct {
	open chan struct{}
	r    *bytes.Reader
}

func newGatedReader(data []byte) *gatedReader {
	return &gatedReader{open: make(chan struct{}), r: bytes.NewReader(data)}
}

func (g *gatedReader) Read(p []byte) (int, error) {
	<-g.open
	return g.r.Read(p)
}

func waitUpload(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for image read")
	}
}

func TestEditor_OverlappingUploads(t *testing.T) {
	ed, _, _ := setupEditor(t)
	ctx := context.Background()
	require.NoError(t, ed.Switch(note.TypeImage))

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	first := buf.Bytes()
	second := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")

	a := newGatedReader(first)
	b := newGatedReader(second)
	doneA := ed.UploadImage(ctx, "first.png", a)
	doneB := ed.UploadImage(ctx, "second.gif", b)
	assert.Equal(t, "second.gif", ed.FileName())

	// The earlier selection finishes last and wins.
	close(b.open)
	waitUpload(t, doneB)
	assert.Equal(t, editor.DataURL(second), ed.Note().Info.(*note.ImageInfo).URL)

	close(a.open)
	waitUpload(t, doneA)
	assert.Equal(t, editor.DataURL(first), ed.Note().Info.(*note.ImageInfo).URL)
}

func TestEditor_UploadAfterSwitchIsDropped(t *testing.T) {
	ed, _, _ := setupEditor(t)
	ctx := context.Background()
	require.NoError(t, ed.Switch(note.TypeImage))

	r := newGatedReader([]byte("GIF89a"))
	done := ed.UploadImage(ctx, "late.gif", r)

	require.NoError(t, ed.Switch(note.TypeText))
	require.NoError(t, ed.Change(editor.FieldInput{Name: "txt", Value: "still text"}))

	close(r.open)
	waitUpload(t, done)

	assert.Equal(t, note.TypeText, ed.Variant())
	assert.Equal(t, &note.TextInfo{Txt: "still text"}, ed.Note().Info)
}

func TestEditor_Drawing(t *testing.T) {
	ed, svc, _ := setupEditor(t)
	ctx := context.Background()

	// Pointer events outside Draw do nothing.
	ed.PointerDown(canvas.Point{X: 1, Y: 1})
	assert.Equal(t, canvas.Idle, ed.Stroke())

	require.NoError(t, ed.Switch(note.TypeDrawing))
	ed.PointerDown(canvas.Point{X: 10, Y: 10})
	ed.PointerMove(canvas.Point{X: 50, Y: 40})
	require.NoError(t, ed.PointerUp())

	snapshot := ed.Snapshot()
	require.NotEmpty(t, snapshot)
	assert.Empty(t, ed.Note().Info.(*note.DrawingInfo).DrawingData, "snapshot stays local until submit")

	// Leave does not snapshot; clear keeps the held snapshot.
	ed.PointerDown(canvas.Point{X: 0, Y: 0})
	ed.PointerMove(canvas.Point{X: 100, Y: 100})
	ed.PointerLeave()
	ed.ClearCanvas()
	assert.Equal(t, snapshot, ed.Snapshot())

	saved, err := ed.Submit(ctx)
	require.NoError(t, err)

	stored, err := svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, snapshot, stored.Info.(*note.DrawingInfo).DrawingData)

	// Switching to Draw drops the snapshot.
	require.NoError(t, ed.Switch(note.TypeDrawing))
	assert.Empty(t, ed.Snapshot())
}

func TestEditor_Load(t *testing.T) {
	ed, _, _ := setupEditor(t)
	ctx := context.Background()

	require.NoError(t, ed.Load(ctx, "n104"))
	assert.Equal(t, note.TypeTodos, ed.Variant())
	assert.Equal(t, "n104", ed.Note().ID)

	require.NoError(t, ed.Change(editor.FieldInput{Name: "title", Value: "Renamed"}))
	saved, err := ed.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "n104", saved.ID)

	err = ed.Load(ctx, "missing")
	assert.Error(t, err)
	assert.Equal(t, note.TypeText, ed.Variant())
}

// brokenNotes fails every save.
type brokenNotes struct {
	*note.Service
}

func (brokenNotes) Save(ctx context.Context, n note.Note) (note.Note, error) {
	return note.Note{}, errors.New("quota exceeded")
}

func TestEditor_SubmitFailureKeepsState(t *testing.T) {
	svc := note.NewService(note.Config{
		Store: storage.New(storage.Config{Backend: memory.NewBackend()}),
	})
	called := false
	ed, err := editor.New(editor.Config{
		Notes:   brokenNotes{svc},
		OnSaved: func(note.Note) { called = true },
	})
	require.NoError(t, err)

	require.NoError(t, ed.Change(editor.FieldInput{Name: "txt", Value: "keep me"}))
	_, err = ed.Submit(context.Background())
	assert.Error(t, err)
	assert.False(t, called)
	assert.Equal(t, "keep me", ed.Note().Info.(*note.TextInfo).Txt)
}

func TestNew_RequiresNotes(t *testing.T) {
	_, err := editor.New(editor.Config{})
	assert.Error(t, err)
}
