package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pinboard/pkg/canvas"
	"github.com/aretw0/pinboard/pkg/note"
)

func TestParseStroke(t *testing.T) {
	points, err := parseStroke(" 10,10  50,40 90,-2 ")
	require.NoError(t, err)
	assert.Equal(t, []canvas.Point{{X: 10, Y: 10}, {X: 50, Y: 40}, {X: 90, Y: -2}}, points)

	for _, bad := range []string{"", "   ", "10", "a,1", "1,b", "1;2"} {
		_, err := parseStroke(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestSummary(t *testing.T) {
	notes := note.DemoNotes()

	assert.Contains(t, summary(notes[0]), "* n101")
	assert.Contains(t, summary(notes[0]), "Fullstack Me Baby!")
	assert.Contains(t, summary(notes[2]), "Bobi and Me")
	assert.Contains(t, summary(notes[3]), "Get my stuff together [1/2]")

	drawing := note.Note{ID: "d1", Type: note.TypeDrawing, Info: &note.DrawingInfo{DrawingData: "abcd"}}
	assert.Contains(t, summary(drawing), "(drawing, 4 bytes)")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ñññ...", truncate("ññññññññ", 6))
}
