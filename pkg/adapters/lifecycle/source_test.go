package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pinboard/pkg/adapters/lifecycle"
	"github.com/aretw0/pinboard/pkg/core"
)

func TestSource_Forwards(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 2)
	in <- core.Event{Type: core.EventCreate, Key: "noteDB"}
	in <- core.Event{Type: core.EventDelete, Key: "noteDB"}
	close(in)

	src := lifecycle.NewSource(in)
	require.NoError(t, src.Start(ctx))

	var got []string
	timeout := time.After(2 * time.Second)
	for {
		select {
		case e, ok := <-src.Events():
			if !ok {
				assert.Equal(t, []string{"CREATE noteDB", "DELETE noteDB"}, got)
				return
			}
			got = append(got, e.String())
		case <-timeout:
			t.Fatal("timeout waiting for events")
		}
	}
}

func TestSource_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := lifecycle.NewSource(make(chan core.Event))
	require.NoError(t, src.Start(ctx))

	cancel()
	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("source not closed after cancel")
	}
}
