package note

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/pinboard/pkg/typed"
)

// DefaultKey is the storage key of the note collection.
const DefaultKey = "noteDB"

// Config holds the configuration for the note service.
type Config struct {
	Store  typed.Store
	Key    string
	Logger *slog.Logger
	Now    func() time.Time
}

// Service handles the domain operations on notes.
type Service struct {
	notes  *typed.Collection[Note]
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new note Service over the given store.
func NewService(config Config) *Service {
	if config.Key == "" {
		config.Key = DefaultKey
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Service{
		notes:  typed.NewCollection[Note](config.Store, config.Key),
		logger: config.Logger,
		now:    config.Now,
	}
}

// Initialize writes the demo notes if the collection is absent or empty.
// It is safe to call on every start; it reports whether it seeded.
func (s *Service) Initialize(ctx context.Context) (bool, error) {
	seeded, err := s.notes.Seed(ctx, DemoNotes())
	if err != nil {
		return false, err
	}
	if seeded {
		s.logger.Info("seeded demo notes", "collection", s.notes.Key())
	}
	return seeded, nil
}

// Query returns every note in stored order.
func (s *Service) Query(ctx context.Context) ([]Note, error) {
	return s.notes.Query(ctx)
}

// Get retrieves a note by its ID.
func (s *Service) Get(ctx context.Context, id string) (Note, error) {
	return s.notes.Get(ctx, id)
}

// Remove deletes a note by its ID.
func (s *Service) Remove(ctx context.Context, id string) error {
	return s.notes.Remove(ctx, id)
}

// Save updates the note if it has an ID and creates it otherwise.
// New notes without CreatedAt are stamped with the current time.
func (s *Service) Save(ctx context.Context, n Note) (Note, error) {
	if n.ID != "" {
		return s.notes.Put(ctx, n)
	}
	if n.CreatedAt == nil {
		ms := s.now().UnixMilli()
		n.CreatedAt = &ms
	}
	return s.notes.Post(ctx, n)
}

// EmptyNote returns an unsaved template of the given variant.
func (s *Service) EmptyNote(t Type) (Note, error) {
	return Empty(t)
}

// TogglePin flips the pinned state of a note and saves it.
func (s *Service) TogglePin(ctx context.Context, id string) (Note, error) {
	n, err := s.notes.Get(ctx, id)
	if err != nil {
		return Note{}, err
	}
	n.IsPinned = !n.IsPinned
	return s.notes.Put(ctx, n)
}

// Filter narrows a Search. Zero fields match everything.
type Filter struct {
	Txt    string
	Type   Type
	Pinned *bool
}

// DefaultFilter returns the filter that matches every note.
func DefaultFilter() Filter {
	return Filter{}
}

// Match reports whether n passes the filter. Txt is a case-insensitive substring
// of any of the note's texts.
func (f Filter) Match(n Note) bool {
	if f.Type != "" && n.Type != f.Type {
		return false
	}
	if f.Pinned != nil && n.IsPinned != *f.Pinned {
		return false
	}
	if f.Txt == "" {
		return true
	}
	needle := strings.ToLower(f.Txt)
	for _, txt := range n.Text() {
		if strings.Contains(strings.ToLower(txt), needle) {
			return true
		}
	}
	return false
}

// Search returns the notes matching filter, pinned ones first.
// Within each group the stored order is kept.
func (s *Service) Search(ctx context.Context, filter Filter) ([]Note, error) {
	all, err := s.notes.Query(ctx)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}

	matched := make([]Note, 0, len(all))
	for _, n := range all {
		if filter.Match(n) {
			matched = append(matched, n)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].IsPinned && !matched[j].IsPinned
	})
	return matched, nil
}
