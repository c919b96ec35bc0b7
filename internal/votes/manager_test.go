package votes_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ratingsdesk/quorum/internal/entities"
	"github.com/ratingsdesk/quorum/internal/scales"
	"github.com/ratingsdesk/quorum/internal/table"
	"github.com/ratingsdesk/quorum/internal/votes"
	"github.com/ratingsdesk/quorum/pkg/lifecycle"
	"github.com/ratingsdesk/quorum/pkg/pagination"
	"github.com/ratingsdesk/quorum/pkg/storage"
)

type fakeEntities struct {
	mu     sync.Mutex
	kase   *entities.CommitteeCase
	saved  []*entities.VotePayload
	closed []string
}

func (f *fakeEntities) Handler() *entities.Handler { return nil }

func (f *fakeEntities) List(context.Context, pagination.PageRequest, entities.Filters) (*pagination.PageResult[entities.Summary], error) {
	return nil, errors.New("not implemented")
}

func (f *fakeEntities) Find(context.Context, uuid.UUID) (*entities.Summary, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeEntities) LoadCase(_ context.Context, caseID string, committeeNumber int) (*entities.CommitteeCase, error) {
	if f.kase == nil || f.kase.CaseID != caseID {
		return nil, entities.ErrCaseNotFound
	}
	clone := *f.kase
	return &clone, nil
}

func (f *fakeEntities) SaveVote(_ context.Context, payload *entities.VotePayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, payload)
	return nil
}

func (f *fakeEntities) CloseCase(_ context.Context, caseID string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, caseID)
	return nil
}

type fakeScales struct {
	symbols []scales.Symbol
}

func (f *fakeScales) Handler() *scales.Handler { return nil }

func (f *fakeScales) Classes(context.Context, string, int) ([]scales.ClassOption, error) {
	return nil, nil
}

func (f *fakeScales) FindClass(context.Context, string) (*scales.ClassOption, error) {
	return nil, scales.ErrClassNotFound
}

func (f *fakeScales) Symbols(context.Context, string, string, string) ([]scales.Symbol, error) {
	return f.symbols, nil
}

func (f *fakeScales) Options() scales.OptionSet {
	return scales.OptionSet{
		Outlooks: []scales.Option{{Value: "POS", Label: "Positive"}},
		LossGivenDefault: []scales.Option{
			{Value: "LGD1", Label: "LGD1"},
		},
	}
}

type fakeArchive struct {
	mu      sync.Mutex
	uploads map[string][]byte
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{uploads: make(map[string][]byte)}
}

func (f *fakeArchive) Start(*lifecycle.Coordinator) error { return nil }

func (f *fakeArchive) Upload(_ context.Context, key string, reader io.Reader, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads[key] = data
	return nil
}

func (f *fakeArchive) Download(context.Context, string) (*storage.DownloadResult, error) {
	return nil, storage.ErrNotFound
}

func (f *fakeArchive) Find(context.Context, string) (*storage.Metadata, error) {
	return nil, storage.ErrNotFound
}

func (f *fakeArchive) List(context.Context, string, string, int32) (*storage.ListResult, error) {
	return &storage.ListResult{}, nil
}

func (f *fakeArchive) Delete(context.Context, string) error { return nil }

func (f *fakeArchive) Exists(context.Context, string) (bool, error) { return false, nil }

func voteCase() *entities.CommitteeCase {
	return &entities.CommitteeCase{
		CaseID:          "CASE-7",
		CommitteeNumber: 2,
		Name:            "Initech Review",
		Entities: []entities.Entity{
			{
				ID:       "ent-1",
				Name:     "Initech",
				Domicile: entities.Domicile{Code: "US", Name: "United States"},
				RatingClasses: []entities.RatingClass{
					{
						ID: "cls-1", Name: "Issuer Rating", Currency: "USD",
						Ratings: []entities.Rating{{
							Identifier: "r-1",
							ScaleCode:  "GLOBAL_LT", ScaleStrategy: "STANDARD",
							Current:  entities.RatingValue{Value: "Baa2"},
							Proposed: entities.RatingValue{Value: "Baa3"},
						}},
					},
				},
			},
		},
	}
}

func testSystem(t *testing.T) (votes.System, *fakeEntities, *fakeArchive) {
	t.Helper()
	ents := &fakeEntities{kase: voteCase()}
	archive := newFakeArchive()
	sc := &fakeScales{symbols: []scales.Symbol{
		{Value: "Baa3", Rank: 10, Group: 1},
		{Value: "Baa2", Rank: 9, Group: 1},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return votes.New(ents, sc, archive, logger), ents, archive
}

func TestCreateAndState(t *testing.T) {
	sys, _, _ := testSystem(t)

	state, err := sys.Create(context.Background(), "CASE-7", 2)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if state.CaseID != "CASE-7" || state.Valid {
		t.Errorf("unexpected state: %+v", state)
	}
	if len(state.Views[table.ViewClass]) != 1 {
		t.Fatalf("got %d class groups, want 1", len(state.Views[table.ViewClass]))
	}

	again, err := sys.State(state.ID)
	if err != nil {
		t.Fatalf("state failed: %v", err)
	}
	if again.ID != state.ID {
		t.Error("state returned a different session")
	}

	if _, err := sys.State(uuid.New()); !errors.Is(err, votes.ErrSessionNotFound) {
		t.Errorf("got %v, want ErrSessionNotFound", err)
	}
}

func TestCreateUnknownCase(t *testing.T) {
	sys, _, _ := testSystem(t)

	if _, err := sys.Create(context.Background(), "CASE-404", 1); !errors.Is(err, entities.ErrCaseNotFound) {
		t.Errorf("got %v, want ErrCaseNotFound", err)
	}
}

func TestApplyResolvesCustomRows(t *testing.T) {
	sys, _, _ := testSystem(t)
	ctx := context.Background()

	state, err := sys.Create(ctx, "CASE-7", 2)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	effects, err := sys.Apply(ctx, state.ID, table.Intent{
		Type:     table.IntentAddCustomRow,
		View:     "class",
		ParentID: "ent-1",
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	effects, err = sys.Apply(ctx, state.ID, table.Intent{
		Type:       table.IntentClassifyCustomRow,
		Identifier: effects.Created,
		Classification: &table.Classification{
			Name: "Subordinate", ScaleCode: "GLOBAL_LT", Strategy: "STANDARD", Currency: "USD",
		},
	})
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if len(effects.Resolutions) != 1 {
		t.Fatalf("got %d resolutions, want 1", len(effects.Resolutions))
	}

	identifier := effects.Resolutions[0].Identifier
	deadline := time.Now().Add(2 * time.Second)
	for {
		current, err := sys.State(state.ID)
		if err != nil {
			t.Fatalf("state failed: %v", err)
		}
		row := findRow(current.Views[table.ViewClass], identifier)
		if row != nil && len(row.Data.RefSymbols) > 0 {
			if row.Data.RefSymbols[0] != "NO_ACTION" {
				t.Errorf("symbols not merged: %v", row.Data.RefSymbols)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("symbol lookup never landed")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func findRow(groups []*table.Row, identifier string) *table.Row {
	for _, group := range groups {
		for _, child := range group.Children {
			if child.Data.Identifier == identifier {
				return child
			}
		}
	}
	return nil
}

func TestCloseGating(t *testing.T) {
	sys, ents, archive := testSystem(t)
	ctx := context.Background()

	state, err := sys.Create(ctx, "CASE-7", 2)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := sys.Close(ctx, state.ID); !errors.Is(err, votes.ErrNotReady) {
		t.Fatalf("got %v, want ErrNotReady", err)
	}

	if _, err := sys.Apply(ctx, state.ID, table.Intent{
		Type:  table.IntentSetTally,
		Tally: entities.TallyMajority,
	}); err != nil {
		t.Fatalf("set tally failed: %v", err)
	}
	if _, err := sys.Apply(ctx, state.ID, table.Intent{
		Type:       table.IntentSetFinalRating,
		View:       "class",
		ParentID:   "ent-1",
		Identifier: "r-1",
		Value:      "Baa3",
	}); err != nil {
		t.Fatalf("set final failed: %v", err)
	}

	if err := sys.Close(ctx, state.ID); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if len(ents.saved) != 1 {
		t.Fatalf("save not called: %d", len(ents.saved))
	}
	if ents.saved[0].VoteTally != entities.TallyMajority {
		t.Errorf("saved tally: %q", ents.saved[0].VoteTally)
	}
	if len(ents.closed) != 1 || ents.closed[0] != "CASE-7" {
		t.Errorf("close case not recorded: %v", ents.closed)
	}
	if len(archive.uploads) != 1 {
		t.Fatalf("snapshot not archived: %d uploads", len(archive.uploads))
	}
	for key, data := range archive.uploads {
		if !bytes.Contains(data, []byte(`"CASE-7"`)) {
			t.Errorf("snapshot %s missing case id", key)
		}
	}

	if _, err := sys.State(state.ID); !errors.Is(err, votes.ErrSessionNotFound) {
		t.Error("session should be discarded after close")
	}
}

func TestSaveWithoutClose(t *testing.T) {
	sys, ents, _ := testSystem(t)
	ctx := context.Background()

	state, err := sys.Create(ctx, "CASE-7", 2)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := sys.Save(ctx, state.ID); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if len(ents.saved) != 1 {
		t.Fatalf("save not recorded")
	}
	if len(ents.closed) != 0 {
		t.Error("save must not close the case")
	}

	if _, err := sys.State(state.ID); err != nil {
		t.Error("session should survive a save")
	}
}

func TestDelete(t *testing.T) {
	sys, _, _ := testSystem(t)

	state, err := sys.Create(context.Background(), "CASE-7", 2)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := sys.Delete(state.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := sys.Delete(state.ID); !errors.Is(err, votes.ErrSessionNotFound) {
		t.Errorf("got %v, want ErrSessionNotFound", err)
	}
}
