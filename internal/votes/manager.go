package votes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ratingsdesk/quorum/internal/entities"
	"github.com/ratingsdesk/quorum/internal/scales"
	"github.com/ratingsdesk/quorum/internal/table"
	"github.com/ratingsdesk/quorum/pkg/storage"
)

// resolveConcurrency caps parallel symbol lookups during session load.
const resolveConcurrency = 4

// liveSession pairs a table session with the mutex serializing access to it.
type liveSession struct {
	mu    sync.Mutex
	table *table.Session
}

type manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*liveSession

	entities entities.System
	scales   scales.System
	archive  storage.System
	logger   *slog.Logger
}

// New creates the vote session system backed by case persistence, scale
// reference data, and the blob archive.
func New(
	ent entities.System,
	sc scales.System,
	archive storage.System,
	logger *slog.Logger,
) System {
	return &manager{
		sessions: make(map[uuid.UUID]*liveSession),
		entities: ent,
		scales:   sc,
		archive:  archive,
		logger:   logger.With("system", "votes"),
	}
}

func (m *manager) Handler() *Handler {
	return NewHandler(m, m.logger)
}

func (m *manager) Create(ctx context.Context, caseID string, committeeNumber int) (*SessionState, error) {
	kase, err := m.entities.LoadCase(ctx, caseID, committeeNumber)
	if err != nil {
		return nil, fmt.Errorf("load case %s/%d: %w", caseID, committeeNumber, err)
	}

	id := uuid.New()
	session := table.NewSession(id, kase, tableOptions(m.scales.Options()))

	live := &liveSession{table: session}

	if err := m.reresolve(ctx, live); err != nil {
		return nil, fmt.Errorf("resolve added rows for case %s/%d: %w", caseID, committeeNumber, err)
	}

	m.mu.Lock()
	m.sessions[id] = live
	m.mu.Unlock()

	m.logger.Info("vote session created",
		"session", id,
		"case", caseID,
		"committee", committeeNumber,
	)

	live.mu.Lock()
	defer live.mu.Unlock()
	return m.state(live), nil
}

// reresolve replays classification for added rows loaded from upstream
// data, running their symbol lookups concurrently. Rows without a scale
// code stay unresolved until the caller classifies them.
func (m *manager) reresolve(ctx context.Context, live *liveSession) error {
	var resolutions []*table.Resolution

	live.mu.Lock()
	for _, pending := range live.table.UnresolvedCustomRows() {
		row, ok := live.table.Dictionary().Get(table.Key{
			View:       pending.View,
			ParentID:   pending.EntityID,
			Identifier: pending.Identifier,
		})
		if !ok || row.Data.ScaleCode == "" {
			continue
		}

		resolution, err := live.table.ClassifyCustomRow(pending.Identifier, table.Classification{
			Name:      row.Data.Name,
			ScaleCode: row.Data.ScaleCode,
			Strategy:  row.Data.ScaleStrategy,
			Currency:  row.Data.Currency,
		}, nil)
		if err != nil {
			live.mu.Unlock()
			return err
		}
		if resolution != nil {
			resolutions = append(resolutions, resolution)
		}
	}
	live.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)

	for _, resolution := range resolutions {
		g.Go(func() error {
			symbols, err := m.scales.Symbols(ctx, resolution.ScaleCode, resolution.Strategy, resolution.DomicileCode)
			if err != nil {
				return err
			}

			live.mu.Lock()
			defer live.mu.Unlock()
			live.table.CompleteResolution(resolution.Identifier, resolution.Generation, tableSymbols(symbols))
			return nil
		})
	}

	return g.Wait()
}

func (m *manager) find(id uuid.UUID) (*liveSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	live, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return live, nil
}

func (m *manager) State(id uuid.UUID) (*SessionState, error) {
	live, err := m.find(id)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	return m.state(live), nil
}

// state assembles the external session view. Callers hold the session lock.
func (m *manager) state(live *liveSession) *SessionState {
	s := live.table
	return &SessionState{
		ID:              s.ID,
		CaseID:          s.Case.CaseID,
		CommitteeNumber: s.Case.CommitteeNumber,
		Name:            s.Case.Name,
		Tally:           s.Tally(),
		Valid:           s.Valid(),
		Views: map[table.ViewType][]*table.Row{
			table.ViewClass: s.View(table.ViewClass),
			table.ViewDebt:  s.View(table.ViewDebt),
		},
	}
}

func (m *manager) View(id uuid.UUID, view table.ViewType) ([]*table.Row, error) {
	live, err := m.find(id)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	return live.table.View(view), nil
}

func (m *manager) Apply(ctx context.Context, id uuid.UUID, intent table.Intent) (*table.Effects, error) {
	live, err := m.find(id)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	effects, err := live.table.Apply(intent)
	live.mu.Unlock()
	if err != nil {
		return nil, err
	}

	for _, resolution := range effects.Resolutions {
		go m.resolve(context.WithoutCancel(ctx), live, resolution)
	}

	return effects, nil
}

// resolve runs one symbol lookup and delivers the result. A result for a
// row that was re-classified or removed in the meantime is discarded by the
// generation check inside the session.
func (m *manager) resolve(ctx context.Context, live *liveSession, resolution *table.Resolution) {
	symbols, err := m.scales.Symbols(ctx, resolution.ScaleCode, resolution.Strategy, resolution.DomicileCode)
	if err != nil {
		m.logger.Error("symbol lookup failed",
			"row", resolution.Identifier,
			"scale", resolution.ScaleCode,
			"error", err,
		)
		return
	}

	live.mu.Lock()
	applied := live.table.CompleteResolution(resolution.Identifier, resolution.Generation, tableSymbols(symbols))
	live.mu.Unlock()

	if !applied {
		m.logger.Debug("stale symbol lookup discarded",
			"row", resolution.Identifier,
			"generation", resolution.Generation,
		)
	}
}

func (m *manager) Payload(id uuid.UUID) (*entities.VotePayload, error) {
	live, err := m.find(id)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	return live.table.Payload(), nil
}

func (m *manager) Save(ctx context.Context, id uuid.UUID) error {
	live, err := m.find(id)
	if err != nil {
		return err
	}

	live.mu.Lock()
	payload := live.table.Payload()
	live.mu.Unlock()

	if err := m.entities.SaveVote(ctx, payload); err != nil {
		return fmt.Errorf("save vote for case %s: %w", payload.CaseID, err)
	}

	m.logger.Info("vote saved", "session", id, "case", payload.CaseID)
	return nil
}

func (m *manager) Close(ctx context.Context, id uuid.UUID) error {
	live, err := m.find(id)
	if err != nil {
		return err
	}

	live.mu.Lock()
	ready := live.table.Tally() != entities.TallyUnset && live.table.Valid()
	payload := live.table.Payload()
	state := m.state(live)
	live.mu.Unlock()

	if !ready {
		return ErrNotReady
	}

	if err := m.entities.SaveVote(ctx, payload); err != nil {
		return fmt.Errorf("save vote for case %s: %w", payload.CaseID, err)
	}

	if err := m.snapshot(ctx, state, payload); err != nil {
		return fmt.Errorf("archive vote snapshot for case %s: %w", payload.CaseID, err)
	}

	if err := m.entities.CloseCase(ctx, payload.CaseID, payload.CommitteeNumber); err != nil {
		return fmt.Errorf("close case %s: %w", payload.CaseID, err)
	}

	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	m.logger.Info("vote session closed",
		"session", id,
		"case", payload.CaseID,
		"committee", payload.CommitteeNumber,
	)
	return nil
}

// snapshot archives the finalized state and payload as a JSON blob keyed by
// case, committee, and close time.
func (m *manager) snapshot(ctx context.Context, state *SessionState, payload *entities.VotePayload) error {
	record := struct {
		ClosedAt time.Time             `json:"closed_at"`
		State    *SessionState         `json:"state"`
		Payload  *entities.VotePayload `json:"payload"`
	}{
		ClosedAt: time.Now().UTC(),
		State:    state,
		Payload:  payload,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("votes/%s/%d/%s.json",
		payload.CaseID,
		payload.CommitteeNumber,
		record.ClosedAt.Format("20060102T150405Z"),
	)

	return m.archive.Upload(ctx, key, bytes.NewReader(data), "application/json")
}

func (m *manager) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	return nil
}

// tableOptions adapts the reference-data option sets to the table's types.
func tableOptions(set scales.OptionSet) table.Options {
	return table.Options{
		Outlooks:         tableOptionList(set.Outlooks),
		ReviewStatuses:   tableOptionList(set.ReviewStatuses),
		WatchStatuses:    tableOptionList(set.WatchStatuses),
		LossGivenDefault: tableOptionList(set.LossGivenDefault),
	}
}

func tableOptionList(opts []scales.Option) []table.Option {
	out := make([]table.Option, len(opts))
	for i, o := range opts {
		out[i] = table.Option{Value: o.Value, Label: o.Label}
	}
	return out
}

// tableSymbols adapts reference symbols to the table's type.
func tableSymbols(symbols []scales.Symbol) []table.Symbol {
	out := make([]table.Symbol, len(symbols))
	for i, s := range symbols {
		out[i] = table.Symbol{Value: s.Value, Rank: s.Rank, Group: s.Group}
	}
	return out
}
