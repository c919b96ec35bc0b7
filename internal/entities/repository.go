package entities

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ratingsdesk/quorum/pkg/pagination"
	"github.com/ratingsdesk/quorum/pkg/query"
	"github.com/ratingsdesk/quorum/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an entity repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "entities"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Summary], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Analyst")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count entities: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	summaries, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSummary)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}

	result := pagination.NewPageResult(summaries, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Summary, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	e, err := repository.QueryOne(ctx, r.db, q, args, scanSummary)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

type caseRow struct {
	ref  uuid.UUID
	data CommitteeCase
}

func (r *repo) LoadCase(ctx context.Context, caseID string, committeeNumber int) (*CommitteeCase, error) {
	c, err := r.findCase(ctx, caseID, committeeNumber)
	if err != nil {
		return nil, err
	}

	if err := r.loadEntities(ctx, c); err != nil {
		return nil, err
	}

	r.logger.Info(
		"committee case loaded",
		"case_id", caseID,
		"committee_number", committeeNumber,
		"entities", len(c.data.Entities),
	)

	return &c.data, nil
}

func (r *repo) findCase(ctx context.Context, caseID string, committeeNumber int) (*caseRow, error) {
	const q = `
		SELECT id, case_id, committee_number, name, action, rating_group, vote_tally
		FROM committee_cases
		WHERE case_id = $1 AND committee_number = $2`

	c, err := repository.QueryOne(
		ctx, r.db, q,
		[]any{caseID, committeeNumber},
		func(s repository.Scanner) (caseRow, error) {
			var row caseRow
			err := s.Scan(
				&row.ref,
				&row.data.CaseID,
				&row.data.CommitteeNumber,
				&row.data.Name,
				&row.data.Action,
				&row.data.RatingGroup,
				&row.data.VoteTally,
			)
			return row, err
		},
	)
	if err != nil {
		return nil, repository.MapError(err, ErrCaseNotFound, ErrDuplicate)
	}

	return &c, nil
}

// loadEntities assembles the case graph with one query per level, attaching
// classes, debts, ratings, and outlooks by id in original position order.
func (r *repo) loadEntities(ctx context.Context, c *caseRow) error {
	const entitiesQ = `
		SELECT e.id, e.name, e.domicile_code, e.domicile_name
		FROM case_entities ce
		JOIN entities e ON e.id = ce.entity_id
		WHERE ce.case_ref = $1
		ORDER BY ce.position`

	ents, err := repository.QueryMany(
		ctx, r.db, entitiesQ, []any{c.ref},
		func(s repository.Scanner) (Entity, error) {
			var e Entity
			err := s.Scan(&e.ID, &e.Name, &e.Domicile.Code, &e.Domicile.Name)
			e.RatingClasses = []RatingClass{}
			e.Debts = []Debt{}
			return e, err
		},
	)
	if err != nil {
		return fmt.Errorf("query case entities: %w", err)
	}

	entityIdx := make(map[string]int, len(ents))
	for i, e := range ents {
		entityIdx[e.ID] = i
	}

	classIdx := make(map[string][2]int)
	if err := r.loadClasses(ctx, c.ref, ents, entityIdx, classIdx); err != nil {
		return err
	}

	debtIdx := make(map[string][2]int)
	if err := r.loadDebts(ctx, c.ref, ents, entityIdx, debtIdx); err != nil {
		return err
	}

	if err := r.loadRatings(ctx, c.ref, ents, classIdx, debtIdx); err != nil {
		return err
	}

	if err := r.loadOutlooks(ctx, c.ref, ents, entityIdx); err != nil {
		return err
	}

	c.data.Entities = ents
	return nil
}

func (r *repo) loadClasses(
	ctx context.Context,
	ref uuid.UUID,
	ents []Entity,
	entityIdx map[string]int,
	classIdx map[string][2]int,
) error {
	const q = `
		SELECT id, entity_id, name, currency, added
		FROM rating_classes
		WHERE case_ref = $1
		ORDER BY position`

	type classRow struct {
		entityID string
		class    RatingClass
	}

	rows, err := repository.QueryMany(
		ctx, r.db, q, []any{ref},
		func(s repository.Scanner) (classRow, error) {
			var row classRow
			err := s.Scan(&row.class.ID, &row.entityID, &row.class.Name, &row.class.Currency, &row.class.Added)
			row.class.Ratings = []Rating{}
			return row, err
		},
	)
	if err != nil {
		return fmt.Errorf("query rating classes: %w", err)
	}

	for _, row := range rows {
		ei, ok := entityIdx[row.entityID]
		if !ok {
			continue
		}
		ents[ei].RatingClasses = append(ents[ei].RatingClasses, row.class)
		classIdx[row.class.ID] = [2]int{ei, len(ents[ei].RatingClasses) - 1}
	}

	return nil
}

func (r *repo) loadDebts(
	ctx context.Context,
	ref uuid.UUID,
	ents []Entity,
	entityIdx map[string]int,
	debtIdx map[string][2]int,
) error {
	const q = `
		SELECT id, entity_id, name, currency_code, COALESCE(face_amount, 0),
			COALESCE(to_char(maturity_date, 'YYYY-MM-DD'), ''), added
		FROM debts
		WHERE case_ref = $1
		ORDER BY position`

	type debtRow struct {
		entityID string
		debt     Debt
	}

	rows, err := repository.QueryMany(
		ctx, r.db, q, []any{ref},
		func(s repository.Scanner) (debtRow, error) {
			var row debtRow
			err := s.Scan(
				&row.debt.ID,
				&row.entityID,
				&row.debt.Name,
				&row.debt.CurrencyCode,
				&row.debt.FaceAmount,
				&row.debt.MaturityDate,
				&row.debt.Added,
			)
			row.debt.Ratings = []Rating{}
			return row, err
		},
	)
	if err != nil {
		return fmt.Errorf("query debts: %w", err)
	}

	for _, row := range rows {
		ei, ok := entityIdx[row.entityID]
		if !ok {
			continue
		}
		ents[ei].Debts = append(ents[ei].Debts, row.debt)
		debtIdx[row.debt.ID] = [2]int{ei, len(ents[ei].Debts) - 1}
	}

	return nil
}

func (r *repo) loadRatings(
	ctx context.Context,
	ref uuid.UUID,
	ents []Entity,
	classIdx map[string][2]int,
	debtIdx map[string][2]int,
) error {
	const q = `
		SELECT COALESCE(r.class_id::text, ''), COALESCE(r.debt_id::text, ''),
			r.identifier, r.scale_code, r.scale_strategy,
			r.current_value, r.current_review_status,
			r.proposed_value, r.proposed_review_status, r.proposed_outlook, r.proposed_watch_status,
			r.final_voted, r.final_value, r.final_outlook, r.final_review_status,
			r.bridge, r.added
		FROM ratings r
		LEFT JOIN rating_classes c ON c.id = r.class_id
		LEFT JOIN debts d ON d.id = r.debt_id
		WHERE c.case_ref = $1 OR d.case_ref = $1
		ORDER BY r.position`

	type ratingRow struct {
		classID string
		debtID  string
		rating  Rating
	}

	rows, err := repository.QueryMany(
		ctx, r.db, q, []any{ref},
		func(s repository.Scanner) (ratingRow, error) {
			var row ratingRow
			err := s.Scan(
				&row.classID,
				&row.debtID,
				&row.rating.Identifier,
				&row.rating.ScaleCode,
				&row.rating.ScaleStrategy,
				&row.rating.Current.Value,
				&row.rating.Current.ReviewStatus,
				&row.rating.Proposed.Value,
				&row.rating.Proposed.ReviewStatus,
				&row.rating.Proposed.Outlook,
				&row.rating.Proposed.WatchStatus,
				&row.rating.Finalized.Voted,
				&row.rating.Finalized.Value,
				&row.rating.Finalized.Outlook,
				&row.rating.Finalized.ReviewStatus,
				&row.rating.Bridge,
				&row.rating.Added,
			)
			return row, err
		},
	)
	if err != nil {
		return fmt.Errorf("query ratings: %w", err)
	}

	for _, row := range rows {
		if idx, ok := classIdx[row.classID]; ok {
			cls := &ents[idx[0]].RatingClasses[idx[1]]
			cls.Ratings = append(cls.Ratings, row.rating)
			continue
		}
		if idx, ok := debtIdx[row.debtID]; ok {
			debt := &ents[idx[0]].Debts[idx[1]]
			debt.Ratings = append(debt.Ratings, row.rating)
		}
	}

	return nil
}

func (r *repo) loadOutlooks(
	ctx context.Context,
	ref uuid.UUID,
	ents []Entity,
	entityIdx map[string]int,
) error {
	const q = `
		SELECT entity_id, identifier, current_outlook, proposed_outlook, final_voted, final_outlook
		FROM entity_outlooks
		WHERE case_ref = $1`

	type outlookRow struct {
		entityID string
		outlook  Outlook
	}

	rows, err := repository.QueryMany(
		ctx, r.db, q, []any{ref},
		func(s repository.Scanner) (outlookRow, error) {
			var row outlookRow
			err := s.Scan(
				&row.entityID,
				&row.outlook.Identifier,
				&row.outlook.Current,
				&row.outlook.Proposed,
				&row.outlook.Finalized.Voted,
				&row.outlook.Finalized.Outlook,
			)
			return row, err
		},
	)
	if err != nil {
		return fmt.Errorf("query entity outlooks: %w", err)
	}

	for _, row := range rows {
		if ei, ok := entityIdx[row.entityID]; ok {
			outlook := row.outlook
			ents[ei].Outlook = &outlook
		}
	}

	return nil
}

func (r *repo) SaveVote(ctx context.Context, payload *VotePayload) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		var ref uuid.UUID
		err := tx.QueryRowContext(
			ctx,
			`UPDATE committee_cases SET vote_tally = $1
			 WHERE case_id = $2 AND committee_number = $3
			 RETURNING id`,
			string(payload.VoteTally), payload.CaseID, payload.CommitteeNumber,
		).Scan(&ref)
		if err != nil {
			return struct{}{}, err
		}

		for _, er := range payload.EntityRatings {
			if err := r.saveEntityRatings(ctx, tx, ref, er); err != nil {
				return struct{}{}, err
			}
		}

		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrCaseNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"vote saved",
		"case_id", payload.CaseID,
		"committee_number", payload.CommitteeNumber,
		"tally", payload.VoteTally,
	)
	return nil
}

func (r *repo) saveEntityRatings(
	ctx context.Context,
	tx *sql.Tx,
	ref uuid.UUID,
	er EntityRatingSave,
) error {
	for _, rating := range er.Ratings {
		if rating.Added {
			if err := r.upsertAddedClassRating(ctx, tx, ref, er.OwningEntityID, rating); err != nil {
				return err
			}
			continue
		}
		if err := r.updateFinalized(ctx, tx, ref, er.OwningEntityID, rating); err != nil {
			return err
		}
	}

	for _, debt := range er.Debts {
		if debt.Added {
			if err := r.upsertAddedDebt(ctx, tx, ref, er.OwningEntityID, debt); err != nil {
				return err
			}
			continue
		}
		for _, rating := range debt.Ratings {
			if err := r.updateDebtFinalized(ctx, tx, ref, er.OwningEntityID, debt.ID, rating); err != nil {
				return err
			}
		}
	}

	return nil
}

// updateFinalized writes a rating's final values by identifier across the
// three places it may live: class ratings, debt ratings, and the entity
// outlook. Zero affected rows is not an error; the identifier simply does
// not exist on that axis.
func (r *repo) updateFinalized(
	ctx context.Context,
	tx *sql.Tx,
	ref uuid.UUID,
	entityID string,
	rating SavedRating,
) error {
	finals := []any{
		string(rating.Finalized.Voted),
		rating.Finalized.Value,
		rating.Finalized.Outlook,
		rating.Finalized.ReviewStatus,
	}

	classQ := `
		UPDATE ratings r
		SET final_voted = $1, final_value = $2, final_outlook = $3, final_review_status = $4
		FROM rating_classes c
		WHERE r.class_id = c.id AND c.case_ref = $5 AND c.entity_id = $6 AND r.identifier = $7`
	if _, err := tx.ExecContext(ctx, classQ, append(finals, ref, entityID, rating.Key)...); err != nil {
		return fmt.Errorf("update class rating %s: %w", rating.Key, err)
	}

	outlookQ := `
		UPDATE entity_outlooks
		SET final_voted = $1, final_outlook = $2
		WHERE case_ref = $3 AND entity_id = $4 AND identifier = $5`
	outlookArgs := []any{
		string(rating.Finalized.Voted),
		rating.Finalized.Outlook,
		ref, entityID, rating.Key,
	}
	if _, err := tx.ExecContext(ctx, outlookQ, outlookArgs...); err != nil {
		return fmt.Errorf("update outlook %s: %w", rating.Key, err)
	}

	return nil
}

func (r *repo) updateDebtFinalized(
	ctx context.Context,
	tx *sql.Tx,
	ref uuid.UUID,
	entityID string,
	debtID string,
	rating Rating,
) error {
	const q = `
		UPDATE ratings r
		SET final_voted = $1, final_value = $2, final_outlook = $3, final_review_status = $4
		FROM debts d
		WHERE r.debt_id = d.id AND d.case_ref = $5 AND d.entity_id = $6
			AND d.id = $7 AND r.identifier = $8`

	_, err := tx.ExecContext(
		ctx, q,
		string(rating.Finalized.Voted),
		rating.Finalized.Value,
		rating.Finalized.Outlook,
		rating.Finalized.ReviewStatus,
		ref, entityID, debtID, rating.Identifier,
	)
	if err != nil {
		return fmt.Errorf("update debt rating %s: %w", rating.Identifier, err)
	}
	return nil
}

// upsertAddedClassRating persists an interactively added rating class. The
// row's identifier doubles as the class id so re-saving is idempotent.
func (r *repo) upsertAddedClassRating(
	ctx context.Context,
	tx *sql.Tx,
	ref uuid.UUID,
	entityID string,
	rating SavedRating,
) error {
	const classQ = `
		INSERT INTO rating_classes (id, case_ref, entity_id, name, currency, added, position)
		VALUES ($1, $2, $3, $4, $5, TRUE,
			COALESCE((SELECT MAX(position) + 1 FROM rating_classes WHERE case_ref = $2), 0))
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, currency = EXCLUDED.currency`

	if _, err := tx.ExecContext(ctx, classQ, rating.Key, ref, entityID, rating.Name, rating.Currency); err != nil {
		return fmt.Errorf("upsert added class %s: %w", rating.Key, err)
	}

	const ratingQ = `
		INSERT INTO ratings (id, class_id, identifier,
			proposed_value, proposed_review_status, proposed_outlook, proposed_watch_status,
			final_voted, final_value, final_outlook, final_review_status,
			bridge, added, position)
		VALUES ($1, $2, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, TRUE, 0)
		ON CONFLICT (class_id, identifier) WHERE class_id IS NOT NULL
		DO UPDATE SET
			final_voted = EXCLUDED.final_voted,
			final_value = EXCLUDED.final_value,
			final_outlook = EXCLUDED.final_outlook,
			final_review_status = EXCLUDED.final_review_status`

	_, err := tx.ExecContext(
		ctx, ratingQ,
		uuid.New(), rating.Key,
		rating.Proposed.Value, rating.Proposed.ReviewStatus,
		rating.Proposed.Outlook, rating.Proposed.WatchStatus,
		string(rating.Finalized.Voted), rating.Finalized.Value,
		rating.Finalized.Outlook, rating.Finalized.ReviewStatus,
		rating.Bridge,
	)
	if err != nil {
		return fmt.Errorf("upsert added class rating %s: %w", rating.Key, err)
	}
	return nil
}

func (r *repo) upsertAddedDebt(
	ctx context.Context,
	tx *sql.Tx,
	ref uuid.UUID,
	entityID string,
	debt Debt,
) error {
	const debtQ = `
		INSERT INTO debts (id, case_ref, entity_id, name, currency_code, face_amount, maturity_date, added, position)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::date, TRUE,
			COALESCE((SELECT MAX(position) + 1 FROM debts WHERE case_ref = $2), 0))
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			currency_code = EXCLUDED.currency_code,
			face_amount = EXCLUDED.face_amount,
			maturity_date = EXCLUDED.maturity_date`

	if _, err := tx.ExecContext(
		ctx, debtQ,
		debt.ID, ref, entityID, debt.Name, debt.CurrencyCode, debt.FaceAmount, debt.MaturityDate,
	); err != nil {
		return fmt.Errorf("upsert added debt %s: %w", debt.ID, err)
	}

	const ratingQ = `
		INSERT INTO ratings (id, debt_id, identifier,
			proposed_value, proposed_review_status, proposed_outlook, proposed_watch_status,
			final_voted, final_value, final_outlook, final_review_status,
			bridge, added, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, TRUE, $13)
		ON CONFLICT (debt_id, identifier) WHERE debt_id IS NOT NULL
		DO UPDATE SET
			final_voted = EXCLUDED.final_voted,
			final_value = EXCLUDED.final_value,
			final_outlook = EXCLUDED.final_outlook,
			final_review_status = EXCLUDED.final_review_status`

	for i, rating := range debt.Ratings {
		_, err := tx.ExecContext(
			ctx, ratingQ,
			uuid.New(), debt.ID, rating.Identifier,
			rating.Proposed.Value, rating.Proposed.ReviewStatus,
			rating.Proposed.Outlook, rating.Proposed.WatchStatus,
			string(rating.Finalized.Voted), rating.Finalized.Value,
			rating.Finalized.Outlook, rating.Finalized.ReviewStatus,
			rating.Bridge, i,
		)
		if err != nil {
			return fmt.Errorf("upsert added debt rating %s: %w", rating.Identifier, err)
		}
	}
	return nil
}

func (r *repo) CloseCase(ctx context.Context, caseID string, committeeNumber int) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		`UPDATE committee_cases SET closed_at = now()
		 WHERE case_id = $1 AND committee_number = $2 AND closed_at IS NULL`,
		caseID, committeeNumber,
	)
	if err != nil {
		return repository.MapError(err, ErrCaseNotFound, ErrDuplicate)
	}

	r.logger.Info("committee case closed", "case_id", caseID, "committee_number", committeeNumber)
	return nil
}
