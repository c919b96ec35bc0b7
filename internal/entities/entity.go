// Package entities owns the rated-entity domain model: committee cases,
// entities, rating classes, debts, outlooks, and the save contract the
// vote workflow writes back through.
package entities

import (
	"time"

	"github.com/google/uuid"
)

// VoteTally is the committee's collective voting outcome. A single value is
// selected for a whole rating table, and individual ratings may carry their
// own dissenting value from upstream data.
type VoteTally string

const (
	TallyUnset      VoteTally = ""
	TallyMajority   VoteTally = "MAJORITY"
	TallyNoMajority VoteTally = "NO_MAJORITY"
	TallyNoVote     VoteTally = "NO_VOTE"
)

// Votable reports whether ratings under this tally accept final values.
func (t VoteTally) Votable() bool {
	return t == TallyMajority
}

// Dissent reports whether this tally blocks finalization fields entirely.
func (t VoteTally) Dissent() bool {
	return t == TallyNoMajority || t == TallyNoVote
}

// Valid reports whether t is one of the recognized tally values.
func (t VoteTally) Valid() bool {
	switch t {
	case TallyUnset, TallyMajority, TallyNoMajority, TallyNoVote:
		return true
	}
	return false
}

// RatingGroup classifies the methodology context of a committee case.
type RatingGroup string

// RatingGroupBankingFinanceSecurities marks FIG-banking cases, which carry
// mandatory-outlook rules for certain rating classes.
const RatingGroupBankingFinanceSecurities RatingGroup = "BANKING_FINANCE_SECURITIES"

// Domicile identifies an entity's country of domicile.
type Domicile struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// RatingValue holds one side (current or proposed) of a rating.
type RatingValue struct {
	Value        string `json:"value"`
	ReviewStatus string `json:"review_status"`
	Outlook      string `json:"outlook,omitempty"`
	WatchStatus  string `json:"watch_status,omitempty"`
}

// Finalized holds the committee's decided values for a rating.
type Finalized struct {
	Voted        VoteTally `json:"voted"`
	Value        string    `json:"value"`
	Outlook      string    `json:"outlook"`
	ReviewStatus string    `json:"review_status"`
}

// CollectionKind names the entity sub-collection a rating lives in.
type CollectionKind string

const (
	KindClasses CollectionKind = "classes"
	KindDebts   CollectionKind = "debts"
	KindOutlook CollectionKind = "outlook"
)

// OriginRef is a path back into the committee-case model: entity index,
// collection kind, item index within the collection, and rating index within
// the item. It enables in-place mutation of the shared model without
// re-fetching or searching.
type OriginRef struct {
	Entity int            `json:"entity"`
	Kind   CollectionKind `json:"kind"`
	Item   int            `json:"item"`
	Rating int            `json:"rating"`
}

// Rating is a single current/proposed/finalized rating triple, identified
// uniquely within its owning entity and collection kind.
type Rating struct {
	Identifier    string      `json:"identifier"`
	ScaleCode     string      `json:"scale_code,omitempty"`
	ScaleStrategy string      `json:"scale_strategy,omitempty"`
	Current       RatingValue `json:"current"`
	Proposed      RatingValue `json:"proposed"`
	Finalized     Finalized   `json:"finalized"`
	Bridge        string      `json:"bridge,omitempty"`
	Added         bool        `json:"added,omitempty"`
}

// HasProposed reports whether any proposed field carries a value. Rows with
// a proposal are auto-preselected on the first table build.
func (r *Rating) HasProposed() bool {
	return r.Proposed.Value != "" || r.Proposed.Outlook != "" || r.Proposed.WatchStatus != ""
}

// RatingClass groups ratings by category (e.g. senior unsecured) under an entity.
type RatingClass struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Currency string   `json:"currency"`
	Added    bool     `json:"added,omitempty"`
	Ratings  []Rating `json:"ratings"`
}

// Debt groups ratings by debt instrument, the alternative axis to rating class.
type Debt struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	CurrencyCode string   `json:"currency_code"`
	FaceAmount   float64  `json:"face_amount,omitempty"`
	MaturityDate string   `json:"maturity_date,omitempty"`
	Added        bool     `json:"added,omitempty"`
	Ratings      []Rating `json:"ratings"`
}

// Outlook is the directional indicator tracked alongside an entity's ratings.
type Outlook struct {
	Identifier string    `json:"identifier"`
	Current    string    `json:"current"`
	Proposed   string    `json:"proposed"`
	Finalized  Finalized `json:"finalized"`
}

// Entity is a rated organization under committee review, with its ordered
// rating classes and debts. The vote workflow mutates it in place through
// OriginRef paths.
type Entity struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Domicile      Domicile      `json:"domicile"`
	RatingClasses []RatingClass `json:"rating_classes"`
	Debts         []Debt        `json:"debts"`
	Outlook       *Outlook      `json:"outlook,omitempty"`
}

// CommitteeCase is the full model for one committee sitting: the ordered
// entities under review plus case-level context.
type CommitteeCase struct {
	CaseID          string      `json:"case_id"`
	CommitteeNumber int         `json:"committee_number"`
	Name            string      `json:"name"`
	Action          string      `json:"action,omitempty"`
	RatingGroup     RatingGroup `json:"rating_group"`
	VoteTally       VoteTally   `json:"vote_tally"`
	Entities        []Entity    `json:"entities"`
}

// Summary is the list projection for the entity catalog endpoints.
type Summary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	DomicileCode string    `json:"domicile_code"`
	DomicileName string    `json:"domicile_name"`
	Analyst      string    `json:"analyst,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SavedRating is one finalized rating in the save payload. Name and Currency
// are carried only for interactively added rows, which have no pre-existing
// persistence record to match by key.
type SavedRating struct {
	Key       string      `json:"key"`
	Current   RatingValue `json:"current"`
	Proposed  RatingValue `json:"proposed"`
	Finalized Finalized   `json:"finalized"`
	Bridge    string      `json:"bridge,omitempty"`
	Added     bool        `json:"added,omitempty"`
	Name      string      `json:"name,omitempty"`
	Currency  string      `json:"currency,omitempty"`
}

// EntityRatingSave carries one entity's finalized ratings and debts.
type EntityRatingSave struct {
	OwningEntityID   string        `json:"owning_entity_id"`
	OwningEntityName string        `json:"owning_entity_name"`
	Ratings          []SavedRating `json:"ratings"`
	Debts            []Debt        `json:"debts"`
}

// VotePayload is the save contract consumed by case persistence.
type VotePayload struct {
	CaseID          string             `json:"case_id"`
	CommitteeNumber int                `json:"committee_number"`
	VoteTally       VoteTally          `json:"vote_tally"`
	EntityRatings   []EntityRatingSave `json:"entity_ratings"`
}
