package table

import (
	"github.com/ratingsdesk/quorum/internal/entities"
)

// Payload assembles the save contract from the live model: the table tally,
// then per entity the class-axis ratings (outlook included) and the debt
// instruments carried wholesale. Added rows carry their name and currency
// so persistence can create records that have no existing key to match.
func (s *Session) Payload() *entities.VotePayload {
	payload := &entities.VotePayload{
		CaseID:          s.Case.CaseID,
		CommitteeNumber: s.Case.CommitteeNumber,
		VoteTally:       s.tally,
	}

	for ei := range s.Case.Entities {
		ent := &s.Case.Entities[ei]

		save := entities.EntityRatingSave{
			OwningEntityID:   ent.ID,
			OwningEntityName: ent.Name,
		}

		if ent.Outlook != nil {
			save.Ratings = append(save.Ratings, entities.SavedRating{
				Key:       ent.Outlook.Identifier,
				Current:   entities.RatingValue{Outlook: ent.Outlook.Current},
				Proposed:  entities.RatingValue{Outlook: ent.Outlook.Proposed},
				Finalized: ent.Outlook.Finalized,
			})
		}

		for ci := range ent.RatingClasses {
			cls := &ent.RatingClasses[ci]
			for ri := range cls.Ratings {
				r := &cls.Ratings[ri]

				saved := entities.SavedRating{
					Key:       r.Identifier,
					Current:   r.Current,
					Proposed:  r.Proposed,
					Finalized: r.Finalized,
					Bridge:    r.Bridge,
					Added:     cls.Added || r.Added,
				}
				if saved.Added {
					saved.Name = cls.Name
					saved.Currency = cls.Currency
				}
				save.Ratings = append(save.Ratings, saved)
			}
		}

		save.Debts = append(save.Debts, ent.Debts...)

		payload.EntityRatings = append(payload.EntityRatings, save)
	}

	return payload
}
