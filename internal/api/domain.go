package api

import (
	"github.com/ratingsdesk/quorum/internal/entities"
	"github.com/ratingsdesk/quorum/internal/scales"
	"github.com/ratingsdesk/quorum/internal/votes"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Entities entities.System
	Scales   scales.System
	Votes    votes.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	entitiesSystem := entities.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	scalesSystem := scales.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)

	votesSystem := votes.New(
		entitiesSystem,
		scalesSystem,
		runtime.Storage,
		runtime.Logger,
	)

	return &Domain{
		Entities: entitiesSystem,
		Scales:   scalesSystem,
		Votes:    votesSystem,
	}
}
