package api

import (
	"github.com/ratingsdesk/quorum/internal/config"
	"github.com/ratingsdesk/quorum/pkg/openapi"
)

// buildSpec assembles the OpenAPI document for the service endpoints.
func buildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"CreateSession": {
			Type:     "object",
			Required: []string{"case_id", "committee_number"},
			Properties: map[string]*openapi.Schema{
				"case_id":          {Type: "string", Description: "Committee case identifier"},
				"committee_number": {Type: "integer", Description: "Committee sitting number"},
			},
		},
		"Intent": {
			Type:     "object",
			Required: []string{"type"},
			Properties: map[string]*openapi.Schema{
				"type":       {Type: "string", Description: "Intent type"},
				"view":       {Type: "string", Enum: []any{"class", "debt"}},
				"parent_id":  {Type: "string", Description: "Owning entity id for row-scoped intents"},
				"identifier": {Type: "string", Description: "Row identifier for row-scoped intents"},
				"selected":   {Type: "boolean"},
				"value":      {Type: "string"},
				"tally":      {Type: "string", Enum: []any{"", "MAJORITY", "NO_MAJORITY", "NO_VOTE"}},
			},
		},
	})

	spec.Paths["/entities"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List entities",
			Tags:    []string{"entities"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Paginated entity summaries"},
			},
		},
	}
	spec.Paths["/entities/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Find entity",
			Tags:    []string{"entities"},
			Parameters: []*openapi.Parameter{
				{Name: "id", In: "path", Required: true, Schema: &openapi.Schema{Type: "string", Format: "uuid"}},
			},
			Responses: map[int]*openapi.Response{
				200: {Description: "Entity summary"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/scales/classes"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Search the rating-class catalog",
			Tags:    []string{"scales"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Matching catalog entries"},
			},
		},
	}
	spec.Paths["/scales/symbols"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List permissible scale symbols",
			Tags:    []string{"scales"},
			Parameters: []*openapi.Parameter{
				{Name: "scale_code", In: "query", Required: true, Schema: &openapi.Schema{Type: "string"}},
				{Name: "strategy", In: "query", Schema: &openapi.Schema{Type: "string"}},
				{Name: "domicile_code", In: "query", Schema: &openapi.Schema{Type: "string"}},
			},
			Responses: map[int]*openapi.Response{
				200: {Description: "Symbols ordered by group and rank"},
			},
		},
	}
	spec.Paths["/scales/options"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Dropdown option sets",
			Tags:    []string{"scales"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Static option sets"},
			},
		},
	}

	spec.Paths["/votes"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Open a vote session",
			Tags:        []string{"votes"},
			RequestBody: openapi.RequestBodyJSON("CreateSession", true),
			Responses: map[int]*openapi.Response{
				201: {Description: "Session state with both views"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/votes/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Session state",
			Tags:    []string{"votes"},
			Parameters: []*openapi.Parameter{
				{Name: "id", In: "path", Required: true, Schema: &openapi.Schema{Type: "string", Format: "uuid"}},
			},
			Responses: map[int]*openapi.Response{
				200: {Description: "Session state"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary: "Discard a session without saving",
			Tags:    []string{"votes"},
			Parameters: []*openapi.Parameter{
				{Name: "id", In: "path", Required: true, Schema: &openapi.Schema{Type: "string", Format: "uuid"}},
			},
			Responses: map[int]*openapi.Response{
				204: {Description: "Session discarded"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/votes/{id}/intents"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Apply a table intent",
			Tags:        []string{"votes"},
			RequestBody: openapi.RequestBodyJSON("Intent", true),
			Parameters: []*openapi.Parameter{
				{Name: "id", In: "path", Required: true, Schema: &openapi.Schema{Type: "string", Format: "uuid"}},
			},
			Responses: map[int]*openapi.Response{
				200: {Description: "Intent effects"},
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}
	spec.Paths["/votes/{id}/save"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary: "Save the session without closing",
			Tags:    []string{"votes"},
			Parameters: []*openapi.Parameter{
				{Name: "id", In: "path", Required: true, Schema: &openapi.Schema{Type: "string", Format: "uuid"}},
			},
			Responses: map[int]*openapi.Response{
				204: {Description: "Vote saved"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/votes/{id}/close"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary: "Finalize, archive, and close the case",
			Tags:    []string{"votes"},
			Parameters: []*openapi.Parameter{
				{Name: "id", In: "path", Required: true, Schema: &openapi.Schema{Type: "string", Format: "uuid"}},
			},
			Responses: map[int]*openapi.Response{
				204: {Description: "Case closed"},
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/archive"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Browse archived vote snapshots",
			Tags:    []string{"archive"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Archive listing"},
			},
		},
	}

	return spec
}
