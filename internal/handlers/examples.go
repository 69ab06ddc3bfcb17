package handlers

import (
	"github.com/gofiber/fiber/v3"
)

// Example pairs a description with a ready-to-send request body.
type Example struct {
	Description string            `json:"description"`
	Request     map[string]string `json:"request"`
}

// examples is the canned prompt catalog served by GET /examples.
var examples = []Example{
	{
		Description: "Get low priority requests",
		Request:     map[string]string{"request": "Get all the request with priority as low"},
	},
	{
		Description: "Get medium priority requests",
		Request:     map[string]string{"request": "Show me medium priority requests"},
	},
	{
		Description: "Get high and urgent requests",
		Request:     map[string]string{"request": "Find high and urgent priority requests"},
	},
	{
		Description: "Get all active requests (no priority filter)",
		Request:     map[string]string{"request": "Get all active requests"},
	},
	{
		Description: "Get the next page of results",
		Request:     map[string]string{"request": "Show me the next page of urgent requests"},
	},
	{
		Description: "Sort by priority",
		Request:     map[string]string{"request": "Get all active requests sorted by priority"},
	},
	{
		Description: "Get a specific request by identifier",
		Request:     map[string]string{"request": "Get request 2"},
	},
	{
		Description: "Get request details by ticket reference",
		Request:     map[string]string{"request": "Show me details of request INC-2"},
	},
}

// ExamplesHandler serves the informational endpoints.
type ExamplesHandler struct{}

// NewExamplesHandler creates a new examples handler.
func NewExamplesHandler() *ExamplesHandler {
	return &ExamplesHandler{}
}

// Examples handles GET /examples.
func (h *ExamplesHandler) Examples(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"examples":    examples,
		"endpoint":    "/execute-request",
		"method":      "POST",
		"description": "Translate a natural-language priority prompt into an upstream search call and execute it",
	})
}

// upstreamEndpoint describes one consumed upstream endpoint.
type upstreamEndpoint struct {
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Filters     []string `json:"supported_filters"`
}

// Endpoints handles GET /endpoints with the upstream endpoint inventory.
func (h *ExamplesHandler) Endpoints(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"available_endpoints": []upstreamEndpoint{
			{
				Name:        "requests",
				URL:         "/api/request/search/byqual",
				Description: "Search IT service requests by qualification filter",
				Filters:     []string{"priority"},
			},
			{
				Name:        "request_detail",
				URL:         "/api/request/{id}",
				Description: "Fetch a single request by identifier",
				Filters:     []string{},
			},
			{
				Name:        "statuses",
				URL:         "/api/request/status/search/byqual",
				Description: "Status name to identifier mapping",
				Filters:     []string{},
			},
		},
	})
}
