// Package api exposes a client over HTTP with fiber. The Id of a request
// is taken from its query parameters, the data attributes from its JSON
// body, and every Result is rendered with its default status code.
package api

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/sicko7947/restddb"
	"github.com/sicko7947/restddb/client"
)

// Handler serves the REST verbs of one client
type Handler struct {
	client *client.Client
}

// NewHandler creates a new HTTP handler for c
func NewHandler(c *client.Client) *Handler {
	return &Handler{client: c}
}

// RegisterRoutes registers the item routes on router
func (h *Handler) RegisterRoutes(router fiber.Router) {
	items := router.Group("/items")

	// HEAD first: fiber also routes HEAD to GET handlers
	items.Head("/", h.handleHead)
	items.Get("/", h.handleGet)
	items.Post("/", h.handlePost)
	items.Put("/", h.handlePut)
	items.Patch("/", h.handlePatch)
	items.Delete("/", h.handleDelete)
}

func (h *Handler) handleGet(c fiber.Ctx) error {
	return render(c, h.client.Get(c.Context(), idOf(c)))
}

func (h *Handler) handleHead(c fiber.Ctx) error {
	return render(c, h.client.Head(c.Context(), idOf(c)))
}

func (h *Handler) handlePost(c fiber.Ctx) error {
	data, err := dataOf(c)
	if err != nil {
		return renderBadBody(c, err)
	}
	return render(c, h.client.Post(c.Context(), idOf(c), data))
}

func (h *Handler) handlePut(c fiber.Ctx) error {
	data, err := dataOf(c)
	if err != nil {
		return renderBadBody(c, err)
	}
	return render(c, h.client.Put(c.Context(), idOf(c), data))
}

func (h *Handler) handlePatch(c fiber.Ctx) error {
	data, err := dataOf(c)
	if err != nil {
		return renderBadBody(c, err)
	}
	return render(c, h.client.Patch(c.Context(), idOf(c), data))
}

func (h *Handler) handleDelete(c fiber.Ctx) error {
	return render(c, h.client.Delete(c.Context(), idOf(c)))
}

// idOf builds the Id from the query parameters. Values are strings.
func idOf(c fiber.Ctx) restddb.Id {
	id := restddb.Id{}
	for k, v := range c.Queries() {
		id[k] = v
	}
	return id
}

// dataOf decodes the JSON body, an empty body meaning no data
func dataOf(c fiber.Ctx) (restddb.Item, error) {
	if len(c.Body()) == 0 {
		return nil, nil
	}

	var data restddb.Item
	if err := c.Bind().JSON(&data); err != nil {
		return nil, err
	}
	return data, nil
}

func renderBadBody(c fiber.Ctx, err error) error {
	e := restddb.NewErr().
		WithErrorType(restddb.BadRequest).
		WithMessage("invalid request body: " + err.Error()).
		MustBuild()
	return renderErr(c, e)
}

// render waits for the result and writes it as the response
func render(c fiber.Ctx, result *restddb.Result[restddb.Item]) error {
	ok, err := result.Future().Await(c.Context())
	if err != nil {
		var e *restddb.Err
		if errors.As(err, &e) {
			return renderErr(c, e)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
				"error": "request timed out",
			})
		}
		return err
	}

	if !ok.HasData() {
		return c.SendStatus(ok.DefaultStatusCode())
	}
	return c.Status(ok.DefaultStatusCode()).JSON(ok.Data())
}

func renderErr(c fiber.Ctx, e *restddb.Err) error {
	return c.Status(e.DefaultStatusCode()).JSON(fiber.Map{
		"error":   e.ErrorType().String(),
		"message": e.Message(),
	})
}
