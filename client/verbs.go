package client

import (
	"context"
	"net/http"

	"github.com/sicko7947/restddb"
)

const (
	msgKeySchemaViolation = "key schema violation"
	msgNotFound           = "item not found"
	msgEmptyPatch         = "patch requires at least one non-key attribute"
)

// Classifier overrides for the precondition failure of each write intent
var (
	// create-if-absent: the row already exists
	createOverrides = map[string]restddb.ErrorType{
		restddb.ErrCodeConditionalCheckFailed: restddb.Conflict,
	}

	// write-if-present: the row does not exist
	existingOverrides = map[string]restddb.ErrorType{
		restddb.ErrCodeConditionalCheckFailed: restddb.NotFound,
	}
)

// Get fetches the item identified by id
//
//	found ⟼ Ok(200, item), absent ⟼ Err(404)
func (c *Client) Get(ctx context.Context, id restddb.Id, opts ...restddb.CallOption) *restddb.Result[restddb.Item] {
	return c.dispatch(ctx, restddb.VerbGet, id, func(ctx context.Context, schema restddb.KeySchema) (*restddb.Ok[restddb.Item], *restddb.Err) {
		item, err := c.store.GetItem(ctx, c.table, id, nil)
		if err != nil {
			return nil, backendErr(err, nil)
		}
		if item == nil {
			return nil, notFound()
		}
		return ok(http.StatusOK, item), nil
	}, opts)
}

// Head checks that the item identified by id exists, reading key
// attributes only
//
//	found ⟼ Ok(204), absent ⟼ Err(404)
func (c *Client) Head(ctx context.Context, id restddb.Id, opts ...restddb.CallOption) *restddb.Result[restddb.Item] {
	return c.dispatch(ctx, restddb.VerbHead, id, func(ctx context.Context, schema restddb.KeySchema) (*restddb.Ok[restddb.Item], *restddb.Err) {
		item, err := c.store.GetItem(ctx, c.table, id, schema)
		if err != nil {
			return nil, backendErr(err, nil)
		}
		if item == nil {
			return nil, notFound()
		}
		return noContent(), nil
	}, opts)
}

// Post creates the item id ∪ data if no row with id exists
//
//	created ⟼ Ok(201, item), exists ⟼ Err(409)
func (c *Client) Post(ctx context.Context, id restddb.Id, data restddb.Item, opts ...restddb.CallOption) *restddb.Result[restddb.Item] {
	return c.dispatch(ctx, restddb.VerbPost, id, func(ctx context.Context, schema restddb.KeySchema) (*restddb.Ok[restddb.Item], *restddb.Err) {
		item := restddb.NewItem(id, data)
		cond := restddb.AttributesNotExist(schema...)
		if err := c.store.PutItem(ctx, c.table, item, cond); err != nil {
			return nil, backendErr(err, createOverrides)
		}
		return ok(http.StatusCreated, item), nil
	}, opts)
}

// Put replaces the row identified by id with id ∪ data if it exists
//
//	replaced ⟼ Ok(200, item), absent ⟼ Err(404)
func (c *Client) Put(ctx context.Context, id restddb.Id, data restddb.Item, opts ...restddb.CallOption) *restddb.Result[restddb.Item] {
	return c.dispatch(ctx, restddb.VerbPut, id, func(ctx context.Context, schema restddb.KeySchema) (*restddb.Ok[restddb.Item], *restddb.Err) {
		item := restddb.NewItem(id, data)
		cond := restddb.AttributesExist(schema...)
		if err := c.store.PutItem(ctx, c.table, item, cond); err != nil {
			return nil, backendErr(err, existingOverrides)
		}
		return ok(http.StatusOK, item), nil
	}, opts)
}

// Patch sets the data attributes on the existing row identified by id.
// The merge is shallow: nested values replace the stored ones wholesale.
// Key attributes in data are ignored.
//
//	updated ⟼ Ok(200, full item), absent ⟼ Err(404)
func (c *Client) Patch(ctx context.Context, id restddb.Id, data restddb.Item, opts ...restddb.CallOption) *restddb.Result[restddb.Item] {
	return c.dispatch(ctx, restddb.VerbPatch, id, func(ctx context.Context, schema restddb.KeySchema) (*restddb.Ok[restddb.Item], *restddb.Err) {
		attrs := restddb.WithoutKeys(schema, data)
		if len(attrs) == 0 {
			return nil, badRequest(msgEmptyPatch)
		}

		update, err := restddb.BuildUpdateExpression(attrs)
		if err != nil {
			return nil, badRequest(err.Error())
		}

		cond := restddb.AttributesExist(schema...)
		item, err := c.store.UpdateItem(ctx, c.table, id, cond, update)
		if err != nil {
			return nil, backendErr(err, existingOverrides)
		}
		return ok(http.StatusOK, item), nil
	}, opts)
}

// Delete removes the row identified by id. Deleting an absent row succeeds.
//
//	deleted ⟼ Ok(204)
func (c *Client) Delete(ctx context.Context, id restddb.Id, opts ...restddb.CallOption) *restddb.Result[restddb.Item] {
	return c.dispatch(ctx, restddb.VerbDelete, id, func(ctx context.Context, schema restddb.KeySchema) (*restddb.Ok[restddb.Item], *restddb.Err) {
		if err := c.store.DeleteItem(ctx, c.table, id); err != nil {
			return nil, backendErr(err, nil)
		}
		return noContent(), nil
	}, opts)
}

// envelope helpers

func ok(status int, item restddb.Item) *restddb.Ok[restddb.Item] {
	return restddb.NewOk[restddb.Item]().
		WithDefaultStatusCode(status).
		WithData(item).
		MustBuild()
}

func noContent() *restddb.Ok[restddb.Item] {
	return restddb.NewOk[restddb.Item]().
		WithDefaultStatusCode(http.StatusNoContent).
		MustBuild()
}

func notFound() *restddb.Err {
	return restddb.NewErr().
		WithErrorType(restddb.NotFound).
		WithMessage(msgNotFound).
		MustBuild()
}

func badRequest(msg string) *restddb.Err {
	return restddb.NewErr().
		WithErrorType(restddb.BadRequest).
		WithMessage(msg).
		MustBuild()
}

func backendErr(err error, overrides map[string]restddb.ErrorType) *restddb.Err {
	return restddb.NewErr().
		WithBackendError(err).
		WithBackendErrorCodeOverride(overrides).
		MustBuild()
}
