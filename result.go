package restddb

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"sync"
)

//------------------------------------------------------------------------------
//
// Ok
//
//------------------------------------------------------------------------------

var okStatusCodes = map[int]bool{
	http.StatusOK:        true,
	http.StatusCreated:   true,
	http.StatusNoContent: true,
}

// Ok is the immutable success envelope
type Ok[T any] struct {
	data              T
	hasData           bool
	defaultStatusCode int
}

// Data returns the payload, or the zero value when there is none
func (o *Ok[T]) Data() T {
	return o.data
}

// HasData reports whether a payload was set
func (o *Ok[T]) HasData() bool {
	return o.hasData
}

// DefaultStatusCode returns the HTTP status code of the success
func (o *Ok[T]) DefaultStatusCode() int {
	return o.defaultStatusCode
}

// String returns the string representation
func (o *Ok[T]) String() string {
	return fmt.Sprintf("Ok(%d)", o.defaultStatusCode)
}

// OkBuilder accumulates the fields of an Ok
type OkBuilder[T any] struct {
	data              T
	hasData           bool
	defaultStatusCode int
}

// NewOk starts building an Ok
func NewOk[T any]() *OkBuilder[T] {
	return &OkBuilder[T]{}
}

// WithData sets the payload
func (b *OkBuilder[T]) WithData(data T) *OkBuilder[T] {
	b.data = data
	b.hasData = true
	return b
}

// WithDefaultStatusCode sets the HTTP status code
func (b *OkBuilder[T]) WithDefaultStatusCode(code int) *OkBuilder[T] {
	b.defaultStatusCode = code
	return b
}

func (b *OkBuilder[T]) validate() error {
	if !okStatusCodes[b.defaultStatusCode] {
		return fmt.Errorf("%w: got %d", ErrInvalidOk, b.defaultStatusCode)
	}
	return nil
}

// Build validates the accumulated fields and freezes them into an Ok
func (b *OkBuilder[T]) Build() (*Ok[T], error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	return &Ok[T]{
		data:              b.data,
		hasData:           b.hasData,
		defaultStatusCode: b.defaultStatusCode,
	}, nil
}

// MustBuild is Build that panics on an invalid Ok
func (b *OkBuilder[T]) MustBuild() *Ok[T] {
	ok, err := b.Build()
	if err != nil {
		panic(err)
	}
	return ok
}

//------------------------------------------------------------------------------
//
// Err
//
//------------------------------------------------------------------------------

// Err is the immutable failure envelope
type Err struct {
	isBackendError    bool
	backendError      *BackendError
	errorType         ErrorType
	defaultStatusCode int
	message           string
	statusRange       StatusRange
}

// IsBackendError reports whether the failure originated in the store
func (e *Err) IsBackendError() bool {
	return e.isBackendError
}

// BackendError returns the classified store failure, nil for REST-level errors
func (e *Err) BackendError() *BackendError {
	return e.backendError
}

// ErrorType returns the REST error category
func (e *Err) ErrorType() ErrorType {
	return e.errorType
}

// DefaultStatusCode returns the HTTP status code of the failure
func (e *Err) DefaultStatusCode() int {
	return e.defaultStatusCode
}

// Message returns the human readable failure description
func (e *Err) Message() string {
	return e.message
}

// StatusRange returns Client or Server
func (e *Err) StatusRange() StatusRange {
	return e.statusRange
}

// Error implements the error interface
func (e *Err) Error() string {
	return fmt.Sprintf("[%d %s] %s", e.defaultStatusCode, e.errorType, e.message)
}

// Unwrap exposes the backend failure to errors.Is/As
func (e *Err) Unwrap() error {
	if e.backendError == nil {
		return nil
	}
	return e.backendError
}

// ErrBuilder accumulates the fields of an Err
type ErrBuilder struct {
	backendError error
	errorType    ErrorType
	hasType      bool
	message      string
	hasMessage   bool
	overrides    map[string]ErrorType
}

// NewErr starts building an Err
func NewErr() *ErrBuilder {
	return &ErrBuilder{}
}

// WithBackendError sets the raw store failure to classify
func (b *ErrBuilder) WithBackendError(err error) *ErrBuilder {
	b.backendError = err
	return b
}

// WithErrorType sets the REST error category of a non-backend failure
func (b *ErrBuilder) WithErrorType(t ErrorType) *ErrBuilder {
	b.errorType = t
	b.hasType = true
	return b
}

// WithMessage sets the failure description
func (b *ErrBuilder) WithMessage(msg string) *ErrBuilder {
	b.message = msg
	b.hasMessage = true
	return b
}

// WithBackendErrorCodeOverride recolors backend failure codes for the
// client-range classification
func (b *ErrBuilder) WithBackendErrorCodeOverride(overrides map[string]ErrorType) *ErrBuilder {
	b.overrides = maps.Clone(overrides)
	return b
}

func (b *ErrBuilder) validate() error {
	if b.backendError == nil && (!b.hasType || !b.hasMessage) {
		return ErrInvalidErr
	}
	if b.hasType && !b.errorType.IsValid() {
		return fmt.Errorf("%w: unknown error type %d", ErrInvalidErr, int(b.errorType))
	}
	for code, t := range b.overrides {
		if !t.IsValid() {
			return fmt.Errorf("%w: override %s maps to unknown error type %d", ErrInvalidErr, code, int(t))
		}
	}
	return nil
}

// Build validates the accumulated fields and freezes them into an Err
func (b *ErrBuilder) Build() (*Err, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	e := &Err{
		errorType: b.errorType,
		message:   b.message,
	}

	if b.backendError != nil {
		backend := AsBackendError(b.backendError)
		e.isBackendError = true
		e.backendError = backend
		e.errorType = Classify(backend, b.overrides)
		if !b.hasMessage {
			e.message = backend.Message
		}
	}

	e.defaultStatusCode = e.errorType.StatusCode()
	e.statusRange = StatusRangeOf(e.defaultStatusCode)

	return e, nil
}

// MustBuild is Build that panics on an invalid Err
func (b *ErrBuilder) MustBuild() *Err {
	e, err := b.Build()
	if err != nil {
		panic(err)
	}
	return e
}

//------------------------------------------------------------------------------
//
// Result
//
//------------------------------------------------------------------------------

// Callback receives the outcome of a call. Exactly one argument is non-nil.
type Callback[T any] func(*Err, *Ok[T])

// Future is resolved exactly once with either an Ok or an Err
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	ok   *Ok[T]
	err  *Err
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) settle(ok *Ok[T], err *Err) {
	f.once.Do(func() {
		f.ok = ok
		f.err = err
		close(f.done)
	})
}

// Done is closed once the future is resolved
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Outcome blocks until the future is resolved
func (f *Future[T]) Outcome() (*Ok[T], *Err) {
	<-f.done
	return f.ok, f.err
}

// Await blocks until the future is resolved or ctx is done. The returned
// error is the *Err of a rejected future or ctx.Err() when the wait was
// abandoned. Abandoning does not cancel the underlying call.
func (f *Future[T]) Await(ctx context.Context) (*Ok[T], error) {
	select {
	case <-f.done:
		if f.err != nil {
			return nil, f.err
		}
		return f.ok, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result is the typed boundary around a single Future
type Result[T any] struct {
	future *Future[T]
}

// Future returns the underlying future unchanged
func (r *Result[T]) Future() *Future[T] {
	return r.future
}

// Go runs fn on its own goroutine and returns a Result resolved with its
// outcome. Callbacks observe the same outcome once the future is resolved.
func Go[T any](fn func() (*Ok[T], *Err), callbacks ...Callback[T]) *Result[T] {
	future := newFuture[T]()

	go func() {
		ok, err := fn()
		future.settle(ok, err)
		for _, cb := range callbacks {
			if cb != nil {
				cb(err, ok)
			}
		}
	}()

	return &Result[T]{future: future}
}
