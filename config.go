package restddb

import "time"

// ClientConfig holds client-level configuration
type ClientConfig struct {
	// StoreTimeout bounds every store call. Zero leaves timeouts to the store.
	StoreTimeout time.Duration
}

// DefaultClientConfig provides client defaults
var DefaultClientConfig = ClientConfig{
	StoreTimeout: 0,
}

// CallOptions holds per-call options
type CallOptions struct {
	Callbacks []Callback[Item]
}

// CallOption allows functional configuration of a single call
type CallOption func(*CallOptions)

// WithCallback delivers the outcome of the call to cb as well as to the
// returned Result
func WithCallback(cb Callback[Item]) CallOption {
	return func(opts *CallOptions) {
		opts.Callbacks = append(opts.Callbacks, cb)
	}
}

// ApplyCallOptions folds opts into CallOptions
func ApplyCallOptions(opts ...CallOption) *CallOptions {
	options := &CallOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
