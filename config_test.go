package restddb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultClientConfig(t *testing.T) {
	assert.Zero(t, DefaultClientConfig.StoreTimeout)
}

func TestWithCallback(t *testing.T) {
	calls := 0
	cb := func(*Err, *Ok[Item]) { calls++ }

	options := ApplyCallOptions(WithCallback(cb), WithCallback(cb))
	assert.Len(t, options.Callbacks, 2)

	for _, c := range options.Callbacks {
		c(nil, nil)
	}
	assert.Equal(t, 2, calls)

	assert.Empty(t, ApplyCallOptions().Callbacks)
}
