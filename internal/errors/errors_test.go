package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = errors.New("sentinel")

func TestErrorList(t *testing.T) {
	t.Parallel()

	var list ErrorList
	assert.False(t, list.HasErrors())
	assert.NoError(t, list.ErrorOrNil())

	list.Add(nil)
	list.Add(errors.New("first"))
	list.Add(fmt.Errorf("second: %w", errSentinel))

	require.True(t, list.HasErrors())
	err := list.ErrorOrNil()
	require.Error(t, err)
	assert.Equal(t, "first; second: sentinel", err.Error())
	assert.ErrorIs(t, err, errSentinel)
	assert.Len(t, list.Unwrap(), 2)
}
