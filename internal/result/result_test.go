package result_test

import (
	"encoding/json"
	"testing"

	"github.com/deppfellow/user-api/internal/errs"
	"github.com/deppfellow/user-api/internal/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccess(t *testing.T) {
	t.Parallel()

	r := result.Success([]string{"a", "b"})
	assert.True(t, r.IsSuccess)
	require.NotNil(t, r.Value)
	assert.Equal(t, []string{"a", "b"}, *r.Value)
	assert.True(t, r.Error.IsNone())

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"isSuccess":true,"value":["a","b"],"error":{"code":"","description":null}}`, string(b))
}

func TestFailure(t *testing.T) {
	t.Parallel()

	r := result.Failure[string](errs.NewError("User.NotFound", "User with ID 3 does not exist"))
	assert.False(t, r.IsSuccess)
	assert.Nil(t, r.Value)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"isSuccess":false,"value":null,"error":{"code":"User.NotFound","description":"User with ID 3 does not exist"}}`,
		string(b))
}
