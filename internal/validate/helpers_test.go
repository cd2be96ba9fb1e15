package validate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// requireRule asserts err is a *Error with the given rule code and returns it.
func requireRule(t *testing.T, err error, code string) *Error {
	t.Helper()
	require.Error(t, err)
	verr, ok := AsError(err)
	require.True(t, ok, "expected *validate.Error, got %T: %v", err, err)
	require.Equal(t, code, verr.Code, "unexpected rule: %v", err)
	return verr
}
