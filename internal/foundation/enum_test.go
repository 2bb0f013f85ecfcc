package foundation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type mode string

func TestNormalizer(t *testing.T) {
	n := NewNormalizer(map[string]mode{
		"fixed":  "fixed",
		"Linear": "linear",
		"exp":    "exponential",
	}, "")

	require.Equal(t, mode("linear"), n.Normalize("  LINEAR "))
	require.Equal(t, mode("exponential"), n.Normalize("Exp"))
	require.Equal(t, mode(""), n.Normalize("random"))

	v, err := n.NormalizeWithError("fixed")
	require.NoError(t, err)
	require.Equal(t, mode("fixed"), v)

	_, err = n.NormalizeWithError("sometimes")
	require.ErrorIs(t, err, ErrInvalidValue)
	require.Contains(t, err.Error(), "accepted: exp, fixed, linear")
	require.Equal(t, []string{"exp", "fixed", "linear"}, n.Keys())
}
