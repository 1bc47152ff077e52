package generator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorSet_Kinds(t *testing.T) {
	set := ErrorSet{
		MissingKeys:         []string{"a"},
		MissingEnvironments: true,
	}

	require.Equal(t, []ErrorKind{MissingEnvironments, MissingKeys}, set.Kinds())
	require.True(t, set.MissingEnvironments())
	require.Equal(t, []string{"a"}, set.MissingKeys())
	require.Empty(t, ErrorSet{}.Kinds())
}

func TestErrorKind_String(t *testing.T) {
	require.Equal(t, "missing_environments", MissingEnvironments.String())
	require.Equal(t, "missing_keys", MissingKeys.String())
	require.Equal(t, "ErrorKind(9)", ErrorKind(9).String())
}

func TestMessages_Format(t *testing.T) {
	msgs := DefaultMessages()

	require.Equal(t, "Provide at least one environment.", msgs.Format(MissingEnvironments, true))
	require.Equal(t, "Fill missing values 'a', 'b.c'.", msgs.Format(MissingKeys, []string{"a", "b.c"}))
	require.Equal(t, "ErrorKind(7): x", msgs.Format(ErrorKind(7), "x"))
}

func TestMessages_Merge(t *testing.T) {
	base := DefaultMessages()
	merged := base.Merge(Messages{
		MissingEnvironments: func(any) string { return "no envs" },
		MissingKeys:         nil,
	})

	require.Equal(t, "no envs", merged.Format(MissingEnvironments, true))
	require.Equal(t, "Fill missing values 'x'.", merged.Format(MissingKeys, []string{"x"}))
	require.Equal(t, "Provide at least one environment.", base.Format(MissingEnvironments, true))
}
