package steamid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Kind
	}{
		{name: "steamid64", input: "76561198085973818", want: Canonical},
		{name: "single digit", input: "7", want: Canonical},
		{name: "very long digits", input: "765611980859738187656119808597381876561198085973818", want: Canonical},
		{name: "vanity", input: "jebus123", want: Alias},
		{name: "empty", input: "", want: Alias},
		{name: "leading space", input: " 76561198085973818", want: Alias},
		{name: "negative", input: "-1", want: Alias},
		{name: "decimal", input: "1.5", want: Alias},
		{name: "exponent", input: "1e10", want: Alias},
		{name: "unicode digits", input: "٧٦٥", want: Alias},
		{name: "trailing newline", input: "123\n", want: Alias},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Classify(tt.input))
		})
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "canonical", Canonical.String())
	require.Equal(t, "alias", Alias.String())
}
