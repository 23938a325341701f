package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKRW(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  int
	}{
		{"plain amount", "12,340원", 12340},
		{"no separator", "500원", 500},
		{"large amount", "1,234,567원", 1234567},
		{"surrounding label", "배송비 2,500원", 2500},
		{"whitespace", "  9,900원\n", 9900},
		{"discount with minus", "-1,000원", -1000},
		{"bare digits", "42", 42},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseKRW(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseKRWRejectsAmountlessText(t *testing.T) {
	for _, input := range []string{"", "원", "무료배송", "   "} {
		_, err := ParseKRW(input)
		assert.Error(t, err, "input %q", input)
	}
}
