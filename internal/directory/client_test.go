package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertWindowsTimestamp(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		expected *string
	}{
		{"empty attribute", "", nil},
		{"zero means unset", "0", nil},
		{"never expires sentinel", "9223372036854775807", nil},
		{"not a number", "mañana", nil},
		{"midnight expiry", "133944192000000000", ptr("2025-06-14")},
		{"midday expiry", "133485858000000000", ptr("2023-12-31")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ConvertWindowsTimestamp(tc.raw)
			if tc.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.expected, *got)
		})
	}
}

func ptr(s string) *string {
	return &s
}
