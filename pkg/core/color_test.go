package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input    string
		expected Color
	}{
		{"ff ff ff", White},
		{"00 00 00", Black},
		{"c8 64 32", NewColor(200, 100, 50)},
		{"  FF\t80 0a ", NewColor(255, 128, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, err := ParseHexColor(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
		})
	}
}

func TestParseHexColor_Invalid(t *testing.T) {
	for _, input := range []string{"", "ff ff", "ff ff ff ff", "zz 00 00", "-1 00 00", "fff 00 00", "0x1F 00 00", "f 00 00", "+f 00 00"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseHexColor(input)
			assert.Error(t, err)
		})
	}
}

func TestColorSpec_Resolve(t *testing.T) {
	triple := [3]int{5, 5, 5}

	c, err := ColorSpec{}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, White, c, "missing colour defaults to white")

	c, err = ColorSpec{Triple: &triple}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, NewColor(5, 5, 5), c)

	// Both syntaxes describe the same value
	fromHex, err := ColorSpec{Hex: "05 05 05"}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, c, fromHex)

	_, err = ColorSpec{Triple: &triple, Hex: "05 05 05"}.Resolve()
	assert.Error(t, err)
}

func TestColorFromVec3_Truncates(t *testing.T) {
	c := ColorFromVec3(NewVec3(6.4, 10.4, 12.75))
	assert.Equal(t, NewColor(6, 10, 12), c)

	// No clamping is applied
	c = ColorFromVec3(NewVec3(461.4, 365.4, 317.75))
	assert.Equal(t, NewColor(461, 365, 317), c)
}
