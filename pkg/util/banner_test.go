package util

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "mongo", "ColorGreen", "export -> mongodb://db:27017/")

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, ColorGreen))
	assert.Contains(t, out, "export -> mongodb://db:27017/")
}

func TestColorCodeFallback(t *testing.T) {
	assert.Equal(t, ColorBlue, colorCode("ColorBlue"))
	assert.Equal(t, ColorReset, colorCode("purple"))
}
