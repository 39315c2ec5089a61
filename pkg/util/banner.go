package util

import (
	"fmt"
	"io"

	"github.com/common-nighthawk/go-figure"
)

// ANSI 颜色
const (
	ColorReset  = "\x1b[0m"
	ColorRed    = "\x1b[1;31m"
	ColorGreen  = "\x1b[1;32m"
	ColorYellow = "\x1b[1;33m"
	ColorBlue   = "\x1b[1;34m"
	ColorCyan   = "\x1b[1;36m"
)

var colors = map[string]string{
	"ColorRed":    ColorRed,
	"ColorGreen":  ColorGreen,
	"ColorYellow": ColorYellow,
	"ColorBlue":   ColorBlue,
	"ColorCyan":   ColorCyan,
}

// colorCode 未知颜色名退化为无色
func colorCode(name string) string {
	if c, ok := colors[name]; ok {
		return c
	}
	return ColorReset
}

// PrintBanner 打印整体统一颜色的 ASCII banner，随后输出附加信息行（如导出目标）
func PrintBanner(w io.Writer, text, color string, info ...string) {
	fig := figure.NewFigure(text, "", true)
	ansiColor := colorCode(color)
	for _, line := range fig.Slicify() {
		_, _ = fmt.Fprintln(w, ansiColor+line+ColorReset)
	}
	for _, line := range info {
		_, _ = fmt.Fprintln(w, "  "+line)
	}
}
