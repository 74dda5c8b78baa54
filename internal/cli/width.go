package cli

import (
	"io"
	"os"

	"golang.org/x/term"
)

// CompactTerminalWidth is the column count below which lists use the compact
// page size.
const CompactTerminalWidth = 80

// terminalWidth reports the column count of out, or 0 when out is not a
// terminal.
func terminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func (a *app) pageSize(out io.Writer, compact bool) int {
	width := a.width
	if width < 0 {
		width = terminalWidth(out)
	}
	if compact || (width > 0 && width < CompactTerminalWidth) {
		return a.cfg.UI.CompactPageSize
	}
	return a.cfg.UI.PageSize
}
