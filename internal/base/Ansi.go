package base

type AnsiCode string

var enableAnsiColor bool = true

func SetEnableAnsiColor(enabled bool) {
	enableAnsiColor = enabled
}
func IsAnsiColorEnabled() bool {
	return enableAnsiColor
}

func (x AnsiCode) String() string {
	if enableAnsiColor {
		return (string)(x)
	}
	return ""
}

// https://gist.github.com/fnky/458719343aabd01cfb17a3a4f7296797

const (
	ANSI_RESET  AnsiCode = "\033[0m"
	ANSI_BOLD   AnsiCode = "\033[1m"
	ANSI_FAINT  AnsiCode = "\033[2m"
	ANSI_ITALIC AnsiCode = "\033[3m"

	ANSI_FG0_RED     AnsiCode = "\033[31m"
	ANSI_FG0_GREEN   AnsiCode = "\033[32m"
	ANSI_FG0_YELLOW  AnsiCode = "\033[33m"
	ANSI_FG0_BLUE    AnsiCode = "\033[34m"
	ANSI_FG0_MAGENTA AnsiCode = "\033[35m"
	ANSI_FG0_CYAN    AnsiCode = "\033[36m"
	ANSI_FG1_BLACK   AnsiCode = "\033[30;1m"
	ANSI_FG1_RED     AnsiCode = "\033[31;1m"
	ANSI_FG1_GREEN   AnsiCode = "\033[32;1m"
	ANSI_FG1_YELLOW  AnsiCode = "\033[33;1m"
	ANSI_FG1_BLUE    AnsiCode = "\033[34;1m"
	ANSI_FG1_MAGENTA AnsiCode = "\033[35;1m"
	ANSI_FG1_CYAN    AnsiCode = "\033[36;1m"
	ANSI_FG1_WHITE   AnsiCode = "\033[37;1m"
	ANSI_BG0_RED     AnsiCode = "\033[41m"
)

// categories pick their color in this palette from their name hash
var ansiCategoryPalette = []AnsiCode{
	ANSI_FG0_BLUE,
	ANSI_FG0_CYAN,
	ANSI_FG0_GREEN,
	ANSI_FG0_MAGENTA,
	ANSI_FG0_YELLOW,
	ANSI_FG1_BLUE,
	ANSI_FG1_CYAN,
	ANSI_FG1_MAGENTA,
}

func NewAnsiColorFromHash(h uint64) AnsiCode {
	return ansiCategoryPalette[h%uint64(len(ansiCategoryPalette))]
}
