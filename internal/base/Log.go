package base

import (
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

/***************************************
 * Log level
 ***************************************/

type LogLevel int32

const (
	LOG_ALL LogLevel = iota
	LOG_DEBUG
	LOG_TRACE
	LOG_VERYVERBOSE
	LOG_VERBOSE
	LOG_INFO
	LOG_CLAIM
	LOG_WARNING
	LOG_ERROR
	LOG_FATAL
)

var logLevelNames = [...]string{
	LOG_ALL:         "ALL",
	LOG_DEBUG:       "DEBUG",
	LOG_TRACE:       "TRACE",
	LOG_VERYVERBOSE: "VERYVERBOSE",
	LOG_VERBOSE:     "VERBOSE",
	LOG_INFO:        "INFO",
	LOG_CLAIM:       "CLAIM",
	LOG_WARNING:     "WARNING",
	LOG_ERROR:       "ERROR",
	LOG_FATAL:       "FATAL",
}

var logLevelStyles = [...][]AnsiCode{
	LOG_ALL:         nil,
	LOG_DEBUG:       {ANSI_FG0_MAGENTA, ANSI_ITALIC, ANSI_FAINT},
	LOG_TRACE:       {ANSI_FG0_CYAN, ANSI_ITALIC, ANSI_FAINT},
	LOG_VERYVERBOSE: {ANSI_FG1_MAGENTA, ANSI_ITALIC},
	LOG_VERBOSE:     {ANSI_FG0_BLUE},
	LOG_INFO:        {ANSI_FG1_WHITE},
	LOG_CLAIM:       {ANSI_FG1_GREEN, ANSI_BOLD},
	LOG_WARNING:     {ANSI_FG0_YELLOW},
	LOG_ERROR:       {ANSI_FG1_RED, ANSI_BOLD},
	LOG_FATAL:       {ANSI_FG1_WHITE, ANSI_BG0_RED},
}

func (x LogLevel) valid() bool { return x >= LOG_ALL && x <= LOG_FATAL }

// IsVisible tells if a message of the given level passes a x threshold.
func (x LogLevel) IsVisible(level LogLevel) bool {
	return level >= x
}
func (x LogLevel) Style(dst io.Writer) {
	if !x.valid() {
		UnexpectedValue(x)
	}
	for _, it := range logLevelStyles[x] {
		io.WriteString(dst, it.String())
	}
}
func (x LogLevel) String() string {
	if !x.valid() {
		UnexpectedValue(x)
	}
	return logLevelNames[x]
}
func (x *LogLevel) Set(in string) error {
	for i, it := range logLevelNames {
		if strings.EqualFold(in, it) {
			*x = LogLevel(i)
			return nil
		}
	}
	return MakeUnexpectedValueError(x, in)
}

/***************************************
 * Log category
 ***************************************/

// LogCategory prefixes messages with a colored name. A category level can
// force messages through even when the logger would filter them.
type LogCategory struct {
	Name  string
	Level LogLevel
	Color AnsiCode
}

var gLogCategories sync.Map // name -> *LogCategory

// NewLogCategory returns the category registered under name, creating it
// on first use.
func NewLogCategory(name string) *LogCategory {
	if found, ok := gLogCategories.Load(name); ok {
		return found.(*LogCategory)
	}

	hash := fnv.New64a()
	io.WriteString(hash, name)

	category, _ := gLogCategories.LoadOrStore(name, &LogCategory{
		Name:  name,
		Level: LOG_FATAL,
		Color: NewAnsiColorFromHash(hash.Sum64()),
	})
	return category.(*LogCategory)
}

/***************************************
 * Logger
 ***************************************/

type Logger interface {
	IsVisible(LogLevel) bool
	SetLevel(LogLevel) LogLevel
	SetShowCategory(bool)
	SetWriter(io.Writer)

	Forwardln(msg ...string)
	Log(category *LogCategory, level LogLevel, msg string, args ...interface{})

	Flush()
}

type basicLogger struct {
	barrier      sync.Mutex
	minimumLevel LogLevel
	showCategory bool
	writer       io.Writer
}

func NewLogger(dst io.Writer) Logger {
	return &basicLogger{
		minimumLevel: LOG_INFO,
		showCategory: true,
		writer:       dst,
	}
}

func (x *basicLogger) IsVisible(level LogLevel) bool {
	return x.minimumLevel.IsVisible(level)
}
func (x *basicLogger) SetLevel(level LogLevel) (previous LogLevel) {
	previous = x.minimumLevel
	x.minimumLevel = min(level, LOG_FATAL)
	return
}
func (x *basicLogger) SetShowCategory(enabled bool) {
	x.showCategory = enabled
}
func (x *basicLogger) SetWriter(dst io.Writer) {
	Assert(func() bool { return dst != nil })
	x.Flush()

	x.barrier.Lock()
	defer x.barrier.Unlock()
	x.writer = dst
}

func (x *basicLogger) Forwardln(msg ...string) {
	x.barrier.Lock()
	defer x.barrier.Unlock()

	text := strings.Join(msg, "")
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	io.WriteString(x.writer, text)
}

func (x *basicLogger) Log(category *LogCategory, level LogLevel, msg string, args ...interface{}) {
	if !x.IsVisible(level) && !category.Level.IsVisible(level) {
		return
	}

	var line strings.Builder
	level.Style(&line)
	if x.showCategory {
		fmt.Fprintf(&line, "%v%v%s%v: ", ANSI_RESET, category.Color, category.Name, ANSI_RESET)
		level.Style(&line)
	}
	if len(args) > 0 {
		fmt.Fprintf(&line, msg, args...)
	} else {
		line.WriteString(msg)
	}
	line.WriteString(ANSI_RESET.String())
	line.WriteByte('\n')

	x.barrier.Lock()
	defer x.barrier.Unlock()
	io.WriteString(x.writer, line.String())
}

func (x *basicLogger) Flush() {
	x.barrier.Lock()
	defer x.barrier.Unlock()
	if err := FlushWriterIFP(x.writer); err != nil {
		panic(err)
	}
}

/***************************************
 * Global logger
 ***************************************/

var gLogger = NewLogger(os.Stderr)

var LogGlobal = NewLogCategory("Global")

func GetLogger() Logger { return gLogger }

func FlushLog() {
	gLogger.Flush()
}

// LogDebug/LogTrace live in Assert_Debug/Assert_NotDebug, so they compile out

func LogVerbose(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_VERBOSE, msg, args...)
}
func LogInfo(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_INFO, msg, args...)
}
func LogClaim(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_CLAIM, msg, args...)
}
func LogWarning(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_WARNING, msg, args...)
}
func LogError(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_ERROR, msg, args...)
}

/***************************************
 * Log benchmark
 ***************************************/

type LogBenchmarkScope struct {
	category  *LogCategory
	message   string
	startedAt time.Time
}

// LogBenchmark measures a scope, the elapsed time is logged by Close.
func LogBenchmark(category *LogCategory, msg string, args ...interface{}) LogBenchmarkScope {
	return LogBenchmarkScope{
		category:  category,
		message:   fmt.Sprintf(msg, args...),
		startedAt: time.Now(),
	}
}
func (x LogBenchmarkScope) Close() error {
	LogVerbose(x.category, "%s took %v", x.message, time.Since(x.startedAt))
	return nil
}

/***************************************
 * Errors
 ***************************************/

func MakeError(msg string, args ...interface{}) error {
	return fmt.Errorf(msg, args...)
}

func MakeUnexpectedValueError(dst interface{}, any interface{}) error {
	return MakeError("unexpected <%T> value: %#v", dst, any)
}
