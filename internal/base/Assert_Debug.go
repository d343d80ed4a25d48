//go:build bin2cpp_debug
// +build bin2cpp_debug

package base

const DEBUG_ENABLED = true

func Assert(pred func() bool) {
	if !pred() {
		Panicf("assertion failed")
	}
}

func LogDebug(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_DEBUG, msg, args...)
}
func LogTrace(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_TRACE, msg, args...)
}
