//go:build !bin2cpp_debug
// +build !bin2cpp_debug

package base

const DEBUG_ENABLED = false

func Assert(func() bool) {}

func LogDebug(*LogCategory, string, ...interface{}) {}
func LogTrace(*LogCategory, string, ...interface{}) {}
