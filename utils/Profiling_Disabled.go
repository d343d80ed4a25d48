//go:build !bin2cpp_profiling
// +build !bin2cpp_profiling

package utils

const PROFILING_ENABLED = false

type ProfilingFlags struct{}

func (flags *ProfilingFlags) Flags(CommandFlagsVisitor) {}

func StartProfiling(*ProfilingFlags) func() { return func() {} }
