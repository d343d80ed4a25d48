//go:build bin2cpp_profiling
// +build bin2cpp_profiling

package utils

import (
	"runtime"
	"strings"

	"github.com/pkg/profile"

	"github.com/poppolopoppo/bin2cpp/internal/base"
)

const PROFILING_ENABLED = true

var LogProfiling = base.NewLogCategory("Profiling")

/***************************************
 * Profiling Mode
 ***************************************/

type ProfilingMode byte

const (
	PROFILING_NONE ProfilingMode = iota
	PROFILING_BLOCK
	PROFILING_CPU
	PROFILING_GOROUTINE
	PROFILING_MEMORY
	PROFILING_MUTEX
	PROFILING_TRACE
)

var profilingModes = [...]struct {
	Name  string
	Start func(*profile.Profile)
}{
	PROFILING_NONE:      {"NONE", nil},
	PROFILING_BLOCK:     {"BLOCK", profile.BlockProfile},
	PROFILING_CPU:       {"CPU", profile.CPUProfile},
	PROFILING_GOROUTINE: {"GOROUTINE", profile.GoroutineProfile},
	PROFILING_MEMORY:    {"MEMORY", profile.MemProfile},
	PROFILING_MUTEX:     {"MUTEX", profile.MutexProfile},
	PROFILING_TRACE:     {"TRACE", profile.TraceProfile},
}

func (x ProfilingMode) String() string {
	if int(x) >= len(profilingModes) {
		base.UnexpectedValue(x)
	}
	return profilingModes[x].Name
}
func (x *ProfilingMode) Set(in string) error {
	for i, it := range profilingModes {
		if strings.EqualFold(in, it.Name) {
			*x = ProfilingMode(i)
			return nil
		}
	}
	return base.MakeUnexpectedValueError(x, in)
}

/***************************************
 * Profiling flags
 ***************************************/

type ProfilingFlags struct {
	Profile ProfilingMode
}

func (flags *ProfilingFlags) Flags(cfv CommandFlagsVisitor) {
	cfv.Variable("Profile", "profile the invocation with NONE, BLOCK, CPU, GOROUTINE, MEMORY, MUTEX or TRACE", &flags.Profile)
}

// StartProfiling returns the function stopping the profiler. Profiles are
// written in the working directory.
func StartProfiling(flags *ProfilingFlags) func() {
	if flags.Profile == PROFILING_NONE {
		return func() {}
	}

	base.LogWarning(LogProfiling, "use %v profiling mode", flags.Profile)
	if flags.Profile == PROFILING_CPU {
		runtime.SetCPUProfileRate(300)
	}
	return profile.Start(
		profilingModes[flags.Profile].Start,
		profile.NoShutdownHook,
		profile.Quiet,
		profile.ProfilePath(".")).Stop
}
