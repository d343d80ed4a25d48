package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"

	"github.com/poppolopoppo/bin2cpp/internal/base"
	"github.com/poppolopoppo/bin2cpp/internal/embed"
	"github.com/poppolopoppo/bin2cpp/utils"
)

const (
	EXIT_SUCCESS        = 0
	EXIT_FAILURE        = 1
	EXIT_INVALID_USAGE  = 2
	COMMAND_NAME        = "bin2cpp"
	COMMAND_DESCRIPTION = "embed binary files in C++ source code"
)

/***************************************
 * Embed command
 ***************************************/

type EmbedCommand struct {
	Options   EmbedOptions
	Config    utils.OptionalFilename
	Verbose   utils.BoolVar
	Quiet     utils.BoolVar
	Color     utils.BoolVar
	Profiling utils.ProfilingFlags
}

func NewEmbedCommand() *EmbedCommand {
	_, noColor := os.LookupEnv("NO_COLOR")
	return &EmbedCommand{
		Options: NewEmbedOptions(),
		Color:   utils.BoolVar(!noColor),
	}
}

func (x *EmbedCommand) Flags(cfv utils.CommandFlagsVisitor) {
	cfv.Variable("v", "verbose output", &x.Verbose)
	cfv.Variable("q", "only print errors", &x.Quiet)
	cfv.Variable("Color", "colorize diagnostics with ANSI escape codes", &x.Color)
	cfv.Variable("Config", "read options and extra inputs from a JSON file", &x.Config)
	x.Options.Flags(cfv)
	x.Profiling.Flags(cfv)
}

func (x *EmbedCommand) newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet(COMMAND_NAME, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	utils.BindCommandFlags(fs, x)
	return fs
}

// Parse fills the command from args: flags first, then the definitions
// output, the declarations output and the input files.
func (x *EmbedCommand) Parse(args []string) error {
	fs := x.newFlagSet()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return embed.MakeArgumentError("%v", err)
	}

	if x.Config.Valid() {
		// flags given on the command line take precedence over the config file,
		// so they are parsed again on top of it
		if err := x.loadConfig(); err != nil {
			return err
		}
		if err := fs.Parse(args); err != nil {
			return embed.MakeArgumentError("%v", err)
		}
	}

	positionals := fs.Args()
	if len(positionals) < 2 {
		return embed.MakeArgumentError("expected <definitions> <declarations> <input>..., got %d argument(s)", len(positionals))
	}

	configInputs := x.Options.Inputs
	x.Options.Definitions = utils.MakeFilename(positionals[0])
	x.Options.Declarations = utils.MakeFilename(positionals[1])
	x.Options.Inputs = append(append([]string{}, positionals[2:]...), configInputs...)
	return nil
}

// loadConfig reads YAML when the config file ends with .yaml or .yml, JSON
// otherwise. Unknown fields are rejected.
func (x *EmbedCommand) loadConfig() error {
	config, err := os.Open(x.Config.String())
	if err != nil {
		return &embed.IOError{Op: "read", Path: x.Config.String(), Err: err}
	}
	defer config.Close()

	deserialize := base.JsonDeserialize
	switch strings.ToLower(x.Config.Ext()) {
	case ".yaml", ".yml":
		deserialize = base.YamlDeserialize
	}

	options := NewEmbedOptions()
	if err := deserialize(&options, config, base.OptionJsonStrict(true)); err != nil {
		return embed.MakeArgumentError("invalid config file %q: %v", x.Config, err)
	}

	x.Options = options
	return nil
}

var embedCommandUsage = heredoc.Doc(`
	usage: %[1]s [flags] <definitions.cpp> <declarations.h> <input>...

	Every input is exposed by the declarations header through two accessors,
	named after the input base name:
	  const unsigned char* get_<symbol>_data();
	  std::size_t get_<symbol>_size();

	Outputs are written together or not at all. Exit status is 0 on success,
	1 when an input can't be read or an output can't be written, 2 on invalid
	usage.

	flags:
`)

func (x *EmbedCommand) PrintUsage(dst io.Writer) {
	fmt.Fprintf(dst, "%s: %s\n", COMMAND_NAME, COMMAND_DESCRIPTION)
	fmt.Fprintf(dst, embedCommandUsage, COMMAND_NAME)

	fs := x.newFlagSet()
	fs.SetOutput(dst)
	fs.PrintDefaults()
}

func (x *EmbedCommand) setupLogger(stderr io.Writer) (restore func()) {
	logger := base.GetLogger()
	logger.SetWriter(stderr)
	base.SetEnableAnsiColor(x.Color.Get())

	level := base.LOG_INFO
	switch {
	case x.Quiet.Get():
		level = base.LOG_ERROR
	case x.Verbose.Get():
		level = base.LOG_VERBOSE
	}

	previous := logger.SetLevel(level)
	return func() {
		logger.Flush()
		logger.SetLevel(previous)
	}
}

/***************************************
 * Run (command line entry point)
 ***************************************/

// Run executes a whole invocation and returns the process exit status.
// Diagnostics are written to stderr.
func Run(ctx context.Context, args []string, stderr io.Writer) int {
	cmd := NewEmbedCommand()
	err := cmd.Parse(args)

	defer cmd.setupLogger(stderr)()

	if errors.Is(err, flag.ErrHelp) {
		cmd.PrintUsage(stderr)
		return EXIT_SUCCESS
	}

	if err == nil {
		if config := cmd.Config; config.Valid() {
			base.LogVerbose(utils.LogCommand, "loaded options from config %q", config)
		}
		defer utils.StartProfiling(&cmd.Profiling)()
		err = Embed(ctx, &cmd.Options)
	}

	if err != nil {
		base.LogError(utils.LogCommand, "%v", err)

		var argErr *embed.ArgumentError
		if errors.As(err, &argErr) {
			cmd.PrintUsage(stderr)
		}
	}
	return ExitCodeFor(err)
}

func ExitCodeFor(err error) int {
	if err == nil {
		return EXIT_SUCCESS
	}
	var argErr *embed.ArgumentError
	if errors.As(err, &argErr) {
		return EXIT_INVALID_USAGE
	}
	return EXIT_FAILURE
}
