package utils

import (
	"flag"
	"strconv"
	"time"

	"github.com/poppolopoppo/bin2cpp/internal/base"
)

var LogCommand = base.NewLogCategory("Command")

/***************************************
 * Command flags visitor
 ***************************************/

type CommandFlagsVisitor interface {
	Variable(name, usage string, value flag.Value)
}

type CommandParsableFlags interface {
	Flags(cfv CommandFlagsVisitor)
}

type flagSetVisitor struct {
	*flag.FlagSet
}

func (x flagSetVisitor) Variable(name, usage string, value flag.Value) {
	x.FlagSet.Var(value, name, usage)
}

// BindCommandFlags registers every variable declared by parsable in fs.
func BindCommandFlags(fs *flag.FlagSet, parsable CommandParsableFlags) {
	parsable.Flags(flagSetVisitor{fs})
}

/***************************************
 * Variables
 ***************************************/

type BoolVar bool

func (x BoolVar) Get() bool        { return bool(x) }
func (x BoolVar) IsBoolFlag() bool { return true }
func (x BoolVar) String() string   { return strconv.FormatBool(bool(x)) }
func (x *BoolVar) Set(in string) error {
	v, err := strconv.ParseBool(in)
	if err == nil {
		*x = BoolVar(v)
	}
	return err
}

type IntVar int

func (x IntVar) Get() int       { return int(x) }
func (x IntVar) String() string { return strconv.Itoa(int(x)) }
func (x *IntVar) Set(in string) error {
	v, err := strconv.Atoi(in)
	if err == nil {
		*x = IntVar(v)
	}
	return err
}

type StringVar string

func (x StringVar) Get() string    { return string(x) }
func (x StringVar) String() string { return string(x) }
func (x *StringVar) Set(in string) error {
	*x = StringVar(in)
	return nil
}

type DurationVar time.Duration

func (x DurationVar) Get() time.Duration { return time.Duration(x) }
func (x DurationVar) String() string     { return time.Duration(x).String() }
func (x *DurationVar) Set(in string) error {
	v, err := time.ParseDuration(in)
	if err == nil {
		*x = DurationVar(v)
	}
	return err
}
func (x DurationVar) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}
func (x *DurationVar) UnmarshalText(data []byte) error {
	return x.Set(string(data))
}

// OptionalFilename is a Filename flag which may stay unset.
type OptionalFilename struct {
	Filename
}

func (x OptionalFilename) String() string {
	if x.Valid() {
		return x.Filename.String()
	}
	return ""
}
