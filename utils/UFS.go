package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/danjacques/gofslock/fslock"
	"github.com/djherbis/times"
	"github.com/mitchellh/go-homedir"

	"github.com/poppolopoppo/bin2cpp/internal/base"
)

var LogUFS = base.NewLogCategory("UFS")

/***************************************
 * Directory
 ***************************************/

type Directory struct {
	Path string
}

func (d Directory) Valid() bool { return len(d.Path) > 0 }
func (d Directory) File(name string) Filename {
	return Filename{Dirname: d, Basename: name}
}
func (d Directory) Exists() bool {
	info, err := os.Stat(d.Path)
	return err == nil && info.IsDir()
}
func (d Directory) String() string {
	return d.Path
}

/***************************************
 * Filename
 ***************************************/

type Filename struct {
	Dirname  Directory
	Basename string
}

// MakeFilename splits a path on the separators of the host, so the name
// always designates the file the OS would open: on posix `a\b.spv` is a
// single base name.
func MakeFilename(str string) Filename {
	dir, file := filepath.Split(filepath.Clean(str))
	if len(dir) == 0 {
		dir = "."
	}
	return Filename{
		Dirname:  Directory{Path: filepath.Clean(dir)},
		Basename: file,
	}
}

func (f Filename) Valid() bool { return len(f.Basename) > 0 }
func (f Filename) Ext() string {
	return filepath.Ext(f.Basename)
}
func (f Filename) TrimExt() string {
	return strings.TrimSuffix(f.Basename, f.Ext())
}
func (f Filename) ReplaceExt(ext string) Filename {
	return Filename{Dirname: f.Dirname, Basename: f.TrimExt() + ext}
}
func (f Filename) Equals(o Filename) bool {
	return f.Dirname.Path == o.Dirname.Path && f.Basename == o.Basename
}
func (f Filename) String() string {
	if f.Dirname.Path == "." {
		return f.Basename
	}
	return filepath.Join(f.Dirname.Path, f.Basename)
}
func (f Filename) Exists() bool {
	info, err := os.Stat(f.String())
	return err == nil && !info.IsDir()
}

// Set expands a leading '~' to the home directory of the current user.
func (f *Filename) Set(str string) error {
	if len(str) == 0 {
		return fmt.Errorf("empty file name")
	}
	expanded, err := homedir.Expand(str)
	if err != nil {
		return err
	}
	*f = MakeFilename(expanded)
	return nil
}
func (f Filename) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}
func (f *Filename) UnmarshalText(data []byte) error {
	return f.Set(string(data))
}

/***************************************
 * UFS front end
 ***************************************/

type UFSFrontEnd struct {
	LockPollPeriod time.Duration
	RenameAttempts uint
	RenameDelay    time.Duration
}

var UFS = UFSFrontEnd{
	LockPollPeriod: 50 * time.Millisecond,
	RenameAttempts: 3,
	RenameDelay:    20 * time.Millisecond,
}

func (ufs *UFSFrontEnd) File(str string) Filename {
	return MakeFilename(str)
}

func (ufs *UFSFrontEnd) Mkdir(dst Directory) error {
	if err := os.MkdirAll(dst.Path, 0755); err != nil && !os.IsExist(err) {
		return err
	}
	return nil
}

func (ufs *UFSFrontEnd) ReadAll(src Filename) ([]byte, error) {
	base.LogDebug(LogUFS, "read all file '%v'", src)
	return os.ReadFile(src.String())
}

// SameContent tells if dst already holds exactly data.
func (ufs *UFSFrontEnd) SameContent(dst Filename, data []byte) bool {
	info, err := os.Stat(dst.String())
	if err != nil || info.IsDir() || info.Size() != int64(len(data)) {
		return false
	}
	existing, err := ufs.ReadAll(dst)
	return err == nil && bytes.Equal(existing, data)
}

func (ufs *UFSFrontEnd) ModTime(src Filename) (time.Time, error) {
	ts, err := times.Stat(src.String())
	if err != nil {
		return time.Time{}, err
	}
	return ts.ModTime(), nil
}

func (ufs *UFSFrontEnd) Remove(dst Filename) error {
	base.LogDebug(LogUFS, "remove file '%v'", dst)
	return os.Remove(dst.String())
}

// Backup makes dst a hard link to src, src stays in place. File systems
// without hard links get a copy instead.
func (ufs *UFSFrontEnd) Backup(src, dst Filename) error {
	base.LogDebug(LogUFS, "backup file '%v' as '%v'", src, dst)
	err := os.Link(src.String(), dst.String())
	if err == nil {
		return nil
	}
	base.LogTrace(LogUFS, "can't link '%v', fallback to copy: %v", src, err)

	rd, err := os.Open(src.String())
	if err != nil {
		return err
	}
	defer rd.Close()

	wr, err := os.OpenFile(dst.String(), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	_, err = io.Copy(wr, rd)
	if err == nil {
		err = wr.Sync()
	}
	if er := wr.Close(); er != nil && err == nil {
		err = er
	}
	if err != nil {
		os.Remove(dst.String())
	}
	return err
}

// Rename retries when dst is transiently denied, which happens when another
// program (an indexer, an IDE) still holds the previous file open.
func (ufs *UFSFrontEnd) Rename(src, dst Filename) error {
	base.LogDebug(LogUFS, "rename file '%v' to '%v'", src, dst)
	return retry.Do(
		func() error {
			return os.Rename(src.String(), dst.String())
		},
		retry.Attempts(max(ufs.RenameAttempts, 1)),
		retry.Delay(ufs.RenameDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, os.ErrPermission)
		}),
		retry.OnRetry(func(n uint, err error) {
			base.LogVerbose(LogUFS, "retry #%d renaming '%v' to '%v': %v", n+1, src, dst, err)
		}))
}

// CreateTemp writes a temporary sibling of dst, synced to disk before close.
func (ufs *UFSFrontEnd) CreateTemp(dst Filename, write func(io.Writer) error) (Filename, error) {
	if err := ufs.Mkdir(dst.Dirname); err != nil {
		return Filename{}, err
	}

	f, err := os.CreateTemp(dst.Dirname.Path, dst.Basename+".*.tmp")
	if err != nil {
		return Filename{}, err
	}
	tmp := MakeFilename(f.Name())

	err = write(f)
	if err == nil {
		err = f.Sync()
	}
	if er := f.Close(); er != nil && err == nil {
		err = er
	}
	if err != nil {
		os.Remove(f.Name())
		return Filename{}, err
	}
	return tmp, nil
}

/***************************************
 * Output lock
 ***************************************/

func LockFileFor(dst Filename) Filename {
	return Filename{Dirname: dst.Dirname, Basename: dst.Basename + ".lock"}
}

// Lock takes an exclusive inter-process lock on dst.lock, waiting until ctx
// is done if another process already holds it.
func (ufs *UFSFrontEnd) Lock(ctx context.Context, dst Filename) (fslock.Handle, error) {
	if err := ufs.Mkdir(dst.Dirname); err != nil {
		return nil, err
	}

	lockFile := LockFileFor(dst)
	base.LogTrace(LogUFS, "locking file %q", lockFile)

	l := fslock.L{
		Path: lockFile.String(),
		Block: func() error {
			base.LogVerbose(LogUFS, "waiting for %q to be released by another process...", lockFile)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(ufs.LockPollPeriod):
				return nil
			}
		},
	}
	return l.Lock()
}
