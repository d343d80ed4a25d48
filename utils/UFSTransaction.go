package utils

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/poppolopoppo/bin2cpp/internal/base"
)

/***************************************
 * UFS Transaction
 ***************************************/

type ufsTransactionEntry struct {
	Destination Filename
	Temporary   Filename
	Backup      Filename
	committed   bool
}

// UFSTransaction stages a set of files next to their destination and
// publishes all of them at once in Commit. Each destination is replaced by a
// single rename, so it never goes missing. When one rename fails the
// destinations already replaced are restored from their backup, so callers
// see either every new file or every previous file.
type UFSTransaction struct {
	ufs     *UFSFrontEnd
	entries []ufsTransactionEntry

	onPublish func(dst Filename) // called before each destination is replaced
}

func (ufs *UFSFrontEnd) NewTransaction() *UFSTransaction {
	return &UFSTransaction{ufs: ufs}
}

func (tx *UFSTransaction) Len() int { return len(tx.entries) }

func (tx *UFSTransaction) Create(dst Filename, write func(io.Writer) error) error {
	for _, it := range tx.entries {
		if it.Destination.Equals(dst) {
			return fmt.Errorf("transaction: file %q staged twice", dst)
		}
	}

	tmp, err := tx.ufs.CreateTemp(dst, write)
	if err != nil {
		return err
	}

	base.LogTrace(LogUFS, "staged '%v' as '%v'", dst, tmp)
	tx.entries = append(tx.entries, ufsTransactionEntry{
		Destination: dst,
		Temporary:   tmp,
	})
	return nil
}

func (tx *UFSTransaction) Commit() (err error) {
	defer func() {
		if err != nil {
			err = base.JoinErrors(err, tx.restore())
		} else {
			tx.dropBackups()
		}
		tx.entries = nil
	}()

	for i := range tx.entries {
		it := &tx.entries[i]

		if it.Destination.Exists() {
			backup := Filename{Dirname: it.Temporary.Dirname, Basename: it.Temporary.Basename + ".bak"}
			if err = tx.ufs.Backup(it.Destination, backup); err != nil {
				return err
			}
			it.Backup = backup
		}

		if tx.onPublish != nil {
			tx.onPublish(it.Destination)
		}
		if err = tx.ufs.Rename(it.Temporary, it.Destination); err != nil {
			return err
		}
		it.committed = true
	}

	return nil
}

// Rollback discards every staged file, destinations are left untouched.
func (tx *UFSTransaction) Rollback() error {
	var errs []error
	for _, it := range tx.entries {
		if err := tx.ufs.Remove(it.Temporary); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	tx.entries = nil
	return base.JoinErrors(errs...)
}

func (tx *UFSTransaction) restore() error {
	var errs []error
	for i := len(tx.entries) - 1; i >= 0; i-- {
		it := tx.entries[i]
		switch {
		case it.committed && it.Backup.Valid():
			errs = append(errs, tx.ufs.Rename(it.Backup, it.Destination))
		case it.committed:
			errs = append(errs, tx.ufs.Remove(it.Destination))
		default:
			for _, unused := range []Filename{it.Backup, it.Temporary} {
				if !unused.Valid() {
					continue
				}
				if err := tx.ufs.Remove(unused); err != nil && !errors.Is(err, os.ErrNotExist) {
					errs = append(errs, err)
				}
			}
		}
	}
	return base.JoinErrors(errs...)
}

func (tx *UFSTransaction) dropBackups() {
	for _, it := range tx.entries {
		if it.Backup.Valid() {
			if err := tx.ufs.Remove(it.Backup); err != nil {
				base.LogWarning(LogUFS, "failed to remove backup '%v': %v", it.Backup, err)
			}
		}
	}
}
