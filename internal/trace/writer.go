package trace

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/xerrors"
)

// Write serializes tr as one decimal timestamp per line.
func Write(w io.Writer, tr Trace) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 20)
	for _, ts := range tr {
		buf = strconv.AppendInt(buf[:0], ts, 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes tr to path. The data goes to a temporary file in the same
// directory first and is renamed into place once fully synced, so path
// either holds a complete trace or is left untouched.
func WriteFile(path string, tr Trace) (err error) {
	dir, base := filepath.Split(path)
	tmp := filepath.Join(dir, "."+base+"."+uuid.New().String()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return xerrors.Errorf("creating trace file %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if err = Write(f, tr); err != nil {
		return xerrors.Errorf("writing trace file %s: %w", path, err)
	}
	if err = f.Sync(); err != nil {
		return xerrors.Errorf("syncing trace file %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return xerrors.Errorf("closing trace file %s: %w", path, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return xerrors.Errorf("renaming trace file %s: %w", path, err)
	}

	log.Debugw("wrote trace file", "path", path, "opportunities", len(tr))
	return nil
}
