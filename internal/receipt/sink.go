package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// #region file-sink
// FileSink writes each receipt twice: to a dated slot under Dir and to the
// LatestPath pointer. A canon snapshot goes to Dir/canon.json when provided.
type FileSink struct {
	Dir        string
	LatestPath string
}

// Written lists the files a Write call produced.
type Written struct {
	Slot   string
	Latest string
	Canon  string
}

// SlotName is the dated file name for a receipt issued at issued, e.g.
// tuning-20261019T081500Z-1a2b3c4d.json. The cycle id suffix keeps two
// cycles in the same second apart.
func SlotName(issued time.Time, cycleID string) string {
	short := cycleID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("tuning-%s-%s.json", issued.UTC().Format("20060102T150405Z"), short)
}

// Write persists r. The slot, latest and canon writes are attempted
// independently; every failure is returned.
func (s FileSink) Write(r Receipt, canon []byte) (Written, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return Written{}, fmt.Errorf("receipt dir: %w", err)
	}
	body, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return Written{}, fmt.Errorf("marshal receipt: %w", err)
	}
	body = append(body, '\n')

	issued, err := time.Parse(IssuedAtLayout, r.Stamp.IssuedAt)
	if err != nil {
		issued = time.Now().UTC()
	}

	var out Written
	var errs []error

	slot := filepath.Join(s.Dir, SlotName(issued, r.CycleID))
	if err := writeFileAtomic(slot, body); err != nil {
		errs = append(errs, fmt.Errorf("write slot: %w", err))
	} else {
		out.Slot = slot
	}

	if s.LatestPath != "" {
		if err := os.MkdirAll(filepath.Dir(s.LatestPath), 0o755); err != nil {
			errs = append(errs, fmt.Errorf("latest dir: %w", err))
		} else if err := writeFileAtomic(s.LatestPath, body); err != nil {
			errs = append(errs, fmt.Errorf("write latest: %w", err))
		} else {
			out.Latest = s.LatestPath
		}
	}

	if canon != nil {
		path := filepath.Join(s.Dir, "canon.json")
		if err := writeFileAtomic(path, canon); err != nil {
			errs = append(errs, fmt.Errorf("write canon: %w", err))
		} else {
			out.Canon = path
		}
	}

	return out, errors.Join(errs...)
}

// #endregion file-sink

// #region read
// ReadFile loads a receipt written by FileSink.
func ReadFile(path string) (Receipt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Receipt{}, fmt.Errorf("read receipt: %w", err)
	}
	var r Receipt
	if err := json.Unmarshal(data, &r); err != nil {
		return Receipt{}, fmt.Errorf("decode receipt %s: %w", path, err)
	}
	return r, nil
}

// ReadDir loads every dated receipt slot under dir, oldest first. A missing
// dir yields no receipts.
func ReadDir(dir string) ([]Receipt, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "tuning-*.json"))
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	sort.Strings(paths)
	out := make([]Receipt, 0, len(paths))
	for _, p := range paths {
		r, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// #endregion read

// #region helpers
// writeFileAtomic writes data to a temp file beside path and renames it over
// path so readers never see a half-written receipt.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".receipt-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}

// #endregion helpers

// #region discard
// Discard accepts receipts and writes nothing.
type Discard struct{}

// Write drops r.
func (Discard) Write(Receipt, []byte) (Written, error) {
	return Written{}, nil
}

// #endregion discard
