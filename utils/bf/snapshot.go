package bf

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/edsrzf/mmap-go"
)

// headerSize is m (u64 LE) followed by k (u64 LE).
const headerSize = 16

// Save writes f to path as [m u64 LE][k u64 LE][ceil(m/8) bit bytes].
//
// The parent directory is created if missing. Data goes to path+".tmp" and is
// renamed into place, so a failed save leaves any previous snapshot intact.
func Save(f *Filter, path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("bf: create snapshot dir: %w", err)
	}

	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("bf: create snapshot: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("bf: close snapshot: %w", cerr)
		}
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if err := writeSnapshot(file, f); err != nil {
		return err
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("bf: sync snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("bf: install snapshot: %w", err)
	}
	return nil
}

func writeSnapshot(w io.Writer, f *Filter) error {
	bw := bufio.NewWriter(w)

	var header [headerSize]byte
	binary.LittleEndian.PutUint64(header[0:8], f.m)
	binary.LittleEndian.PutUint64(header[8:16], f.k)

	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("bf: write snapshot header: %w", err)
	}
	if _, err := bw.Write(f.bits.Bytes()); err != nil {
		return fmt.Errorf("bf: write snapshot bits: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("bf: flush snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot written by Save. It returns ErrNotFound when path does
// not exist and ErrCorrupt when the length is not exactly 16 + ceil(m/8) or
// the header declares m == 0 or k == 0.
//
// The insertion counter is not part of the format. It is re-estimated from
// the number of set bits.
func Load(path string) (*Filter, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("bf: open snapshot: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("bf: stat snapshot: %w", err)
	}
	// mmap refuses empty files, so short files are rejected before mapping.
	if info.Size() < headerSize {
		return nil, fmt.Errorf("%w: %d bytes, header needs %d", ErrCorrupt, info.Size(), headerSize)
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("bf: map snapshot: %w", err)
	}
	defer data.Unmap()

	return decodeSnapshot(data)
}

func decodeSnapshot(data []byte) (*Filter, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes, header needs %d", ErrCorrupt, len(data), headerSize)
	}
	m := binary.LittleEndian.Uint64(data[0:8])
	k := binary.LittleEndian.Uint64(data[8:16])
	if m == 0 || k == 0 {
		return nil, fmt.Errorf("%w: m=%d k=%d", ErrCorrupt, m, k)
	}

	body := uint64(len(data) - headerSize)
	if want := byteLen(m); body != want {
		return nil, fmt.Errorf("%w: %d bit bytes, m=%d needs %d", ErrCorrupt, body, m, want)
	}

	f, err := NewWithParams(m, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	copy(f.bits.bytes, data[headerSize:])
	if tail := m % 8; tail != 0 {
		f.bits.bytes[len(f.bits.bytes)-1] &= byte(1)<<tail - 1
	}
	f.count = estimateInsertions(m, k, f.bits.Count())
	return f, nil
}
