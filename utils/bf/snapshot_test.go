package bf

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "names.bin")

	f, err := Build(2000, 0.01)
	require.NoError(t, err)
	var names []string
	for i := 0; i < 1500; i++ {
		s := fmt.Sprintf("user-%d", i)
		f.Insert(s)
		names = append(names, s)
	}

	require.NoError(t, Save(f, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(headerSize+byteLen(f.M())), info.Size())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, f.M(), got.M())
	assert.Equal(t, f.K(), got.K())
	assert.Equal(t, f.bits.Bytes(), got.bits.Bytes())
	for _, s := range names {
		assert.True(t, got.Lookup(s), "lost %q after reload", s)
	}

	// counter is re-estimated from the fill level
	assert.InDelta(t, 1500, float64(got.Count()), 75)
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.bin")

	first, err := Build(10, 0.1)
	require.NoError(t, err)
	require.NoError(t, Save(first, path))

	second, err := Build(1000, 0.01)
	require.NoError(t, err)
	second.Insert("frank")
	require.NoError(t, Save(second, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, second.M(), got.M())
	assert.True(t, got.Lookup("frank"))
}

func TestSnapshotWireFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wire.bin")

	f, err := NewWithParams(12, 3)
	require.NoError(t, err)
	require.NoError(t, f.bits.Set(0))
	require.NoError(t, f.bits.Set(3))
	require.NoError(t, f.bits.Set(11))
	require.NoError(t, Save(f, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, raw, 16+2)
	assert.Equal(t, uint64(12), binary.LittleEndian.Uint64(raw[0:8]))
	assert.Equal(t, uint64(3), binary.LittleEndian.Uint64(raw[8:16]))
	assert.Equal(t, byte(0x09), raw[16])
	assert.Equal(t, byte(0x08), raw[17])
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.bin"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.bin")
	f, err := Build(1000, 0.01)
	require.NoError(t, err)
	f.Insert("grace")
	require.NoError(t, Save(f, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw[:len(raw)-10], 0o644))

	_, err = Load(path)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestLoadCorrupt(t *testing.T) {
	header := func(m, k uint64) []byte {
		b := make([]byte, 16)
		binary.LittleEndian.PutUint64(b[0:8], m)
		binary.LittleEndian.PutUint64(b[8:16], k)
		return b
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header", []byte{1, 2, 3}},
		{"zero m", header(0, 3)},
		{"zero k", append(header(8, 0), 0)},
		{"missing body", header(64, 3)},
		{"trailing bytes", append(header(8, 1), 0, 0)},
		{"huge m", append(header(^uint64(0), 7), 0)},
		{"huge k", append(header(8, 1<<40), 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.bin")
			require.NoError(t, os.WriteFile(path, tt.data, 0o644))

			_, err := Load(path)
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestDecodeMasksPadding(t *testing.T) {
	data := make([]byte, 17)
	binary.LittleEndian.PutUint64(data[0:8], 4)
	binary.LittleEndian.PutUint64(data[8:16], 1)
	data[16] = 0xff

	f, err := decodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0f}, f.bits.Bytes())
}
