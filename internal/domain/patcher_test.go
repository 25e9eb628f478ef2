package domain

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/remix/internal/adapter"
	m "github.com/mouse-blink/remix/internal/model"
)

func newTestPatcher() *Patcher {
	return NewPatcher(adapter.NewLocalBundleFSAdapter(), rand.New(rand.NewSource(7)))
}

// peFixture builds a minimal well-formed buffer: header pointer at 0x3C
// reading 0x80, "PE\0\0" at 0x80, timestamp field at 0x88.
func peFixture(size int) []byte {
	data := make([]byte, size)
	binary.LittleEndian.PutUint32(data[0x3C:], 0x80)
	copy(data[0x80:], []byte{'P', 'E', 0, 0})
	binary.LittleEndian.PutUint32(data[0x88:], 0x5F5E0F00)

	return data
}

func TestPatchModule_ValidHeader(t *testing.T) {
	patcher := newTestPatcher()
	input := peFixture(0x100)

	before := time.Now().Unix()
	patched, result := patcher.PatchModule("binding.node", input)
	after := time.Now().Unix()

	require.True(t, result.OK)
	assert.True(t, result.HeaderLocated)
	assert.Equal(t, trailerLength, result.BytesAppended)
	assert.Equal(t, len(input)+trailerLength, len(patched))

	stamp := int64(binary.LittleEndian.Uint32(patched[0x88:]))
	assert.GreaterOrEqual(t, stamp, before-timestampJitter, "timestamp too far in the past")
	assert.LessOrEqual(t, stamp, after, "timestamp in the future")
	assert.NotEqual(t, input[0x88:0x8C], patched[0x88:0x8C])
}

func TestPatchModule_InputBufferNeverMutated(t *testing.T) {
	patcher := newTestPatcher()
	input := peFixture(0x100)
	original := append([]byte(nil), input...)

	_, result := patcher.PatchModule("binding.node", input)

	require.True(t, result.OK)
	assert.Equal(t, original, input)
}

func TestPatchModule_MagicMismatchSkipsRewrite(t *testing.T) {
	patcher := newTestPatcher()

	input := peFixture(0x100)
	copy(input[0x80:], []byte{'M', 'Z', 0, 0})

	patched, result := patcher.PatchModule("binding.node", input)

	require.True(t, result.OK)
	assert.False(t, result.HeaderLocated)
	assert.Equal(t, len(input)+trailerLength, len(patched))
	// Every original byte must be untouched; only the trailer differs.
	assert.Equal(t, input, patched[:len(input)])
}

func TestPatchModule_PointerOutOfBoundsSkipsRewrite(t *testing.T) {
	patcher := newTestPatcher()

	input := make([]byte, 0x100)
	binary.LittleEndian.PutUint32(input[0x3C:], 0xFFFF)

	patched, result := patcher.PatchModule("binding.node", input)

	require.True(t, result.OK)
	assert.False(t, result.HeaderLocated)
	assert.Equal(t, input, patched[:len(input)])
}

func TestPatchModule_TinyNonPEBuffer(t *testing.T) {
	patcher := newTestPatcher()

	input := bytes.Repeat([]byte{0xAB}, 50)

	patched, result := patcher.PatchModule("binding.node", input)

	require.True(t, result.OK)
	assert.False(t, result.HeaderLocated)
	assert.Equal(t, trailerLength, result.BytesAppended)
	assert.Equal(t, 178, len(patched))
	assert.Equal(t, input, patched[:50])
}

func TestPatchModule_DigestAlwaysChanges(t *testing.T) {
	patcher := newTestPatcher()

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "valid header", input: peFixture(0x100)},
		{name: "tiny non-PE", input: bytes.Repeat([]byte{0x01}, 50)},
		{name: "empty", input: []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, result := patcher.PatchModule("binding.node", tt.input)

			require.True(t, result.OK)
			assert.NotEqual(t, result.InputDigest, result.OutputDigest)
			assert.Equal(t, adapter.DigestBytes(tt.input), result.InputDigest)
		})
	}
}

func TestPatchModule_TimestampOffsetPastEnd(t *testing.T) {
	patcher := newTestPatcher()

	// Pointer references the magic right at the end of the buffer: the magic
	// validates but there is no room for the timestamp field.
	input := make([]byte, 0x90)
	binary.LittleEndian.PutUint32(input[0x3C:], 0x8C)
	copy(input[0x8C:], []byte{'P', 'E', 0, 0})

	patched, result := patcher.PatchModule("binding.node", input)

	require.True(t, result.OK)
	assert.True(t, result.HeaderLocated)
	assert.Equal(t, input, patched[:len(input)])
}

func TestPatchModules_MixedSourceTree(t *testing.T) {
	source := t.TempDir()
	output := t.TempDir()

	// binding.node is a well-formed module, vendor.node is junk bytes,
	// updater.node is absent.
	require.NoError(t, os.WriteFile(filepath.Join(source, "binding.node"), peFixture(0x100), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(source, "vendor.node"), bytes.Repeat([]byte{0x42}, 50), 0o600))

	patcher := newTestPatcher()
	results := patcher.PatchModules(m.Path(source), m.Path(output), 2)

	require.Len(t, results, len(NativeModules))

	byModule := map[string]m.PatchResult{}
	for _, result := range results {
		byModule[result.Module] = result
	}

	binding := byModule["binding.node"]
	assert.True(t, binding.OK)
	assert.True(t, binding.HeaderLocated)

	vendor := byModule["vendor.node"]
	assert.True(t, vendor.OK)
	assert.False(t, vendor.HeaderLocated)

	// Absent module: skipped, not failed.
	updater := byModule["updater.node"]
	assert.False(t, updater.OK)
	assert.NoError(t, updater.Err)
	assert.Zero(t, updater.BytesAppended)

	patchedBinding, err := os.ReadFile(filepath.Join(output, "binding.node"))
	require.NoError(t, err)
	assert.Equal(t, 0x100+trailerLength, len(patchedBinding))

	patchedVendor, err := os.ReadFile(filepath.Join(output, "vendor.node"))
	require.NoError(t, err)
	assert.Equal(t, 50+trailerLength, len(patchedVendor))

	_, err = os.Stat(filepath.Join(output, "updater.node"))
	assert.True(t, os.IsNotExist(err))
}
