package rom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadZeroPadsShortFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "short.rom")
	require.NoError(t, os.WriteFile(path, []byte{0xAA, 0xBB}, 0o644))

	img, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, uint8(0xAA), img[0])
	require.Equal(t, uint8(0xBB), img[1])
	require.Equal(t, uint8(0), img[2])
	require.Equal(t, uint8(0), img[Size-1])
}

func TestLoadTruncatesLongFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "long.rom")
	data := make([]byte, Size+100)
	for i := range data {
		data[i] = 0xFF
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))

	img, err := Load(path)
	require.NoError(t, err)
	require.Len(t, img, Size)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.rom"))
	require.Error(t, err)
}

func TestReadVectors(t *testing.T) {
	var img [Size]byte
	img[Size-6] = 0x11
	img[Size-5] = 0x22
	img[Size-4] = 0x00
	img[Size-3] = 0xE0
	img[Size-2] = 0x34
	img[Size-1] = 0x12

	v := ReadVectors(img)
	require.Equal(t, uint16(0x2211), v.NMI)
	require.Equal(t, uint16(0xE000), v.Reset)
	require.Equal(t, uint16(0x1234), v.IRQ)
}
