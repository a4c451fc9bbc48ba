package audio

import (
	"hash/crc32"
	"io"
	"os"
)

// CalculateCRC32 calculates the CRC32 checksum of a file
func CalculateCRC32(filename string) (uint32, error) {
	f, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	h := crc32.NewIEEE()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}

	return h.Sum32(), nil
}
