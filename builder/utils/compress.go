package utils

import (
	"bytes"

	"github.com/klauspost/compress/gzip"
)

// GzipExt is appended to precompressed siblings.
const GzipExt = ".gz"

// GzipBytes compresses data at the best compression level.
func GzipBytes(data []byte) ([]byte, error) {
	buf := SharedBufferPool.Get()
	defer SharedBufferPool.Put(buf)

	zw, err := gzip.NewWriterLevel(buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		_ = zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}
