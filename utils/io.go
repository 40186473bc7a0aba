package utils

import (
	"encoding/binary"
	"io"
)

type ReaderAndByteReader interface {
	io.Reader
	io.ByteReader
}

type Serializable interface {
	AppendBinary(preAllocatedBuf []byte) (data []byte, err error)
	FromReader(reader ReaderAndByteReader) (err error)
	BufferLength() (n int)
}

// ReadFull Reads exactly len(buf) bytes, io.ErrUnexpectedEOF on short reads
func ReadFull(reader io.Reader, buf []byte) (n int, err error) {
	return io.ReadFull(reader, buf)
}

// ReadLittleEndianUint64 Reads a fixed width 8-byte little endian integer
func ReadLittleEndianUint64(reader io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := ReadFull(reader, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}
