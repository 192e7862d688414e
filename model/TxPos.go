package model

import (
	"encoding/binary"
	"fmt"

	"github.com/bsv-blockchain/spenderindex/errors"
)

// TxPosSize is the serialized size of a TxPos.
const TxPosSize = 16

// TxPos identifies one transaction's byte range inside the block-file archive
// without loading the whole block: the archive file number, the byte offset of
// the block within that file, and the byte offset of the transaction within the
// block, counted from the end of the 80 byte block header.
type TxPos struct {
	FileNo      uint32
	BlockOffset uint64
	TxOffset    uint32
}

// NewTxPosFromBytes deserializes a TxPos written by Bytes.
func NewTxPosFromBytes(b []byte) (*TxPos, error) {
	if len(b) != TxPosSize {
		return nil, errors.NewInvalidArgumentError("invalid tx pos length: expected %d bytes, got %d", TxPosSize, len(b))
	}

	return &TxPos{
		FileNo:      binary.LittleEndian.Uint32(b[:4]),
		BlockOffset: binary.LittleEndian.Uint64(b[4:12]),
		TxOffset:    binary.LittleEndian.Uint32(b[12:]),
	}, nil
}

// Bytes returns the fixed width little endian serialization of the TxPos.
func (p *TxPos) Bytes() []byte {
	serialized := make([]byte, TxPosSize)
	binary.LittleEndian.PutUint32(serialized[:4], p.FileNo)
	binary.LittleEndian.PutUint64(serialized[4:12], p.BlockOffset)
	binary.LittleEndian.PutUint32(serialized[12:], p.TxOffset)

	return serialized
}

// Equal reports whether both positions identify the same transaction bytes.
func (p *TxPos) Equal(other *TxPos) bool {
	return p.FileNo == other.FileNo && p.BlockOffset == other.BlockOffset && p.TxOffset == other.TxOffset
}

func (p *TxPos) String() string {
	return fmt.Sprintf("blk%05d:%d+%d", p.FileNo, p.BlockOffset, p.TxOffset)
}
