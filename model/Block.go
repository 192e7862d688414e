package model

import (
	"bytes"
	"io"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/spenderindex/errors"
)

// Block is a block in legacy wire form: an 80 byte header, a varint
// transaction count and the raw transactions in block order. The first
// transaction is the coinbase.
type Block struct {
	Header *BlockHeader
	Txs    []*bt.Tx
}

func NewBlock(header *BlockHeader, txs []*bt.Tx) *Block {
	return &Block{
		Header: header,
		Txs:    txs,
	}
}

// NewBlockFromReader deserializes one block in wire form from r.
func NewBlockFromReader(r io.Reader) (*Block, error) {
	header, err := NewBlockHeaderFromReader(r)
	if err != nil {
		return nil, err
	}

	var txCount bt.VarInt
	if _, err = txCount.ReadFrom(r); err != nil {
		return nil, errors.NewBlockInvalidError("error reading tx count", err)
	}

	txs := make([]*bt.Tx, 0, uint64(txCount))

	for i := uint64(0); i < uint64(txCount); i++ {
		tx := bt.NewTx()
		if _, err = tx.ReadFrom(r); err != nil {
			return nil, errors.NewBlockInvalidError("error reading tx %d of %d", i, uint64(txCount), err)
		}

		txs = append(txs, tx)
	}

	return NewBlock(header, txs), nil
}

func NewBlockFromBytes(b []byte) (*Block, error) {
	return NewBlockFromReader(bytes.NewReader(b))
}

// WriteTo writes the block in wire form.
func (b *Block) WriteTo(w io.Writer) (int64, error) {
	var total int64

	n, err := w.Write(b.Header.Bytes())
	total += int64(n)

	if err != nil {
		return total, err
	}

	n, err = w.Write(bt.VarInt(len(b.Txs)).Bytes())
	total += int64(n)

	if err != nil {
		return total, err
	}

	for _, tx := range b.Txs {
		n, err = w.Write(tx.Bytes())
		total += int64(n)

		if err != nil {
			return total, err
		}
	}

	return total, nil
}

func (b *Block) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = b.WriteTo(&buf)

	return buf.Bytes()
}

// SizeInBytes returns the serialized size of the block in wire form.
func (b *Block) SizeInBytes() uint64 {
	size := uint64(BlockHeaderSize) + uint64(bt.VarInt(len(b.Txs)).Length())

	for _, tx := range b.Txs {
		size += uint64(tx.Size())
	}

	return size
}

// TxPositions returns one TxPos per transaction, relative to a block stored at
// blockOffset in archive file fileNo. Offsets are counted from the end of the
// block header, so the first transaction sits right after the tx count varint.
// This is an explicit fold over the tx list: each position accumulates the
// serialized size of every preceding transaction.
func (b *Block) TxPositions(fileNo uint32, blockOffset uint64) []*TxPos {
	positions := make([]*TxPos, 0, len(b.Txs))

	txOffset := uint32(bt.VarInt(len(b.Txs)).Length())

	for _, tx := range b.Txs {
		positions = append(positions, &TxPos{
			FileNo:      fileNo,
			BlockOffset: blockOffset,
			TxOffset:    txOffset,
		})

		txOffset += uint32(tx.Size())
	}

	return positions
}
