package model

import (
	"encoding/binary"
	"io"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/spenderindex/errors"
)

// BlockHeaderSize is the serialized size of a bitcoin block header.
const BlockHeaderSize = 80

type BlockHeader struct {
	// Version of the block.  This is not the same as the protocol version.
	Version uint32

	// Hash of the previous block header in the blockchain.
	HashPrevBlock *chainhash.Hash

	// Merkle tree reference to hash of all transactions for the block.
	HashMerkleRoot *chainhash.Hash

	// Time the block was created in unix time.
	Timestamp uint32

	// Difficulty target for the block.
	Bits uint32

	// Nonce used to generate the block.
	Nonce uint32
}

func NewBlockHeaderFromBytes(headerBytes []byte) (*BlockHeader, error) {
	if len(headerBytes) != BlockHeaderSize {
		return nil, errors.NewBlockInvalidError("block header should be %d bytes long, got %d", BlockHeaderSize, len(headerBytes))
	}

	hashPrevBlock, err := chainhash.NewHash(headerBytes[4:36])
	if err != nil {
		return nil, errors.NewBlockInvalidError("error creating previous block hash from bytes", err)
	}

	hashMerkleRoot, err := chainhash.NewHash(headerBytes[36:68])
	if err != nil {
		return nil, errors.NewBlockInvalidError("error creating merkle root hash from bytes", err)
	}

	return &BlockHeader{
		Version:        binary.LittleEndian.Uint32(headerBytes[:4]),
		HashPrevBlock:  hashPrevBlock,
		HashMerkleRoot: hashMerkleRoot,
		Timestamp:      binary.LittleEndian.Uint32(headerBytes[68:72]),
		Bits:           binary.LittleEndian.Uint32(headerBytes[72:76]),
		Nonce:          binary.LittleEndian.Uint32(headerBytes[76:]),
	}, nil
}

// NewBlockHeaderFromReader reads exactly BlockHeaderSize bytes from r and
// parses them, leaving r positioned at the transaction count varint.
func NewBlockHeaderFromReader(r io.Reader) (*BlockHeader, error) {
	headerBytes := make([]byte, BlockHeaderSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, errors.NewBlockInvalidError("error reading block header", err)
	}

	return NewBlockHeaderFromBytes(headerBytes)
}

func (bh *BlockHeader) Hash() *chainhash.Hash {
	hash := chainhash.DoubleHashH(bh.Bytes())
	return &hash
}

func (bh *BlockHeader) Bytes() []byte {
	headerBytes := make([]byte, BlockHeaderSize)

	binary.LittleEndian.PutUint32(headerBytes[:4], bh.Version)
	copy(headerBytes[4:36], bh.HashPrevBlock.CloneBytes())
	copy(headerBytes[36:68], bh.HashMerkleRoot.CloneBytes())
	binary.LittleEndian.PutUint32(headerBytes[68:72], bh.Timestamp)
	binary.LittleEndian.PutUint32(headerBytes[72:76], bh.Bits)
	binary.LittleEndian.PutUint32(headerBytes[76:], bh.Nonce)

	return headerBytes
}

func (bh *BlockHeader) String() string {
	return bh.Hash().String()
}
