package model

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// BlockInfo is the notification payload the chain sync driver passes to the
// index on block connect and disconnect. FileNo and BlockOffset locate the
// block's bytes in the archive; the archive has already persisted the block by
// the time the index is notified.
type BlockInfo struct {
	Hash        *chainhash.Hash
	Height      uint32
	FileNo      uint32
	BlockOffset uint64
	Block       *Block
}
