package model

import (
	"encoding/binary"
	"fmt"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// OutpointSize is the serialized size of an Outpoint: 32 byte txid + 4 byte index.
const OutpointSize = 36

// Outpoint references one output of one transaction.
type Outpoint struct {
	TxID  chainhash.Hash
	Index uint32
}

// NewOutpoint creates a new Outpoint.
func NewOutpoint(txID chainhash.Hash, index uint32) *Outpoint {
	return &Outpoint{
		TxID:  txID,
		Index: index,
	}
}

// NewOutpointFromInput returns the outpoint spent by a transaction input.
func NewOutpointFromInput(input *bt.Input) *Outpoint {
	return &Outpoint{
		TxID:  *input.PreviousTxIDChainHash(),
		Index: input.PreviousTxOutIndex,
	}
}

// Bytes returns the serialized outpoint: txid (little endian, as stored) followed
// by the output index (little endian).
func (o *Outpoint) Bytes() []byte {
	serialized := make([]byte, OutpointSize)
	copy(serialized, o.TxID[:])
	binary.LittleEndian.PutUint32(serialized[32:], o.Index)

	return serialized
}

// Equal reports whether both outpoints reference the same output.
func (o *Outpoint) Equal(other *Outpoint) bool {
	return o.TxID.IsEqual(&other.TxID) && o.Index == other.Index
}

// String returns "txid:index" with the txid in big-endian hex.
func (o *Outpoint) String() string {
	return fmt.Sprintf("%v:%d", o.TxID, o.Index)
}
