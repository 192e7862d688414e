package model

import (
	"encoding/binary"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// CoinbaseHex is a valid mainnet coinbase transaction used by tests.
const CoinbaseHex = "01000000010000000000000000000000000000000000000000000000000000000000000000ffffffff0704ffff001d0104ffffffff0100f2052a0100000043410496b538e853519c726a2c91e61ec11600ae1390813a627c66fb8be7947be63c52da7589379515d4e0a604f8141781e62294721166bf621e73a82cbf2342c858eeac00000000"

// NewTestCoinbaseTx returns a fresh coinbase transaction for tests.
func NewTestCoinbaseTx() *bt.Tx {
	tx, err := bt.NewTxFromString(CoinbaseHex)
	if err != nil {
		panic(err)
	}

	return tx
}

// NewTestSpendingTx returns a transaction with one input spending each of the
// given outpoints. The locking script and amount are placeholders; the index
// only ever looks at the inputs.
func NewTestSpendingTx(outpoints ...*Outpoint) *bt.Tx {
	tx := bt.NewTx()

	for _, outpoint := range outpoints {
		if err := tx.From(outpoint.TxID.String(), outpoint.Index, "76a914c362d5af234dd4e1f2a1bfbcab90036d38b0aa9f88ac", 1000); err != nil {
			panic(err)
		}
	}

	return tx
}

// NewTestBlock builds a block whose first transaction is a coinbase, followed
// by the given transactions in order. The header is syntactically valid but
// carries no proof of work; nonce can be varied to give distinct block hashes.
func NewTestBlock(nonce uint32, txs ...*bt.Tx) *Block {
	blockTxs := make([]*bt.Tx, 0, len(txs)+1)
	blockTxs = append(blockTxs, NewTestCoinbaseTx())
	blockTxs = append(blockTxs, txs...)

	var prev chainhash.Hash

	binary.LittleEndian.PutUint32(prev[:4], nonce)

	return NewBlock(&BlockHeader{
		Version:        1,
		HashPrevBlock:  &prev,
		HashMerkleRoot: blockTxs[0].TxIDChainHash(),
		Timestamp:      1231469665,
		Bits:           0x1d00ffff,
		Nonce:          nonce,
	}, blockTxs)
}
