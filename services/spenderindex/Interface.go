// Package spenderindex implements a secondary index over the transaction
// history that answers one query: given a transaction output, which
// transaction spent it.
//
// For every input of every non-coinbase transaction in a connected block the
// index records, under a keyed 64 bit bucket key derived from the spent
// outpoint, the disk position of the spending transaction in the block-file
// archive. Bucket keys are not unique; a bucket holds a small ordered list of
// candidate positions and every read re-verifies candidates against the
// archived transaction bytes, so collisions can never produce a wrong answer.
//
// Block connect and disconnect notifications come from an external chain sync
// driver, one block at a time, strictly serialized. FindSpender may be called
// concurrently with mutations from any number of goroutines.
package spenderindex

import (
	"context"
	"io"

	"github.com/bsv-blockchain/go-bt/v2"

	"github.com/bsv-blockchain/spenderindex/model"
)

// Options tells the chain sync driver how the index wants to be notified.
type Options struct {
	// RequireBlockOnDisconnect is true when the index needs the full block
	// contents, not just the header, on disconnect. The spender index always
	// sets it: undoing a block re-derives the removal keys from the block's
	// transaction input lists.
	RequireBlockOnDisconnect bool
}

// Indexer is the contract between the chain sync driver and the index. The
// driver calls ConnectBlock once per newly connected block in forward order
// and DisconnectBlock once per disconnected block in reverse order, never
// concurrently. An error from either means the index is no longer in sync
// with the chain past that block and must be resynced or rebuilt; the driver
// must not simply skip the block.
type Indexer interface {
	Options() Options
	ConnectBlock(ctx context.Context, blockInfo *model.BlockInfo) error
	DisconnectBlock(ctx context.Context, blockInfo *model.BlockInfo) error
}

// Querier answers spender lookups. A not-found result is reported as an error
// satisfying errors.Is(err, errors.ErrTxNotFound) and is a normal outcome:
// the output may be unspent, or its spending block's data may have been
// pruned from the archive.
type Querier interface {
	FindSpender(ctx context.Context, outpoint *model.Outpoint) (*bt.Tx, error)
}

// BlockArchive is the append-only block archive contract consumed by the
// index: open the archive file and position the stream at a block's first
// header byte. stores/blockfile implements it.
type BlockArchive interface {
	OpenAt(fileNo uint32, blockOffset uint64) (io.ReadSeekCloser, error)
}
