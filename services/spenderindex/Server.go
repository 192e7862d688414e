package spenderindex

import (
	"context"
	"net/http"
	"time"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/ordishs/gocore"

	"github.com/bsv-blockchain/spenderindex/errors"
	"github.com/bsv-blockchain/spenderindex/model"
	"github.com/bsv-blockchain/spenderindex/settings"
	"github.com/bsv-blockchain/spenderindex/stores/kv"
	"github.com/bsv-blockchain/spenderindex/ulogger"
)

// Server is the spender index. It owns every record in its key-value store:
// the keying material and the bucket records. Mutations arrive through
// ConnectBlock and DisconnectBlock from a single driver goroutine, strictly
// serialized; the Server performs no internal locking against concurrent
// mutation because it relies on that guarantee. FindSpender may run
// concurrently with a mutation: the store's atomic batches ensure a reader
// sees either the pre-block or post-block state, never an interleaving.
var (
	_ Indexer = (*Server)(nil)
	_ Querier = (*Server)(nil)
)

type Server struct {
	logger   ulogger.Logger
	settings *settings.Settings
	store    kv.Store
	archive  BlockArchive
	stats    *gocore.Stat

	key0 uint64
	key1 uint64

	// deriveFn is the bucket key derivation, deriveBucketKey after Init.
	// Tests replace it to force collisions.
	deriveFn func(*model.Outpoint) uint64
}

func New(logger ulogger.Logger, tSettings *settings.Settings, store kv.Store, archive BlockArchive) *Server {
	return &Server{
		logger:   logger,
		settings: tSettings,
		store:    store,
		archive:  archive,
		stats:    gocore.NewStat("spenderindex"),
	}
}

func (s *Server) Health(ctx context.Context, checkLiveness bool) (int, string, error) {
	if checkLiveness {
		return http.StatusOK, "OK", nil
	}

	if s.deriveFn == nil {
		return http.StatusServiceUnavailable, "index not initialized", nil
	}

	if _, err := s.store.Exists(ctx, keyingMaterialKey); err != nil {
		return http.StatusServiceUnavailable, "kv store not reachable", err
	}

	return http.StatusOK, "OK", nil
}

// Init bootstraps the keying material and registers the metrics. It must be
// called before the index is registered with the driver.
func (s *Server) Init(ctx context.Context) error {
	initPrometheusMetrics()

	if err := s.loadOrCreateKeyingMaterial(ctx); err != nil {
		return err
	}

	s.deriveFn = s.deriveBucketKey

	return nil
}

// Options is queried once by the driver at registration.
func (s *Server) Options() Options {
	return Options{
		RequireBlockOnDisconnect: true,
	}
}

// ConnectBlock indexes one newly connected block: for every input of every
// non-coinbase transaction it records the spending transaction's disk
// position under the spent outpoint's bucket key. All mutations for the block
// are committed in one atomic batch; an error means the batch was not
// committed and the index is no longer in sync past this block.
func (s *Server) ConnectBlock(ctx context.Context, blockInfo *model.BlockInfo) error {
	if s.deriveFn == nil {
		return errors.NewStorageNotStartedError("spender index not initialized")
	}

	start := gocore.CurrentTime()
	defer func() {
		s.stats.NewStat("ConnectBlock").AddTime(start)
		prometheusSpenderIndexConnectBlock.Observe(time.Since(start).Seconds())
	}()

	if blockInfo == nil || blockInfo.Block == nil {
		return errors.NewInvalidArgumentError("connect notification without block data")
	}

	block := blockInfo.Block
	positions := block.TxPositions(blockInfo.FileNo, blockInfo.BlockOffset)

	stage := newBucketStage(s)

	for i, tx := range block.Txs {
		if tx.IsCoinbase() {
			continue
		}

		for _, input := range tx.Inputs {
			outpoint := model.NewOutpointFromInput(input)

			if err := stage.append(ctx, s.deriveFn(outpoint), positions[i]); err != nil {
				return err
			}
		}
	}

	batch := kv.NewBatch()
	stage.flush(batch)

	if err := s.store.Write(ctx, batch); err != nil {
		return errors.NewStorageError("failed to commit spender index batch for block %s", blockInfo.Hash, err)
	}

	s.logger.Debugf("[SpenderIndex] connected block %s with %d txs, %d bucket writes", blockInfo.Hash, len(block.Txs), batch.Len())

	return nil
}

// DisconnectBlock undoes ConnectBlock for a block that was reorganized away.
// The driver invokes it newest-undone-first, one block at a time, with full
// block contents (see Options). Anomalies on individual inputs are logged and
// skipped; only storage failures abort the block.
func (s *Server) DisconnectBlock(ctx context.Context, blockInfo *model.BlockInfo) error {
	if s.deriveFn == nil {
		return errors.NewStorageNotStartedError("spender index not initialized")
	}

	start := gocore.CurrentTime()
	defer func() {
		s.stats.NewStat("DisconnectBlock").AddTime(start)
		prometheusSpenderIndexDisconnectBlock.Observe(time.Since(start).Seconds())
	}()

	if blockInfo == nil || blockInfo.Block == nil {
		return errors.NewInvalidArgumentError("disconnect notification without block data")
	}

	stage := newBucketStage(s)

	for _, tx := range blockInfo.Block.Txs {
		if tx.IsCoinbase() {
			continue
		}

		for _, input := range tx.Inputs {
			outpoint := model.NewOutpointFromInput(input)

			if err := stage.remove(ctx, s.deriveFn(outpoint), outpoint); err != nil {
				return err
			}
		}
	}

	batch := kv.NewBatch()
	stage.flush(batch)

	if err := s.store.Write(ctx, batch); err != nil {
		return errors.NewStorageError("failed to commit spender index undo batch for block %s", blockInfo.Hash, err)
	}

	s.logger.Debugf("[SpenderIndex] disconnected block %s, %d bucket writes", blockInfo.Hash, batch.Len())

	return nil
}

// FindSpender returns the transaction that spent the given outpoint. It walks
// the bucket's candidates in insertion order and returns the first whose
// archived bytes really spend the outpoint, so a bucket collision can only
// cost an extra read, never a wrong answer. The result is an error satisfying
// errors.Is(err, errors.ErrTxNotFound) when no spender is known: the output
// may be unspent, or the spending block's data may have been pruned.
func (s *Server) FindSpender(ctx context.Context, outpoint *model.Outpoint) (*bt.Tx, error) {
	if s.deriveFn == nil {
		return nil, errors.NewStorageNotStartedError("spender index not initialized")
	}

	start := gocore.CurrentTime()
	defer func() {
		s.stats.NewStat("FindSpender").AddTime(start)
		prometheusSpenderIndexFindSpender.Observe(time.Since(start).Seconds())
	}()

	value, err := s.store.Get(ctx, bucketRecordKey(s.deriveFn(outpoint)))
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.NewTxNotFoundError("no spender known for %s", outpoint)
		}

		return nil, errors.NewStorageError("failed to read bucket for %s", outpoint, err)
	}

	positions, err := decodeBucket(value)
	if err != nil {
		return nil, err
	}

	for _, pos := range positions {
		tx, err := s.readTransaction(pos)
		if err != nil {
			// unreadable candidate, e.g. pruned block data. keep trying the rest
			s.logger.Debugf("[SpenderIndex] candidate %s for %s not readable: %v", pos, outpoint, err)
			continue
		}

		if txSpendsOutpoint(tx, outpoint) {
			return tx, nil
		}
	}

	return nil, errors.NewTxNotFoundError("no spender known for %s", outpoint)
}

// txSpendsOutpoint reports whether tx has an input spending the outpoint.
func txSpendsOutpoint(tx *bt.Tx, outpoint *model.Outpoint) bool {
	for _, input := range tx.Inputs {
		if outpoint.Equal(model.NewOutpointFromInput(input)) {
			return true
		}
	}

	return false
}
