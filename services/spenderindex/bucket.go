package spenderindex

import (
	"context"

	"github.com/bsv-blockchain/spenderindex/errors"
	"github.com/bsv-blockchain/spenderindex/model"
	"github.com/bsv-blockchain/spenderindex/stores/kv"
)

// decodeBucket parses a bucket record value: concatenated fixed width TxPos
// entries in insertion order.
func decodeBucket(value []byte) ([]*model.TxPos, error) {
	if len(value)%model.TxPosSize != 0 {
		return nil, errors.NewStorageError("bucket record has %d bytes, not a multiple of %d", len(value), model.TxPosSize)
	}

	positions := make([]*model.TxPos, 0, len(value)/model.TxPosSize)

	for i := 0; i < len(value); i += model.TxPosSize {
		pos, err := model.NewTxPosFromBytes(value[i : i+model.TxPosSize])
		if err != nil {
			return nil, err
		}

		positions = append(positions, pos)
	}

	return positions, nil
}

func encodeBucket(positions []*model.TxPos) []byte {
	value := make([]byte, 0, len(positions)*model.TxPosSize)

	for _, pos := range positions {
		value = append(value, pos.Bytes()...)
	}

	return value
}

// bucketStage accumulates one block's bucket mutations before they are
// flushed into a single atomic batch. Reads go through the staged state
// first, so two inputs of the same block that land in the same bucket both
// take effect, instead of the second read-modify-write clobbering the first.
type bucketStage struct {
	server *Server
	staged map[uint64][]*model.TxPos
}

func newBucketStage(server *Server) *bucketStage {
	return &bucketStage{
		server: server,
		staged: make(map[uint64][]*model.TxPos),
	}
}

// load returns the current bucket contents for bucketKey, staged state
// winning over the store. The second return value is false when the bucket
// does not exist at all (and has not been staged).
func (b *bucketStage) load(ctx context.Context, bucketKey uint64) ([]*model.TxPos, bool, error) {
	if positions, ok := b.staged[bucketKey]; ok {
		return positions, true, nil
	}

	value, err := b.server.store.Get(ctx, bucketRecordKey(bucketKey))
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, false, nil
		}

		return nil, false, errors.NewStorageError("failed to read bucket %x", bucketKey, err)
	}

	positions, err := decodeBucket(value)
	if err != nil {
		return nil, false, err
	}

	return positions, true, nil
}

// append adds pos to the bucket unless an equal position is already present.
// Re-presenting the same block after a crash therefore leaves the bucket
// unchanged. A read failure on an existing record aborts the caller's block:
// continuing with an empty list would silently drop earlier collision
// candidates.
func (b *bucketStage) append(ctx context.Context, bucketKey uint64, pos *model.TxPos) error {
	positions, _, err := b.load(ctx, bucketKey)
	if err != nil {
		return err
	}

	for _, existing := range positions {
		if existing.Equal(pos) {
			return nil
		}
	}

	if len(positions) > 0 {
		prometheusSpenderIndexCollisions.Inc()
	}

	b.staged[bucketKey] = append(positions, pos)

	return nil
}

// remove undoes the indexing of the spend of outpoint. With zero or one
// candidate the record is erased outright. With two or more (a collision) the
// one candidate whose archived transaction really spends outpoint is removed
// and the shrunk list written back; erased entirely when nothing is left. A
// missing record, or no candidate satisfying the predicate, is a possible
// index corruption signal: it is logged and skipped, never escalated, so one
// anomalous input cannot block a whole block's disconnection.
func (b *bucketStage) remove(ctx context.Context, bucketKey uint64, outpoint *model.Outpoint) error {
	positions, found, err := b.load(ctx, bucketKey)
	if err != nil {
		return err
	}

	if !found {
		b.server.logger.Warnf("[SpenderIndex] no bucket for spent outpoint %s, index may be corrupted", outpoint)
		prometheusSpenderIndexMissingRecords.Inc()

		return nil
	}

	if len(positions) <= 1 {
		b.staged[bucketKey] = nil
		return nil
	}

	// collision: find the one candidate whose transaction spends the
	// outpoint being undone. this re-derives ground truth from the archived
	// bytes, expensive but extremely uncommon
	index := -1

	for i, pos := range positions {
		tx, err := b.server.readTransaction(pos)
		if err != nil {
			continue
		}

		if txSpendsOutpoint(tx, outpoint) {
			index = i
			break
		}
	}

	if index == -1 {
		b.server.logger.Warnf("[SpenderIndex] no candidate in bucket %x spends %s, index may be corrupted", bucketKey, outpoint)
		prometheusSpenderIndexMissingRecords.Inc()

		return nil
	}

	b.staged[bucketKey] = append(positions[:index:index], positions[index+1:]...)

	return nil
}

// flush emits every staged bucket into the batch: one put per surviving
// bucket, one delete per bucket that ended up empty. Empty buckets are erased
// records, never stored.
func (b *bucketStage) flush(batch *kv.Batch) {
	for bucketKey, positions := range b.staged {
		if len(positions) == 0 {
			batch.Del(bucketRecordKey(bucketKey))
			continue
		}

		batch.Put(bucketRecordKey(bucketKey), encodeBucket(positions))
	}
}
