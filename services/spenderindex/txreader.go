package spenderindex

import (
	"io"

	"github.com/bsv-blockchain/go-bt/v2"

	"github.com/bsv-blockchain/spenderindex/errors"
	"github.com/bsv-blockchain/spenderindex/model"
)

// readTransaction reads and deserializes exactly one transaction from the
// block archive at the given position: open the file at the block offset,
// deserialize the header forward, seek by the transaction offset, read one
// transaction. Every failure is reported as a tx-not-found error; callers are
// always iterating a candidate list and treat an unreadable candidate as a
// non-match, not as a fatal condition.
func (s *Server) readTransaction(pos *model.TxPos) (*bt.Tx, error) {
	r, err := s.archive.OpenAt(pos.FileNo, pos.BlockOffset)
	if err != nil {
		return nil, errors.NewTxNotFoundError("failed to open archive at %s", pos, err)
	}

	defer func() {
		_ = r.Close()
	}()

	if _, err = model.NewBlockHeaderFromReader(r); err != nil {
		return nil, errors.NewTxNotFoundError("failed to read block header at %s", pos, err)
	}

	if _, err = r.Seek(int64(pos.TxOffset), io.SeekCurrent); err != nil {
		return nil, errors.NewTxNotFoundError("failed to seek to tx at %s", pos, err)
	}

	tx := bt.NewTx()
	if _, err = tx.ReadFrom(r); err != nil {
		return nil, errors.NewTxNotFoundError("failed to deserialize tx at %s", pos, err)
	}

	return tx, nil
}
