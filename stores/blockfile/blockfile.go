// Package blockfile implements the append-only block archive: blocks are
// written sequentially into numbered blk files and read back by exact
// (file number, byte offset) positions.
package blockfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bsv-blockchain/spenderindex/errors"
	"github.com/bsv-blockchain/spenderindex/model"
	"github.com/bsv-blockchain/spenderindex/ulogger"
)

// magic is the mainnet message start written before every block, followed by
// a 4 byte little endian length of the block payload.
var magic = [4]byte{0xf9, 0xbe, 0xb4, 0xd9}

// framingSize is the number of bytes written before each block payload.
const framingSize = 8

// Store is the block-file archive. Appends are serialized internally; reads
// open an independent file handle and may run concurrently with appends.
type Store struct {
	logger      ulogger.Logger
	dir         string
	maxFileSize uint64

	mu     sync.Mutex
	fileNo uint32
	file   *os.File
	offset uint64
}

func New(logger ulogger.Logger, dir string, maxFileSize uint64) (*Store, error) {
	if maxFileSize == 0 {
		return nil, errors.NewConfigurationError("block file max size is not set")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.NewStorageError("failed to create block file dir %s", dir, err)
	}

	s := &Store{
		logger:      logger,
		dir:         dir,
		maxFileSize: maxFileSize,
	}

	fileNo, err := s.lastFileNo()
	if err != nil {
		return nil, err
	}

	if err = s.openWriteFile(fileNo); err != nil {
		return nil, err
	}

	return s, nil
}

// lastFileNo returns the highest existing blk file number, or 0 when the
// archive is empty.
func (s *Store) lastFileNo() (uint32, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, errors.NewStorageError("failed to read block file dir %s", s.dir, err)
	}

	numbers := make([]int, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "blk") || !strings.HasSuffix(name, ".dat") {
			continue
		}

		var n int
		if _, err = fmt.Sscanf(name, "blk%05d.dat", &n); err != nil {
			continue
		}

		numbers = append(numbers, n)
	}

	if len(numbers) == 0 {
		return 0, nil
	}

	sort.Ints(numbers)

	return uint32(numbers[len(numbers)-1]), nil //nolint:gosec // file numbers never approach uint32 max
}

func (s *Store) fileName(fileNo uint32) string {
	return filepath.Join(s.dir, fmt.Sprintf("blk%05d.dat", fileNo))
}

func (s *Store) openWriteFile(fileNo uint32) error {
	file, err := os.OpenFile(s.fileName(fileNo), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.NewStorageError("failed to open block file %s", s.fileName(fileNo), err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return errors.NewStorageError("failed to stat block file %s", s.fileName(fileNo), err)
	}

	if s.file != nil {
		_ = s.file.Close()
	}

	s.file = file
	s.fileNo = fileNo
	s.offset = uint64(info.Size())

	return nil
}

// AppendBlock writes the block to the archive and returns the position of the
// block payload, i.e. the offset of the first header byte, not of the framing
// in front of it.
func (s *Store) AppendBlock(block *model.Block) (uint32, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload := block.Bytes()

	if s.offset > 0 && s.offset+framingSize+uint64(len(payload)) > s.maxFileSize {
		if err := s.openWriteFile(s.fileNo + 1); err != nil {
			return 0, 0, err
		}
	}

	framing := make([]byte, framingSize)
	copy(framing, magic[:])
	binary.LittleEndian.PutUint32(framing[4:], uint32(len(payload))) //nolint:gosec // block size is bounded by maxFileSize

	if _, err := s.file.Write(framing); err != nil {
		return 0, 0, errors.NewStorageError("failed to write block framing", err)
	}

	blockOffset := s.offset + framingSize

	if _, err := s.file.Write(payload); err != nil {
		return 0, 0, errors.NewStorageError("failed to write block payload", err)
	}

	if err := s.file.Sync(); err != nil {
		return 0, 0, errors.NewStorageError("failed to sync block file", err)
	}

	fileNo := s.fileNo
	s.offset += framingSize + uint64(len(payload))

	return fileNo, blockOffset, nil
}

// OpenAt opens the archive file fileNo positioned at blockOffset. The caller
// owns the returned handle and must close it.
func (s *Store) OpenAt(fileNo uint32, blockOffset uint64) (io.ReadSeekCloser, error) {
	file, err := os.Open(s.fileName(fileNo))
	if err != nil {
		return nil, errors.NewNotFoundError("block file %s not readable", s.fileName(fileNo), err)
	}

	if _, err = file.Seek(int64(blockOffset), io.SeekStart); err != nil { //nolint:gosec // offsets are bounded by maxFileSize
		_ = file.Close()
		return nil, errors.NewNotFoundError("failed to seek to block offset %d", blockOffset, err)
	}

	return file, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}

	err := s.file.Close()
	s.file = nil

	if err != nil {
		return errors.NewStorageError("failed to close block file", err)
	}

	return nil
}
