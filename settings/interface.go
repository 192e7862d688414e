package settings

import (
	"net/url"
)

type SpenderIndexSettings struct {
	// StoreURL locates the key-value store holding the index records,
	// e.g. leveldb:///data/spenderindex or memory:///.
	StoreURL *url.URL

	// BlockFileDir is the directory holding the blk*.dat archive files.
	BlockFileDir string

	// BlockFileMaxSize is the size in bytes at which the archive writer
	// rolls over to the next file number.
	BlockFileMaxSize uint64
}

type Settings struct {
	ClientName   string
	DataFolder   string
	LogLevel     string
	SpenderIndex SpenderIndexSettings
}
