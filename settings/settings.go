package settings

import (
	"path/filepath"
)

func NewSettings() *Settings {
	dataFolder := getString("dataFolder", "data")

	return &Settings{
		ClientName: getString("clientName", "spenderindex"),
		DataFolder: dataFolder,
		LogLevel:   getString("logLevel", "INFO"),
		SpenderIndex: SpenderIndexSettings{
			StoreURL:         getURL("spenderindex_store", "leveldb://"+filepath.Join(dataFolder, "spenderindex")),
			BlockFileDir:     getString("spenderindex_blockFileDir", filepath.Join(dataFolder, "blocks")),
			BlockFileMaxSize: uint64(getInt("spenderindex_blockFileMaxSize", 128*1024*1024)), // 128MB
		},
	}
}
