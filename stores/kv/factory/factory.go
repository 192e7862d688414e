// Package factory creates kv stores from URLs. It lives outside package kv so
// the backend packages can depend on kv's shared types without a cycle.
package factory

import (
	"net/url"

	"github.com/bsv-blockchain/spenderindex/errors"
	"github.com/bsv-blockchain/spenderindex/stores/kv"
	"github.com/bsv-blockchain/spenderindex/stores/kv/leveldbstore"
	"github.com/bsv-blockchain/spenderindex/stores/kv/memory"
	"github.com/bsv-blockchain/spenderindex/ulogger"
)

// NewStore creates a key-value store from a URL, e.g. leveldb:///data/index or
// memory:///.
func NewStore(logger ulogger.Logger, storeURL *url.URL) (kv.Store, error) {
	if storeURL == nil {
		return nil, errors.NewConfigurationError("kv store url is not set")
	}

	switch storeURL.Scheme {
	case "leveldb":
		// a relative directory parses as the URL host, e.g. leveldb://data/index
		path := storeURL.Path
		if storeURL.Host != "" {
			path = storeURL.Host + path
		}

		return leveldbstore.New(logger, path)
	case "memory":
		return memory.New(), nil
	}

	return nil, errors.NewStorageError("unknown kv store scheme: %s", storeURL.Scheme)
}
