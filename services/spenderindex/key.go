package spenderindex

import (
	"context"
	"crypto/rand"
	"encoding/binary"

	"github.com/dchest/siphash"

	"github.com/bsv-blockchain/spenderindex/errors"
	"github.com/bsv-blockchain/spenderindex/model"
)

// keyingMaterialKey is the sentinel record holding the two 64 bit SipHash
// keys. It is written exactly once, when the index is first created.
var keyingMaterialKey = []byte("siphash_key")

// bucketKeyPrefix namespaces bucket records in the key-value store. There is
// only one record kind besides the keying material but the prefix keeps the
// namespace open for more.
const bucketKeyPrefix = byte('s')

// bucketRecordKey returns the store key for a bucket: the prefix byte
// followed by the 64 bit bucket key in big endian.
func bucketRecordKey(bucketKey uint64) []byte {
	key := make([]byte, 9)
	key[0] = bucketKeyPrefix
	binary.BigEndian.PutUint64(key[1:], bucketKey)

	return key
}

// loadOrCreateKeyingMaterial loads the persisted SipHash keys, generating and
// persisting fresh random ones when the index is brand new. The keys are
// never regenerated once written: every stored bucket key is derived from
// them, so replacing them would silently orphan every existing record.
func (s *Server) loadOrCreateKeyingMaterial(ctx context.Context) error {
	value, err := s.store.Get(ctx, keyingMaterialKey)
	if err == nil {
		if len(value) != 16 {
			return errors.NewConfigurationError("keying material record has %d bytes, expected 16", len(value))
		}

		s.key0 = binary.LittleEndian.Uint64(value[:8])
		s.key1 = binary.LittleEndian.Uint64(value[8:])

		return nil
	}

	if !errors.Is(err, errors.ErrNotFound) {
		return errors.NewStorageError("failed to read keying material", err)
	}

	value = make([]byte, 16)
	if _, err = rand.Read(value); err != nil {
		return errors.NewProcessingError("failed to generate keying material", err)
	}

	if err = s.store.Set(ctx, keyingMaterialKey, value); err != nil {
		return errors.NewStorageError("failed to persist keying material", err)
	}

	s.logger.Infof("[SpenderIndex] generated new keying material")

	s.key0 = binary.LittleEndian.Uint64(value[:8])
	s.key1 = binary.LittleEndian.Uint64(value[8:])

	return nil
}

// deriveBucketKey maps an outpoint to its bucket key with SipHash-2-4 keyed
// by the persisted keying material. A keyed hash keeps the distribution
// uniform even against an adversary who chooses transaction ids trying to
// engineer collisions; collisions still happen and are handled, the keyed
// hash only makes them rare and non-adversarial.
func (s *Server) deriveBucketKey(outpoint *model.Outpoint) uint64 {
	return siphash.Hash(s.key0, s.key1, outpoint.Bytes())
}
