package retrieve

import (
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Data kinds stored in the bolt database, used as bucket names.
const (
	kindSequence  = "sequence"
	kindStructure = "structure"
)

// record wraps a stored value with its fetch time so stale entries
// can be expired.
type record struct {
	Fetched time.Time       `json:"fetched"`
	Value   json.RawMessage `json:"value"`
}

// BoltStore persists fetched gene data in a bolt database so
// repeated runs do not hit the external services again. Records
// older than the TTL are treated as absent.
type BoltStore struct {
	db  *bolt.DB
	ttl time.Duration
}

// NewBoltStore creates a store around an open bolt database. A zero
// ttl disables expiry.
func NewBoltStore(db *bolt.DB, ttl time.Duration) *BoltStore {
	return &BoltStore{db: db, ttl: ttl}
}

// Save stores a value of the given kind under a gene id.
func (s *BoltStore) Save(kind, id string, value interface{}) error {
	if s.db == nil {
		return nil
	}
	valueB, err := json.Marshal(value)
	if err != nil {
		return err
	}
	recB, err := json.Marshal(record{Fetched: time.Now(), Value: valueB})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(kind))
		if err != nil {
			return err
		}
		return b.Put([]byte(id), recB)
	})
}

// Load reads a value of the given kind for a gene id into value. It
// returns false when the record is absent or expired.
func (s *BoltStore) Load(kind, id string, value interface{}) (bool, error) {
	if s.db == nil {
		return false, nil
	}
	var recB []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(kind))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(id)); v != nil {
			recB = make([]byte, len(v))
			copy(recB, v)
		}
		return nil
	})
	if err != nil || recB == nil {
		return false, err
	}
	var rec record
	if err := json.Unmarshal(recB, &rec); err != nil {
		return false, err
	}
	if s.ttl > 0 && time.Since(rec.Fetched) > s.ttl {
		log.Debugf("record %s/%s expired", kind, id)
		return false, nil
	}
	if err := json.Unmarshal(rec.Value, value); err != nil {
		return false, err
	}
	return true, nil
}
