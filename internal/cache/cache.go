// Package cache is a bbolt-backed response cache shared by providers,
// keyed by provider id and disc id, so a repeat rip of the same disc
// does not re-query an online catalogue within the configured TTL.
package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
	"golang.org/x/sync/singleflight"
)

// ProviderCache wraps one bbolt database file. It is safe for concurrent
// use; Fetch collapses duplicate concurrent lookups for the same
// provider+disc key into a single call of fn.
type ProviderCache struct {
	db   *bbolt.DB
	ttl  time.Duration
	path string
	temp bool
	grp  singleflight.Group
}

type entry struct {
	StoredAt time.Time
	Payload  []byte
}

// Open creates (or opens) the cache database under dir. If the database
// is locked by another process, it is copied to a temporary file and
// reopened there, recovering from the lock timeout rather than failing
// the session outright.
func Open(dir string, ttl time.Duration) (*ProviderCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "providers.db")
	options := bbolt.DefaultOptions
	options.Timeout = 500 * time.Millisecond

	temporary := false
	for {
		db, err := bbolt.Open(path, 0600, options)
		if err == nil {
			return &ProviderCache{db: db, ttl: ttl, path: path, temp: temporary}, nil
		}
		recoverable := errors.Is(err, bbolt.ErrTimeout) && !temporary
		if !recoverable {
			return nil, err
		}
		src, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		dst, err := os.CreateTemp("", "cuesmith-providers-*.db")
		if err != nil {
			_ = src.Close()
			return nil, err
		}
		_, copyErr := io.Copy(dst, src)
		_ = src.Close()
		_ = dst.Close()
		if copyErr != nil {
			return nil, copyErr
		}
		path = dst.Name()
		temporary = true
	}
}

func (c *ProviderCache) Close() error {
	if err := c.db.Close(); err != nil {
		return err
	}
	if c.temp {
		return os.Remove(c.path)
	}
	return nil
}

// Get returns the cached payload for providerID+discID, or ok=false if
// absent or expired.
func (c *ProviderCache) Get(providerID, discID string) (payload []byte, ok bool, err error) {
	err = c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(providerID))
		if b == nil {
			return nil
		}
		raw := b.Get([]byte(discID))
		if raw == nil {
			return nil
		}
		var e entry
		if unmarshalErr := json.Unmarshal(raw, &e); unmarshalErr != nil {
			return unmarshalErr
		}
		if c.ttl > 0 && time.Since(e.StoredAt) > c.ttl {
			return nil
		}
		payload = e.Payload
		ok = true
		return nil
	})
	return payload, ok, err
}

// Put stores payload for providerID+discID, timestamped for TTL expiry.
func (c *ProviderCache) Put(providerID, discID string, payload []byte) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(providerID))
		if err != nil {
			return err
		}
		raw, err := json.Marshal(entry{StoredAt: time.Now(), Payload: payload})
		if err != nil {
			return err
		}
		return b.Put([]byte(discID), raw)
	})
}

// Fetch returns the cached payload for providerID+discID if present and
// unexpired; otherwise it calls fn, caches a successful result, and
// collapses concurrent calls for the same key into one invocation of fn.
func (c *ProviderCache) Fetch(providerID, discID string, fn func() ([]byte, error)) ([]byte, error) {
	if payload, ok, err := c.Get(providerID, discID); err == nil && ok {
		return payload, nil
	}

	key := fmt.Sprintf("%s\x00%s", providerID, discID)
	v, err, _ := c.grp.Do(key, func() (interface{}, error) {
		payload, err := fn()
		if err != nil {
			return nil, err
		}
		if putErr := c.Put(providerID, discID, payload); putErr != nil {
			return nil, putErr
		}
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
