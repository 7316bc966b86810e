package history

import (
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"

	"github.com/xmrbtc/swapmon/logging"
	"github.com/xmrbtc/swapmon/swaprpc"
)

// const strings for db usage
var (
	BKTSummaries = []byte("Summaries")
)

// Store is the durable cache of swap summaries, refreshed from the daemon
// whenever a swap looks finished.  It survives restarts so the shell can
// list past swaps without the daemon being up.
type Store struct {
	db *bolt.DB
}

// OpenStore opens (or creates) the history database at the given path.
func OpenStore(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(BKTSummaries)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// SaveSummary writes a summary, overwriting any prior record for the swap.
func (s *Store) SaveSummary(sum *swaprpc.Summary) error {
	if sum.SwapID == "" {
		return fmt.Errorf("refusing to save summary without a swap id")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(BKTSummaries)
		v, err := json.Marshal(sum)
		if err != nil {
			return err
		}
		return b.Put([]byte(sum.SwapID), v)
	})
}

// LoadSummary reads one summary by swap id.
func (s *Store) LoadSummary(swapID string) (*swaprpc.Summary, error) {
	sum := new(swaprpc.Summary)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(BKTSummaries)
		v := b.Get([]byte(swapID))
		if v == nil {
			return fmt.Errorf("no summary for swap %s", swapID)
		}
		return json.Unmarshal(v, sum)
	})
	if err != nil {
		return nil, err
	}
	return sum, nil
}

// ListSummaries returns every cached summary.
func (s *Store) ListSummaries() ([]*swaprpc.Summary, error) {
	sums := make([]*swaprpc.Summary, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(BKTSummaries)
		return b.ForEach(func(k, v []byte) error {
			sum := new(swaprpc.Summary)
			if err := json.Unmarshal(v, sum); err != nil {
				// One corrupt record shouldn't hide the rest.
				logging.Warnf("history: skipping unreadable summary %s: %s\n", k, err.Error())
				return nil
			}
			sums = append(sums, sum)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return sums, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
