package database

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/Shubhamxshah/arora-the-interview-app/internal/utils"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/errors"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/structs"
)

const badgerKeyPrefix = "interviews/"

// Badger is an embedded interview store for single-node deployments;
// records are JSON values under interviews/<id>.
type Badger struct {
	db *badger.DB
}

// NewBadger opens (or creates) an embedded store at the given path.
func NewBadger(path string) (*Badger, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}

func (b *Badger) Insert(in *structs.Interview) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerKeyPrefix+in.ID), data)
	})
}

func (b *Badger) Get(id string) (*structs.Interview, error) {
	var in *structs.Interview
	err := b.db.View(func(txn *badger.Txn) error {
		got, err := getInterview(txn, id)
		in = got
		return err
	})
	return in, err
}

func (b *Badger) Interviews(q *structs.Query) ([]*structs.Interview, error) {
	all := []*structs.Interview{}
	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(badgerKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				in := &structs.Interview{}
				if err := json.Unmarshal(val, in); err != nil {
					return err
				}
				if matches(in, q) {
					all = append(all, in)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt > all[j].CreatedAt })
	if q.Offset >= len(all) {
		return []*structs.Interview{}, nil
	}
	all = all[q.Offset:]
	if q.Limit > 0 && len(all) > q.Limit {
		all = all[:q.Limit]
	}
	return all, nil
}

func (b *Badger) Update(id, etag string, u *Update) (int64, error) {
	var altered int64
	err := b.db.Update(func(txn *badger.Txn) error {
		in, err := getInterview(txn, id)
		if err != nil {
			return err
		}
		if etag != "" && in.ETag != etag {
			return nil // no match, no write
		}
		applyUpdate(in, u, utils.NewRandomID(), timeNow())
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		altered = 1
		return txn.Set([]byte(badgerKeyPrefix+id), data)
	})
	return altered, err
}

func getInterview(txn *badger.Txn, id string) (*structs.Interview, error) {
	item, err := txn.Get([]byte(badgerKeyPrefix + id))
	if err != nil {
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w interview %s", errors.ErrNotFound, id)
		}
		return nil, err
	}
	in := &structs.Interview{}
	err = item.Value(func(val []byte) error { return json.Unmarshal(val, in) })
	return in, err
}
