// Package badgerdb persists pipeline output in a BadgerDB keyed by arrival
// order.
package badgerdb

import (
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"valpipe/internal/value"
	"valpipe/sink"
)

var keyPrefix = []byte("out/")

type Config struct {
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`
}

// Driver stores each pushed value as tagged JSON under out/<seq>, with seq a
// big-endian counter so iteration returns values in push order.
type Driver struct {
	db  *badger.DB
	seq uint64
}

func (d *Driver) Configure(raw any) error {
	cfg, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("badger-sink: expected Config, got %T", raw)
	}
	var opts badger.Options
	switch {
	case cfg.InMemory:
		opts = badger.DefaultOptions("").WithInMemory(true)
	case cfg.Path != "":
		opts = badger.DefaultOptions(cfg.Path)
	default:
		return fmt.Errorf("badger-sink: path is required")
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("failed to open badger: %w", err)
	}
	d.db = db
	return d.resume()
}

// resume continues numbering after the last stored value.
func (d *Driver) resume() error {
	return d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append(append([]byte{}, keyPrefix...), 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)
		it.Seek(seek)
		if it.ValidForPrefix(keyPrefix) {
			d.seq = binary.BigEndian.Uint64(it.Item().Key()[len(keyPrefix):])
		}
		return nil
	})
}

func key(seq uint64) []byte {
	k := make([]byte, len(keyPrefix)+8)
	copy(k, keyPrefix)
	binary.BigEndian.PutUint64(k[len(keyPrefix):], seq)
	return k
}

func (d *Driver) Push(v value.Value) error {
	data, err := value.MarshalJSON(v)
	if err != nil {
		return fmt.Errorf("badger-sink: encode %s: %w", v.Kind(), err)
	}
	next := d.seq + 1
	if err := d.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(next), data)
	}); err != nil {
		return fmt.Errorf("badger-sink: write %d: %w", next, err)
	}
	d.seq = next
	return nil
}

// Each calls fn for every stored value in push order.
func (d *Driver) Each(fn func(seq uint64, v value.Value) error) error {
	return d.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(keyPrefix); it.ValidForPrefix(keyPrefix); it.Next() {
			item := it.Item()
			seq := binary.BigEndian.Uint64(item.Key()[len(keyPrefix):])
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			v, err := value.UnmarshalJSON(data)
			if err != nil {
				return fmt.Errorf("badger-sink: decode %d: %w", seq, err)
			}
			if err := fn(seq, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *Driver) Close() error {
	if d.db == nil {
		return nil
	}
	db := d.db
	d.db = nil
	return db.Close()
}

func init() { sink.Register("badger", func() sink.Adapter { return &Driver{} }) }
