package finalization

import (
	"bytes"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"

	"github.com/unit-e/ued/internal/chain"
	"github.com/unit-e/ued/internal/esperanza"
)

// StateDB persists FinalizationState keyed by block hash, backed by
// goleveldb the way an on-disk consensus-state store commonly is.
type StateDB struct {
	db     *leveldb.DB
	params *esperanza.Params
}

// OpenStateDB opens (or creates) the finalization database at dir.
func OpenStateDB(dir string, params *esperanza.Params) (*StateDB, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("finalization: opening state db: %w", err)
	}
	return &StateDB{db: db, params: params}, nil
}

// Close releases the database's file handles.
func (d *StateDB) Close() error {
	return d.db.Close()
}

// Save batches every (hash, state) pair in states into a single atomic
// write (§4.4 "save(map)").
func (d *StateDB) Save(states map[chain.Hash256]*esperanza.FinalizationState) error {
	batch := new(leveldb.Batch)
	for hash, state := range states {
		var buf bytes.Buffer
		if err := state.Encode(&buf); err != nil {
			return fmt.Errorf("finalization: encoding state for %s: %w", hash, err)
		}
		batch.Put(hash[:], buf.Bytes())
	}
	return d.db.Write(batch, nil)
}

// LoadAll returns every persisted state, keyed by block hash (§4.4
// "load_all").
func (d *StateDB) LoadAll() (map[chain.Hash256]*esperanza.FinalizationState, error) {
	out := make(map[chain.Hash256]*esperanza.FinalizationState)
	it := d.db.NewIterator(nil, nil)
	defer it.Release()
	if err := d.scan(it, out); err != nil {
		return nil, err
	}
	return out, it.Error()
}

// LoadFor returns the persisted state for a single block index, or nil
// if absent (§4.4 "load_for").
func (d *StateDB) LoadFor(blockHash chain.Hash256) (*esperanza.FinalizationState, error) {
	raw, err := d.db.Get(blockHash[:], nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return esperanza.Decode(bytes.NewReader(raw), d.params)
}

// LoadStatesHigherThan scans the persisted states, keeping those whose
// block (looked up via blockHeight) is above height (§4.4
// "load_states_higher_than").
func (d *StateDB) LoadStatesHigherThan(height chain.Height, blockHeight func(chain.Hash256) (chain.Height, bool)) (map[chain.Hash256]*esperanza.FinalizationState, error) {
	all, err := d.LoadAll()
	if err != nil {
		return nil, err
	}
	out := make(map[chain.Hash256]*esperanza.FinalizationState)
	for hash, state := range all {
		h, ok := blockHeight(hash)
		if ok && h > height {
			out[hash] = state
		}
	}
	return out, nil
}

// FindLastFinalizedEpoch walks the main chain from tip backward
// (supplied via parentOf) until a persisted state is found, returning its
// last_finalized_epoch (§4.4 "find_last_finalized_epoch").
func (d *StateDB) FindLastFinalizedEpoch(tip chain.Hash256, parentOf func(chain.Hash256) (chain.Hash256, bool)) (chain.Epoch, error) {
	hash := tip
	for {
		state, err := d.LoadFor(hash)
		if err != nil {
			return 0, err
		}
		if state != nil {
			return state.LastFinalizedEpoch(), nil
		}
		parent, ok := parentOf(hash)
		if !ok {
			return 0, nil
		}
		hash = parent
	}
}

func (d *StateDB) scan(it iterator.Iterator, out map[chain.Hash256]*esperanza.FinalizationState) error {
	for it.Next() {
		var hash chain.Hash256
		copy(hash[:], it.Key())
		state, err := esperanza.Decode(bytes.NewReader(it.Value()), d.params)
		if err != nil {
			return fmt.Errorf("finalization: decoding state for %s: %w", hash, err)
		}
		out[hash] = state
	}
	return nil
}
