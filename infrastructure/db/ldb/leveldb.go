package ldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	ldbErrors "github.com/syndtr/goleveldb/leveldb/errors"
	ldbUtil "github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDB defines a thin wrapper around leveldb.
type LevelDB struct {
	ldb *leveldb.DB
}

// NewLevelDB opens a leveldb instance defined by the given path.
func NewLevelDB(path string) (*LevelDB, error) {
	// Open leveldb. If it doesn't exist, create it.
	ldb, err := leveldb.OpenFile(path, nil)

	// If the database is corrupted, attempt to recover.
	if _, corrupted := err.(*ldbErrors.ErrCorrupted); corrupted {
		log.Warnf("LevelDB corruption detected for path %s: %s",
			path, err)
		ldb, err = leveldb.RecoverFile(path, nil)
		if err != nil {
			return nil, err
		}
		log.Warnf("LevelDB recovered from corruption for path %s",
			path)
	}

	// If the database cannot be opened for any other
	// reason, return the error as-is.
	if err != nil {
		return nil, err
	}

	db := &LevelDB{
		ldb: ldb,
	}
	return db, nil
}

// Close closes the leveldb instance.
func (db *LevelDB) Close() error {
	return db.ldb.Close()
}

// Put sets the value for the given key. It overwrites
// any previous value for that key.
func (db *LevelDB) Put(key []byte, value []byte) error {
	return db.ldb.Put(key, value, nil)
}

// Get gets the value for the given key. It returns nil if
// the given key does not exist.
func (db *LevelDB) Get(key []byte) ([]byte, error) {
	data, err := db.ldb.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Has returns true if the database does contains the
// given key.
func (db *LevelDB) Has(key []byte) (bool, error) {
	return db.ldb.Has(key, nil)
}

// Delete removes the value for the given key. Deleting a key
// that does not exist is not an error.
func (db *LevelDB) Delete(key []byte) error {
	return db.ldb.Delete(key, nil)
}

// GetAllWithPrefix returns every key/value pair whose key starts with the
// given prefix. Keys and values are copied out of the iterator.
func (db *LevelDB) GetAllWithPrefix(prefix []byte) (map[string][]byte, error) {
	iterator := db.ldb.NewIterator(ldbUtil.BytesPrefix(prefix), nil)
	defer iterator.Release()

	result := make(map[string][]byte)
	for iterator.Next() {
		value := make([]byte, len(iterator.Value()))
		copy(value, iterator.Value())
		result[string(iterator.Key())] = value
	}
	if err := iterator.Error(); err != nil {
		return nil, errors.WithStack(err)
	}
	return result, nil
}
