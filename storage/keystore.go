package storage

import (
	"github.com/abcfe/avax-types/common/utils"
	"github.com/abcfe/avax-types/key"
	prt "github.com/abcfe/avax-types/protocol"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var ErrKeyNotFound = errors.New("key not found")

// KeyStore persists public key records. It never stores secret material.
type KeyStore struct {
	db *leveldb.DB
}

func NewKeyStore(db *leveldb.DB) *KeyStore {
	return &KeyStore{db: db}
}

// Put stores info under its eth address and, for custody keys, indexes
// the key id.
func (s *KeyStore) Put(info *key.Info) error {
	addr, err := utils.StringToEthAddress(info.EthAddress)
	if err != nil {
		return errors.Wrap(err, "invalid key info address")
	}
	data, err := utils.SerializeData(info)
	if err != nil {
		return err
	}

	batch := new(leveldb.Batch)
	batch.Put(utils.GetKeyInfoKey(addr), data)
	if info.KeyID != "" {
		batch.Put(utils.GetKeyRefKey(info.KeyID), []byte(addr.Hex()))
	}
	return s.db.Write(batch, nil)
}

func (s *KeyStore) Get(addr prt.EthAddress) (*key.Info, error) {
	data, err := s.db.Get(utils.GetKeyInfoKey(addr), nil)
	if err == leveldb.ErrNotFound {
		return nil, errors.Wrapf(ErrKeyNotFound, "address 0x%s", addr.Hex())
	}
	if err != nil {
		return nil, err
	}

	info := new(key.Info)
	if err := utils.DeserializeData(data, info); err != nil {
		return nil, errors.Wrap(err, "corrupt key info")
	}
	return info, nil
}

func (s *KeyStore) GetByKeyID(keyID string) (*key.Info, error) {
	ref, err := s.db.Get(utils.GetKeyRefKey(keyID), nil)
	if err == leveldb.ErrNotFound {
		return nil, errors.Wrapf(ErrKeyNotFound, "key id %s", keyID)
	}
	if err != nil {
		return nil, err
	}
	addr, err := utils.StringToEthAddress(string(ref))
	if err != nil {
		return nil, errors.Wrap(err, "corrupt key ref")
	}
	return s.Get(addr)
}

// List returns all records ordered by address.
func (s *KeyStore) List() ([]*key.Info, error) {
	iter := s.db.NewIterator(util.BytesPrefix([]byte(prt.PrefixKeyInfo)), nil)
	defer iter.Release()

	var infos []*key.Info
	for iter.Next() {
		info := new(key.Info)
		if err := utils.DeserializeData(iter.Value(), info); err != nil {
			return nil, errors.Wrapf(err, "corrupt key info at %s", iter.Key())
		}
		infos = append(infos, info)
	}
	return infos, iter.Error()
}

func (s *KeyStore) Delete(addr prt.EthAddress) error {
	info, err := s.Get(addr)
	if err != nil {
		return err
	}
	batch := new(leveldb.Batch)
	batch.Delete(utils.GetKeyInfoKey(addr))
	if info.KeyID != "" {
		batch.Delete(utils.GetKeyRefKey(info.KeyID))
	}
	return s.db.Write(batch, nil)
}
