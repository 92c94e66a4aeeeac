package store

import (
	"github.com/MixinNetwork/funmint/nft"
	"github.com/MixinNetwork/mixin/common"
	"github.com/MixinNetwork/mixin/logger"
	"github.com/dgraph-io/badger/v3"
)

var draftKey = []byte(nft.DraftPropertyKey)

// ReadDraft returns nil when no draft is stored. A stored value that does not
// decode or does not carry a content address is purged and reported absent.
func (bs *BadgerStore) ReadDraft() (*nft.Draft, error) {
	var d *nft.Draft
	err := bs.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(draftKey)
		if err == badger.ErrKeyNotFound {
			return nil
		} else if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		var draft nft.Draft
		err = common.MsgpackUnmarshal(val, &draft)
		if err == nil && draft.Valid() {
			d = &draft
			return nil
		}
		logger.Printf("BadgerStore.ReadDraft purge malformed %x %v\n", val, err)
		return txn.Delete(draftKey)
	})
	return d, err
}

func (bs *BadgerStore) WriteDraft(d *nft.Draft) error {
	if !d.Valid() {
		panic(d)
	}
	val := common.MsgpackMarshalPanic(d)
	return bs.WriteProperty(draftKey, val)
}

func (bs *BadgerStore) DeleteDraft() error {
	return bs.DeleteProperty(draftKey)
}
