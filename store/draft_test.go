package store

import (
	"context"
	"testing"
	"time"

	"github.com/MixinNetwork/funmint/nft"
	"github.com/MixinNetwork/mixin/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *BadgerStore {
	ctx, cancel := context.WithCancel(context.Background())
	bs, err := OpenBadger(ctx, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		bs.Close()
	})
	return bs
}

func TestDraftLifecycle(t *testing.T) {
	bs := openTestStore(t)

	d, err := bs.ReadDraft()
	require.NoError(t, err)
	assert.Nil(t, d)

	now := time.Unix(1700000000, 0).UTC()
	err = bs.WriteDraft(&nft.Draft{ContentAddress: "ipfs://Qm1/0", Digest: "abcd", UploadedAt: now})
	require.NoError(t, err)

	d, err = bs.ReadDraft()
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "ipfs://Qm1/0", d.ContentAddress)
	assert.Equal(t, "abcd", d.Digest)
	assert.True(t, now.Equal(d.UploadedAt))

	require.NoError(t, bs.DeleteDraft())
	d, err = bs.ReadDraft()
	require.NoError(t, err)
	assert.Nil(t, d)

	require.NoError(t, bs.DeleteDraft())
}

func TestDraftMalformedIsPurged(t *testing.T) {
	bs := openTestStore(t)

	require.NoError(t, bs.WriteProperty(draftKey, []byte("Unknown error")))
	d, err := bs.ReadDraft()
	require.NoError(t, err)
	assert.Nil(t, d)
	val, err := bs.ReadProperty(draftKey)
	require.NoError(t, err)
	assert.Nil(t, val)

	bad := common.MsgpackMarshalPanic(&nft.Draft{ContentAddress: "https://ipfs.io/ipfs/Qm1"})
	require.NoError(t, bs.WriteProperty(draftKey, bad))
	d, err = bs.ReadDraft()
	require.NoError(t, err)
	assert.Nil(t, d)
	val, err = bs.ReadProperty(draftKey)
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestWriteDraftRejectsInvalid(t *testing.T) {
	bs := openTestStore(t)
	assert.Panics(t, func() {
		bs.WriteDraft(&nft.Draft{ContentAddress: "Qm1"})
	})
}

func TestProperty(t *testing.T) {
	bs := openTestStore(t)
	val, err := bs.ReadProperty([]byte("missing"))
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, bs.WriteProperty([]byte("k"), []byte("v")))
	val, err = bs.ReadProperty([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)
}
