package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
[log]
level = 3

[http]
listen = "127.0.0.1:9000"

[chain]
rpc = "https://dream-rpc.somnia.network"
contract = "0x2719EB739521A40dA34495252a28539A43cC8750"
mint_price = "0.01"
wait_timeout = "45s"

[wallet]
private_key = "289c2857d4598e37fb9647507e47a309d6133539bf21a8b9cb6df88fd5232032"
auto_connect = true

[ipfs]
api = "http://ipfs:5001"

[gallery]
concurrency = 4
`

func TestSetup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0600))

	conf, err := Setup(path)
	require.NoError(t, err)
	assert.Equal(t, 3, conf.Log.Level)
	assert.Equal(t, "127.0.0.1:9000", conf.HTTP.Listen)
	assert.Equal(t, "https://dream-rpc.somnia.network", conf.Chain.RPC)
	assert.Equal(t, int64(50312), conf.Chain.ChainId)
	assert.Equal(t, "0.01", conf.Chain.MintPrice)
	assert.Equal(t, 45*time.Second, conf.Chain.WaitTimeout)
	assert.True(t, conf.Wallet.AutoConnect)
	assert.Equal(t, "http://ipfs:5001", conf.IPFS.API)
	assert.Equal(t, "https://ipfs.io/ipfs/", conf.IPFS.Gateway)
	assert.Equal(t, 30*time.Second, conf.IPFS.Timeout)
	assert.Equal(t, 4, conf.Gallery.Concurrency)
	assert.Equal(t, 1024, conf.Gallery.CacheSize)

	_, err = Setup(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("[chain]\ncontract = \"0x2719EB739521A40dA34495252a28539A43cC8750\"\n"))
	assert.ErrorContains(t, err, "invalid chain rpc")

	_, err = Parse([]byte("[chain]\nrpc = \"http://localhost:8545\"\ncontract = \"0x1\"\n"))
	assert.ErrorContains(t, err, "invalid chain contract")

	_, err = Parse([]byte("[chain\n"))
	assert.ErrorContains(t, err, "parse configuration")
}
