package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/MixinNetwork/funmint/config"
	"github.com/MixinNetwork/funmint/nft"
	"github.com/MixinNetwork/mixin/logger"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client binds the minting collection contract. Reads are plain eth_call,
// mints are signed by the wallet and awaited until mined.
type Client struct {
	backend  bind.DeployBackend
	contract *bind.BoundContract
	address  common.Address
	chainId  *big.Int
	price    *big.Int
	timeout  time.Duration
	wallet   *Wallet
}

func Dial(ctx context.Context, conf *config.ChainConfig, wallet *Wallet) (*Client, error) {
	if !common.IsHexAddress(conf.Contract) {
		return nil, fmt.Errorf("invalid contract address %s", conf.Contract)
	}
	price, err := ParsePrice(conf.MintPrice)
	if err != nil {
		return nil, err
	}
	eth, err := ethclient.DialContext(ctx, conf.RPC)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", conf.RPC, err)
	}
	id, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("chain id %s: %w", conf.RPC, err)
	}
	if id.Int64() != conf.ChainId {
		eth.Close()
		return nil, fmt.Errorf("chain id mismatch %d %d", id.Int64(), conf.ChainId)
	}

	c, err := newClient(common.HexToAddress(conf.Contract), eth, eth, eth, wallet)
	if err != nil {
		eth.Close()
		return nil, err
	}
	c.chainId = id
	c.price = price
	c.timeout = conf.WaitTimeout
	return c, nil
}

func newClient(address common.Address, backend bind.DeployBackend, caller bind.ContractCaller, transactor bind.ContractTransactor, wallet *Wallet) (*Client, error) {
	parsed, err := abi.JSON(strings.NewReader(collectionABI))
	if err != nil {
		return nil, err
	}
	return &Client{
		backend:  backend,
		contract: bind.NewBoundContract(address, parsed, caller, transactor, nil),
		address:  address,
		chainId:  big.NewInt(0),
		price:    big.NewInt(0),
		timeout:  2 * time.Minute,
		wallet:   wallet,
	}, nil
}

func (c *Client) Address() string {
	return c.address.Hex()
}

func (c *Client) TokenCounter(ctx context.Context) (uint64, error) {
	out, err := c.call(ctx, "_tokenIdCounter")
	if err != nil {
		return 0, err
	}
	n := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	if !n.IsUint64() {
		return 0, fmt.Errorf("invalid token counter %s", n)
	}
	return n.Uint64(), nil
}

func (c *Client) TokenURI(ctx context.Context, id uint64) (string, error) {
	out, err := c.call(ctx, "tokenURI", new(big.Int).SetUint64(id))
	if err != nil {
		return "", err
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

func (c *Client) OwnerOf(ctx context.Context, id uint64) (string, error) {
	out, err := c.call(ctx, "ownerOf", new(big.Int).SetUint64(id))
	if err != nil {
		return "", err
	}
	owner := *abi.ConvertType(out[0], new(common.Address)).(*common.Address)
	return owner.Hex(), nil
}

func (c *Client) Mint(ctx context.Context, recipient, tokenURI string) (*nft.Receipt, error) {
	if !common.IsHexAddress(recipient) {
		return nil, fmt.Errorf("invalid recipient %s", recipient)
	}
	opts, err := c.wallet.transactor(ctx, c.chainId)
	if err != nil {
		return nil, err
	}
	opts.Value = new(big.Int).Set(c.price)
	tx, err := c.contract.Transact(opts, "mintNFT", common.HexToAddress(recipient), tokenURI)
	if err != nil {
		return nil, err
	}
	logger.Printf("chain.Mint(%s, %s) => %s\n", recipient, tokenURI, tx.Hash().Hex())

	wctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	receipt, err := bind.WaitMined(wctx, c.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("wait mined %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("mint transaction %s reverted", tx.Hash().Hex())
	}
	return &nft.Receipt{
		TransactionHash: receipt.TxHash.Hex(),
		BlockNumber:     receipt.BlockNumber.Uint64(),
	}, nil
}

func (c *Client) call(ctx context.Context, method string, params ...interface{}) ([]interface{}, error) {
	var out []interface{}
	err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, params...)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("call %s: empty output", method)
	}
	return out, nil
}
