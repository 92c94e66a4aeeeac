package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/crypto"
)

var ErrWalletDisconnected = errors.New("wallet is not connected")

// Wallet is the operator account that signs mint transactions.
type Wallet struct {
	sync.RWMutex
	secret string
	key    *ecdsa.PrivateKey
}

func NewWallet(secret string) *Wallet {
	return &Wallet{secret: strings.TrimPrefix(strings.TrimSpace(secret), "0x")}
}

func (w *Wallet) Connect() (string, error) {
	w.Lock()
	defer w.Unlock()

	if w.key != nil {
		return crypto.PubkeyToAddress(w.key.PublicKey).Hex(), nil
	}
	if w.secret == "" {
		return "", fmt.Errorf("wallet private key not configured")
	}
	key, err := crypto.HexToECDSA(w.secret)
	if err != nil {
		return "", fmt.Errorf("invalid wallet private key: %w", err)
	}
	w.key = key
	return crypto.PubkeyToAddress(key.PublicKey).Hex(), nil
}

func (w *Wallet) Disconnect() {
	w.Lock()
	defer w.Unlock()
	w.key = nil
}

func (w *Wallet) Account() (string, bool) {
	w.RLock()
	defer w.RUnlock()

	if w.key == nil {
		return "", false
	}
	return crypto.PubkeyToAddress(w.key.PublicKey).Hex(), true
}

func (w *Wallet) transactor(ctx context.Context, chainId *big.Int) (*bind.TransactOpts, error) {
	w.RLock()
	defer w.RUnlock()

	if w.key == nil {
		return nil, ErrWalletDisconnected
	}
	opts, err := bind.NewKeyedTransactorWithChainID(w.key, chainId)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	return opts, nil
}
