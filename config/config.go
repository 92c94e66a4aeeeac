package config

import (
	"fmt"
	"os"
	"time"

	"github.com/MixinNetwork/funmint/nft"
	"github.com/pelletier/go-toml"
)

type Configuration struct {
	Log     LogConfig     `toml:"log"`
	HTTP    HTTPConfig    `toml:"http"`
	Chain   ChainConfig   `toml:"chain"`
	Wallet  WalletConfig  `toml:"wallet"`
	IPFS    IPFSConfig    `toml:"ipfs"`
	Gallery GalleryConfig `toml:"gallery"`
}

type LogConfig struct {
	Level int `toml:"level"`
}

type HTTPConfig struct {
	Listen string `toml:"listen"`
}

type ChainConfig struct {
	RPC         string        `toml:"rpc"`
	ChainId     int64         `toml:"chain_id"`
	Contract    string        `toml:"contract"`
	MintPrice   string        `toml:"mint_price"`
	WaitTimeout time.Duration `toml:"wait_timeout"`
}

type WalletConfig struct {
	PrivateKey  string `toml:"private_key"`
	AutoConnect bool   `toml:"auto_connect"`
}

type IPFSConfig struct {
	API     string        `toml:"api"`
	Gateway string        `toml:"gateway"`
	Timeout time.Duration `toml:"timeout"`
}

type GalleryConfig struct {
	Concurrency int `toml:"concurrency"`
	CacheSize   int `toml:"cache_size"`
}

func Setup(path string) (*Configuration, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(f)
}

func Parse(data []byte) (*Configuration, error) {
	var conf Configuration
	err := toml.Unmarshal(data, &conf)
	if err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	conf.setDefaults()
	err = conf.validate()
	if err != nil {
		return nil, err
	}
	return &conf, nil
}

func (conf *Configuration) setDefaults() {
	if conf.Log.Level == 0 {
		conf.Log.Level = 2
	}
	if conf.HTTP.Listen == "" {
		conf.HTTP.Listen = ":7001"
	}
	if conf.Chain.ChainId == 0 {
		conf.Chain.ChainId = 50312
	}
	if conf.Chain.MintPrice == "" {
		conf.Chain.MintPrice = "0"
	}
	if conf.Chain.WaitTimeout == 0 {
		conf.Chain.WaitTimeout = 2 * time.Minute
	}
	if conf.IPFS.API == "" {
		conf.IPFS.API = "http://127.0.0.1:5001"
	}
	if conf.IPFS.Gateway == "" {
		conf.IPFS.Gateway = nft.DefaultGateway
	}
	if conf.IPFS.Timeout == 0 {
		conf.IPFS.Timeout = 30 * time.Second
	}
	if conf.Gallery.Concurrency < 1 {
		conf.Gallery.Concurrency = 8
	}
	if conf.Gallery.CacheSize < 1 {
		conf.Gallery.CacheSize = 1024
	}
}

func (conf *Configuration) validate() error {
	if conf.Chain.RPC == "" {
		return fmt.Errorf("invalid chain rpc %q", conf.Chain.RPC)
	}
	if len(conf.Chain.Contract) != 42 {
		return fmt.Errorf("invalid chain contract %q", conf.Chain.Contract)
	}
	if conf.Chain.ChainId < 1 {
		return fmt.Errorf("invalid chain id %d", conf.Chain.ChainId)
	}
	return nil
}
