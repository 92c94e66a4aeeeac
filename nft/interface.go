package nft

import "context"

type Store interface {
	ReadDraft() (*Draft, error)
	WriteDraft(d *Draft) error
	DeleteDraft() error
}

type Storage interface {
	UploadBytes(ctx context.Context, name string, data []byte) (string, error)
	UploadJSON(ctx context.Context, v interface{}) (string, error)
}

type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, addr string) (*Metadata, error)
}

type Wallet interface {
	Account() (string, bool)
}

type Contract interface {
	TokenCounter(ctx context.Context) (uint64, error)
	TokenURI(ctx context.Context, id uint64) (string, error)
	OwnerOf(ctx context.Context, id uint64) (string, error)
	Mint(ctx context.Context, recipient, tokenURI string) (*Receipt, error)
}

type Receipt struct {
	TransactionHash string
	BlockNumber     uint64
}
