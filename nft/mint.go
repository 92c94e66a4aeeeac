package nft

import "time"

const (
	DraftPropertyKey = "unfinished_ipfs_url"
	ImageMaxSize     = 1024 * 1024 * 20
)

// Draft is an uploaded image that has not been minted yet.
type Draft struct {
	ContentAddress string
	Digest         string
	UploadedAt     time.Time
}

func (d *Draft) Valid() bool {
	return d != nil && IsContentAddress(d.ContentAddress)
}
