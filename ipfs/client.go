package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MixinNetwork/funmint/nft"
	"github.com/MixinNetwork/mixin/logger"
	"github.com/go-resty/resty/v2"
	"github.com/ipfs/go-cid"
)

// Client uploads through the IPFS HTTP API and reads back through a gateway.
type Client struct {
	api     *resty.Client
	gateway *resty.Client
	prefix  string
}

type addResponse struct {
	Name string `json:"Name"`
	Hash string `json:"Hash"`
	Size string `json:"Size"`
}

func NewClient(api, gateway string, timeout time.Duration) *Client {
	if gateway == "" {
		gateway = nft.DefaultGateway
	}
	return &Client{
		api:     resty.New().SetBaseURL(strings.TrimRight(api, "/")).SetTimeout(timeout),
		gateway: resty.New().SetTimeout(timeout),
		prefix:  gateway,
	}
}

func (c *Client) UploadBytes(ctx context.Context, name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty upload %s", name)
	}
	resp, err := c.api.R().
		SetContext(ctx).
		SetQueryParam("pin", "true").
		SetQueryParam("cid-version", "1").
		SetFileReader("file", name, bytes.NewReader(data)).
		Post("/api/v0/add")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("ipfs add %s status %d %s", name, resp.StatusCode(), resp.String())
	}
	var out addResponse
	err = json.Unmarshal(resp.Body(), &out)
	if err != nil {
		return "", fmt.Errorf("ipfs add %s decode %w", name, err)
	}
	id, err := cid.Decode(out.Hash)
	if err != nil {
		return "", fmt.Errorf("ipfs add %s hash %q %w", name, out.Hash, err)
	}
	logger.Verbosef("ipfs.UploadBytes(%s, %d) => %s\n", name, len(data), id)
	return nft.ContentScheme + id.String(), nil
}

func (c *Client) UploadJSON(ctx context.Context, v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return c.UploadBytes(ctx, "metadata.json", data)
}

func (c *Client) GatewayURL(addr string) string {
	return nft.GatewayURL(addr, c.prefix)
}

func (c *Client) FetchMetadata(ctx context.Context, addr string) (*nft.Metadata, error) {
	if !nft.IsContentAddress(addr) {
		return nil, fmt.Errorf("invalid content address %q", addr)
	}
	resp, err := c.gateway.R().SetContext(ctx).Get(c.GatewayURL(addr))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ipfs fetch %s status %d", addr, resp.StatusCode())
	}
	var m nft.Metadata
	err = json.Unmarshal(resp.Body(), &m)
	if err != nil {
		return nil, fmt.Errorf("ipfs fetch %s decode %w", addr, err)
	}
	return &m, nil
}
