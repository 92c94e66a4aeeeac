package gallery

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/MixinNetwork/funmint/nft"
	"github.com/MixinNetwork/mixin/logger"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/errgroup"
)

var ErrTokenNotFound = errors.New("token not found")

type Card struct {
	TokenId  uint64
	Number   uint64
	ContentAddress string
	Owner    string
	Metadata *nft.Metadata
	Hidden   bool
}

// ExternalURL is empty unless the metadata carries a well formed URL.
func (c *Card) ExternalURL() string {
	if nft.IsValidURL(c.Metadata.ExternalURL) {
		return c.Metadata.ExternalURL
	}
	return ""
}

// Page slot i holds token Counter-1-i, a nil slot is a token that failed to
// load. Slots never move, the search filter only hides them.
type Page struct {
	Counter  uint64
	Cards    []*Card
	Failed   int
	Search   string
	NotFound bool
}

func (p *Page) Filter(search string) {
	visible := 0
	for _, c := range p.Cards {
		if c == nil {
			continue
		}
		c.Hidden = !c.Metadata.Matches(search)
		if !c.Hidden {
			visible++
		}
	}
	p.Search = search
	p.NotFound = search != "" && visible == 0
}

func (p *Page) Visible() []*Card {
	var cards []*Card
	for _, c := range p.Cards {
		if c != nil && !c.Hidden {
			cards = append(cards, c)
		}
	}
	return cards
}

type Reader struct {
	contract nft.Contract
	fetcher  nft.MetadataFetcher
	cache    *lru.Cache
	limit    int
}

func NewReader(contract nft.Contract, fetcher nft.MetadataFetcher, concurrency, cacheSize int) (*Reader, error) {
	if concurrency < 1 {
		return nil, fmt.Errorf("invalid gallery concurrency %d", concurrency)
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Reader{
		contract: contract,
		fetcher:  fetcher,
		cache:    cache,
		limit:    concurrency,
	}, nil
}

func (r *Reader) List(ctx context.Context, search string) (*Page, error) {
	counter, err := r.contract.TokenCounter(ctx)
	if err != nil {
		return nil, err
	}
	page := &Page{Counter: counter, Cards: make([]*Card, counter)}

	var failed int64
	var g errgroup.Group
	g.SetLimit(r.limit)
	for i := range page.Cards {
		i, id := i, counter-1-uint64(i)
		g.Go(func() error {
			card, err := r.readCard(ctx, id)
			if err != nil {
				atomic.AddInt64(&failed, 1)
				logger.Verbosef("gallery.readCard(%d) => %v\n", id, err)
				return nil
			}
			page.Cards[i] = card
			return nil
		})
	}
	g.Wait()

	page.Failed = int(failed)
	page.Filter(search)
	return page, nil
}

// Token looks a token up by its display number, which is the on chain id
// plus one.
func (r *Reader) Token(ctx context.Context, number uint64) (*Card, error) {
	if number == 0 {
		return nil, ErrTokenNotFound
	}
	counter, err := r.contract.TokenCounter(ctx)
	if err != nil {
		return nil, err
	}
	if number > counter {
		return nil, ErrTokenNotFound
	}
	return r.readCard(ctx, number-1)
}

func (r *Reader) readCard(ctx context.Context, id uint64) (*Card, error) {
	uri, err := r.contract.TokenURI(ctx, id)
	if err != nil {
		return nil, err
	}
	if !nft.IsContentAddress(uri) {
		return nil, fmt.Errorf("invalid token uri %q", uri)
	}
	meta, err := r.readMetadata(ctx, uri)
	if err != nil {
		return nil, err
	}
	owner, err := r.contract.OwnerOf(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Card{
		TokenId:  id,
		Number:   id + 1,
		ContentAddress: uri,
		Owner:    owner,
		Metadata: meta,
	}, nil
}

func (r *Reader) readMetadata(ctx context.Context, uri string) (*nft.Metadata, error) {
	if v, found := r.cache.Get(uri); found {
		return v.(*nft.Metadata), nil
	}
	meta, err := r.fetcher.FetchMetadata(ctx, uri)
	if err != nil {
		return nil, err
	}
	r.cache.Add(uri, meta)
	return meta, nil
}
