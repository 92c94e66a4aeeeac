package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/MixinNetwork/funmint/gallery"
	"github.com/MixinNetwork/funmint/nft"
	"github.com/MixinNetwork/funmint/wizard"
	"github.com/MixinNetwork/mixin/logger"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const RequestIdHeader = "X-Request-Id"

type Wallet interface {
	nft.Wallet
	Connect() (string, error)
	Disconnect()
}

type Server struct {
	wizard  *wizard.Wizard
	gallery *gallery.Reader
	wallet  Wallet
	gateway string
	metrics *metrics
	router  *gin.Engine
}

func NewServer(w *wizard.Wizard, g *gallery.Reader, wallet Wallet, gateway string) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		wizard:  w,
		gallery: g,
		wallet:  wallet,
		gateway: gateway,
		metrics: newMetrics(reg),
		router:  gin.New(),
	}

	s.router.Use(gin.Recovery(), requestId(), s.metrics.middleware())
	s.router.GET("/wizard", s.getWizard)
	s.router.POST("/wizard/upload", s.upload)
	s.router.POST("/wizard/mint", s.mint)
	s.router.POST("/wizard/start-over", s.startOver)
	s.router.POST("/wizard/mint-again", s.mintAgain)
	s.router.GET("/wallet", s.getWallet)
	s.router.POST("/wallet/connect", s.connectWallet)
	s.router.POST("/wallet/disconnect", s.disconnectWallet)
	s.router.GET("/gallery", s.getGallery)
	s.router.GET("/nft/:number", s.getToken)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(ctx context.Context, listen string) error {
	srv := &http.Server{Addr: listen, Handler: s.router}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(sctx)
	}()

	logger.Printf("api.Run(%s)\n", listen)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func requestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIdHeader)
		if id == "" {
			id = uuid.Must(uuid.NewV4()).String()
		}
		c.Set("request_id", id)
		c.Header(RequestIdHeader, id)
		c.Next()
		logger.Verbosef("api %s %s %s %d\n", id, c.Request.Method, c.Request.URL.Path, c.Writer.Status())
	}
}

func (s *Server) getWizard(c *gin.Context) {
	st, err := s.wizard.State()
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.stateView(st))
}

func (s *Server) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		renderError(c, &nft.ValidationError{Fields: map[string]string{"file": "Please select an image!"}})
		return
	}
	f, err := fh.Open()
	if err != nil {
		renderError(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, nft.ImageMaxSize+1))
	if err != nil {
		renderError(c, err)
		return
	}

	img := &nft.Image{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}
	d, err := s.wizard.Upload(c.Request.Context(), img)
	s.metrics.stage("upload", err)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.draftView(d))
}

func (s *Server) mint(c *gin.Context) {
	var form nft.MintForm
	err := c.ShouldBindJSON(&form)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	r, err := s.wizard.Mint(c.Request.Context(), &form)
	s.metrics.stage("mint", err)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"trace_id":         r.TraceId,
		"recipient":        r.Recipient,
		"image":            r.Image,
		"image_url":        nft.GatewayURL(r.Image, s.gateway),
		"token_uri":        r.TokenURI,
		"transaction_hash": r.Receipt.TransactionHash,
		"block_number":     r.Receipt.BlockNumber,
	})
}

func (s *Server) startOver(c *gin.Context) {
	err := s.wizard.StartOver()
	if err != nil {
		renderError(c, err)
		return
	}
	s.getWizard(c)
}

func (s *Server) mintAgain(c *gin.Context) {
	err := s.wizard.MintAgain()
	if err != nil {
		renderError(c, err)
		return
	}
	s.getWizard(c)
}

func (s *Server) getWallet(c *gin.Context) {
	account, connected := s.wallet.Account()
	c.JSON(http.StatusOK, gin.H{"account": account, "connected": connected})
}

func (s *Server) connectWallet(c *gin.Context) {
	_, err := s.wallet.Connect()
	if err != nil {
		renderError(c, &nft.PreconditionError{Message: err.Error()})
		return
	}
	s.getWallet(c)
}

func (s *Server) disconnectWallet(c *gin.Context) {
	s.wallet.Disconnect()
	s.getWallet(c)
}

func (s *Server) getGallery(c *gin.Context) {
	page, err := s.gallery.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		logger.Printf("api.getGallery() => %v\n", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": messageGallery})
		return
	}
	s.metrics.holes.Add(float64(page.Failed))

	cards := make([]gin.H, 0)
	for _, card := range page.Visible() {
		cards = append(cards, s.cardView(card))
	}
	c.JSON(http.StatusOK, gin.H{
		"counter":   page.Counter,
		"failed":    page.Failed,
		"search":    page.Search,
		"not_found": page.NotFound,
		"cards":     cards,
	})
}

func (s *Server) getToken(c *gin.Context) {
	number, err := strconv.ParseUint(c.Param("number"), 10, 64)
	if err != nil {
		renderError(c, gallery.ErrTokenNotFound)
		return
	}
	card, err := s.gallery.Token(c.Request.Context(), number)
	if errors.Is(err, gallery.ErrTokenNotFound) {
		renderError(c, err)
		return
	}
	if err != nil {
		logger.Printf("api.getToken(%d) => %v\n", number, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": messageGallery})
		return
	}
	c.JSON(http.StatusOK, s.cardView(card))
}
