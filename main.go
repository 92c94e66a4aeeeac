package main

import (
	"context"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/MixinNetwork/funmint/api"
	"github.com/MixinNetwork/funmint/chain"
	"github.com/MixinNetwork/funmint/config"
	"github.com/MixinNetwork/funmint/gallery"
	"github.com/MixinNetwork/funmint/ipfs"
	"github.com/MixinNetwork/funmint/store"
	"github.com/MixinNetwork/funmint/wizard"
	"github.com/MixinNetwork/mixin/logger"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

type app struct {
	conf    *config.Configuration
	db      *store.BadgerStore
	wallet  *chain.Wallet
	ipfs    *ipfs.Client
	wizard  *wizard.Wizard
	gallery *gallery.Reader
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd().ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var cp, bp string
	root := &cobra.Command{
		Use:          "funmint",
		Short:        "Upload an image to IPFS and mint it as an NFT",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cp, "config", "c", "~/.mixin/funmint/config.toml", "configuration file path")
	root.PersistentFlags().StringVarP(&bp, "dir", "d", "~/.mixin/funmint/data", "database directory path")

	run := func(fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context(), expandHome(cp), expandHome(bp))
			if err != nil {
				return err
			}
			defer a.db.Close()
			return fn(cmd, a, args)
		}
	}

	root.AddCommand(serveCmd(run), statusCmd(run), uploadCmd(run), mintCmd(run),
		startOverCmd(run), galleryCmd(run), tokenCmd(run))
	return root
}

func setup(ctx context.Context, cp, bp string) (*app, error) {
	conf, err := config.Setup(cp)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(conf.Log.Level)

	db, err := store.OpenBadger(ctx, bp)
	if err != nil {
		return nil, err
	}
	a := &app{conf: conf, db: db}
	err = a.build(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) build(ctx context.Context) error {
	a.wallet = chain.NewWallet(a.conf.Wallet.PrivateKey)
	if a.conf.Wallet.AutoConnect {
		account, err := a.wallet.Connect()
		if err != nil {
			return err
		}
		logger.Printf("wallet connected %s\n", account)
	}

	contract, err := chain.Dial(ctx, &a.conf.Chain, a.wallet)
	if err != nil {
		return err
	}
	a.ipfs = ipfs.NewClient(a.conf.IPFS.API, a.conf.IPFS.Gateway, a.conf.IPFS.Timeout)

	a.wizard, err = wizard.New(a.db, a.ipfs, contract, a.wallet)
	if err != nil {
		return err
	}
	a.gallery, err = gallery.NewReader(contract, a.ipfs, a.conf.Gallery.Concurrency, a.conf.Gallery.CacheSize)
	return err
}

func (a *app) server() *api.Server {
	gin.SetMode(gin.ReleaseMode)
	return api.NewServer(a.wizard, a.gallery, a.wallet, a.conf.IPFS.Gateway)
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		usr, _ := user.Current()
		return filepath.Join(usr.HomeDir, p[2:])
	}
	return p
}
