package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MixinNetwork/funmint/nft"
	"github.com/spf13/cobra"
)

type runner func(fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error

func serveCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the minting wizard and gallery over HTTP",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *app, args []string) error {
			return a.server().Run(cmd.Context(), a.conf.HTTP.Listen)
		}),
	}
}

func statusCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the wizard step, the unfinished upload and the wallet",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *app, args []string) error {
			st, err := a.wizard.State()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "step:\t%s\n", st.Step)
			if st.Draft != nil {
				fmt.Fprintf(out, "draft:\t%s\n", st.Draft.ContentAddress)
				fmt.Fprintf(out, "preview:\t%s\n", a.ipfs.GatewayURL(st.Draft.ContentAddress))
				fmt.Fprintf(out, "digest:\t%s\n", st.Draft.Digest)
			}
			account, connected := a.wallet.Account()
			if !connected {
				account = "not connected"
			}
			fmt.Fprintf(out, "wallet:\t%s\n", account)
			return nil
		}),
	}
}

func uploadCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload an image to IPFS and remember it for minting",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, a *app, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			img := &nft.Image{
				Name:        filepath.Base(args[0]),
				ContentType: mime.TypeByExtension(filepath.Ext(args[0])),
				Data:        data,
			}
			d, err := a.wizard.Upload(cmd.Context(), img)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", d.ContentAddress, a.ipfs.GatewayURL(d.ContentAddress))
			return nil
		}),
	}
}

func mintCmd(run runner) *cobra.Command {
	var form nft.MintForm
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint the uploaded image with a name and description",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *app, args []string) error {
			r, err := a.wizard.Mint(cmd.Context(), &form)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "trace:\t%s\n", r.TraceId)
			fmt.Fprintf(out, "owner:\t%s\n", r.Recipient)
			fmt.Fprintf(out, "token:\t%s\n", r.TokenURI)
			fmt.Fprintf(out, "image:\t%s\n", a.ipfs.GatewayURL(r.Image))
			fmt.Fprintf(out, "tx:\t%s (block %d)\n", r.Receipt.TransactionHash, r.Receipt.BlockNumber)
			return nil
		}),
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "token name")
	cmd.Flags().StringVar(&form.Description, "description", "", "token description")
	cmd.Flags().StringVar(&form.ExternalURL, "external-url", "", "optional link shown with the token")
	return cmd
}

func startOverCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "start-over",
		Short: "Forget the unfinished upload",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *app, args []string) error {
			return a.wizard.StartOver()
		}),
	}
}

func galleryCmd(run runner) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "List minted tokens, newest first",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *app, args []string) error {
			page, err := a.gallery.List(cmd.Context(), search)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, c := range page.Visible() {
				fmt.Fprintf(out, "#%d\t%s\t%s\t%s\n", c.Number, c.Metadata.Name, c.Owner, a.ipfs.GatewayURL(c.Metadata.Image))
			}
			if page.NotFound {
				fmt.Fprintf(out, "no token matches %q\n", search)
			}
			if page.Failed > 0 {
				fmt.Fprintf(out, "%d of %d tokens failed to load\n", page.Failed, page.Counter)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&search, "search", "", "filter tokens by name")
	return cmd
}

func tokenCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "token N",
		Short: "Show a token by its gallery number",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, a *app, args []string) error {
			number, err := strconv.ParseUint(strings.TrimPrefix(args[0], "#"), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid token number %s", args[0])
			}
			c, err := a.gallery.Token(cmd.Context(), number)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "number:\t%d\n", c.Number)
			fmt.Fprintf(out, "name:\t%s\n", c.Metadata.Name)
			fmt.Fprintf(out, "description:\t%s\n", c.Metadata.Description)
			fmt.Fprintf(out, "owner:\t%s\n", c.Owner)
			fmt.Fprintf(out, "image:\t%s\n", a.ipfs.GatewayURL(c.Metadata.Image))
			if u := c.ExternalURL(); u != "" {
				fmt.Fprintf(out, "link:\t%s\n", u)
			}
			return nil
		}),
	}
}
