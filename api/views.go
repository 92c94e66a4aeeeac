package api

import (
	"strings"

	"github.com/MixinNetwork/funmint/gallery"
	"github.com/MixinNetwork/funmint/nft"
	"github.com/MixinNetwork/funmint/wizard"
	"github.com/gin-gonic/gin"
)

func (s *Server) stateView(st *wizard.State) gin.H {
	view := gin.H{
		"step":   strings.ToLower(st.Step.String()),
		"busy":   st.Busy,
		"draft":  nil,
		"minted": nil,
	}
	if st.Draft != nil {
		view["draft"] = s.draftView(st.Draft)
	}
	if st.Minted != "" {
		view["minted"] = gin.H{
			"image":     st.Minted,
			"image_url": nft.GatewayURL(st.Minted, s.gateway),
		}
	}
	return view
}

func (s *Server) draftView(d *nft.Draft) gin.H {
	return gin.H{
		"image":       d.ContentAddress,
		"image_url":   nft.GatewayURL(d.ContentAddress, s.gateway),
		"digest":      d.Digest,
		"uploaded_at": d.UploadedAt,
	}
}

func (s *Server) cardView(c *gallery.Card) gin.H {
	return gin.H{
		"token_id":     c.TokenId,
		"number":       c.Number,
		"token_uri":    c.ContentAddress,
		"owner":        c.Owner,
		"name":         c.Metadata.Name,
		"description":  c.Metadata.Description,
		"image":        c.Metadata.Image,
		"image_url":    nft.GatewayURL(c.Metadata.Image, s.gateway),
		"external_url": c.ExternalURL(),
	}
}
