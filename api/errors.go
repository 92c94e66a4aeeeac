package api

import (
	"errors"
	"net/http"

	"github.com/MixinNetwork/funmint/gallery"
	"github.com/MixinNetwork/funmint/nft"
	"github.com/MixinNetwork/mixin/logger"
	"github.com/gin-gonic/gin"
)

const (
	messageInternal = "Internal server error."
	messageGallery  = "Failed to load the gallery. Please try again later."
)

func outcome(err error) string {
	var ve *nft.ValidationError
	var pe *nft.PreconditionError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &ve):
		return "invalid"
	case errors.As(err, &pe):
		return "rejected"
	default:
		return "failed"
	}
}

func renderError(c *gin.Context, err error) {
	var ve *nft.ValidationError
	var pe *nft.PreconditionError
	var ce *nft.CollaboratorError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "fields": ve.Fields})
	case errors.As(err, &pe):
		c.JSON(http.StatusConflict, gin.H{"error": pe.Message})
	case errors.As(err, &ce):
		logger.Printf("api %s %s %v\n", c.Request.Method, c.FullPath(), ce)
		c.JSON(http.StatusBadGateway, gin.H{"error": ce.Message})
	case errors.Is(err, gallery.ErrTokenNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Printf("api %s %s %v\n", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": messageInternal})
	}
}
