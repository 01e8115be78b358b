package endpoints

import (
	"errors"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/dataset"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/http/api"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/storage"
)

type AssetController struct {
	store storage.Storage
}

// AssetModule serves the manifest descriptor, the dataset, icons and shell scripts.
func AssetModule(store storage.Storage) api.Module {
	ctl := &AssetController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.Handle(http.MethodGet, "/manifest.json", ctl.serveFile("manifest.json"))
		c.Handle(http.MethodGet, "/"+dataset.Path, ctl.serveFile(dataset.Path))
		c.Handle(http.MethodGet, "/icons/*filepath", ctl.serveDir("icons"))
		c.Handle(http.MethodGet, "/static/*filepath", ctl.serveDir("static"))
	})
}

func (a *AssetController) serveFile(name string) gin.HandlerFunc {
	return func(ctx *gin.Context) { a.serve(ctx, name) }
}

func (a *AssetController) serveDir(dir string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		a.serve(ctx, path.Join(dir, ctx.Param("filepath")))
	}
}

func (a *AssetController) serve(ctx *gin.Context, name string) {
	asset, err := a.store.Open(ctx.Request.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
			return
		}
		log.Error().Err(err).Str("asset", name).Msg("failed to open asset")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read asset"})
		return
	}
	defer asset.Body.Close()

	headers := map[string]string{"Cache-Control": "no-cache"}
	if !asset.ModTime.IsZero() {
		headers["Last-Modified"] = asset.ModTime.UTC().Format(http.TimeFormat)
	}
	ctx.DataFromReader(http.StatusOK, asset.Size, asset.ContentType, asset.Body, headers)
}
