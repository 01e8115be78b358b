package endpoints

import (
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/http/api"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/http/api/guide/packets"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/model"
)

func HealthModule(ds model.Dataset) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/healthz", func(ctx *gin.Context) (any, *api.APIError) {
			return packets.HealthResponse{Status: "ok", Prayers: ds.Len()}, nil
		})
	})
}
