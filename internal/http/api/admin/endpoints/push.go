package endpoints

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/http/api"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/http/api/admin/packets"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/push"
)

type PushController struct {
	publisher push.Publisher
}

// PushModule mounts the operator-only push endpoint. It expects JWTMiddleware on the group.
func PushModule(publisher push.Publisher) api.Module {
	ctl := &PushController{publisher: publisher}
	return api.ModuleFunc(func(c *api.Controller) {
		c.Handle(http.MethodPost, "/push", api.ResolveEndpointWithOperator(http.StatusAccepted, ctl.sendPush))
	})
}

// POST /api/admin/push
// The raw request body is the payload, delivered unchanged to every publisher.
func (p *PushController) sendPush(ctx *gin.Context, operator string) (any, *api.APIError) {
	payload, err := io.ReadAll(http.MaxBytesReader(ctx.Writer, ctx.Request.Body, packets.MaxPushPayload))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusRequestEntityTooLarge, Message: "payload too large"}
	}

	if err := p.publisher.Publish(ctx.Request.Context(), payload); err != nil {
		log.Error().Err(err).Str("operator", operator).Msg("push publish failed")
		return nil, &api.APIError{Code: http.StatusBadGateway, Message: "failed to publish push payload"}
	}

	log.Info().Str("operator", operator).Int("bytes", len(payload)).Msg("push payload published")
	return packets.PushResponse{
		Status:   "accepted",
		Operator: operator,
		Body:     push.FromPayload(payload).Body,
	}, nil
}
