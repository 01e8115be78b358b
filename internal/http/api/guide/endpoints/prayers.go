package endpoints

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/http/api"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/http/api/guide/packets"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/model"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/navigation"
)

type GuideController struct {
	dataset model.Dataset
}

func newGuideController(ds model.Dataset) *GuideController {
	return &GuideController{dataset: ds}
}

// PrayerModule mounts the read-only dataset API and the navigation reducer.
func PrayerModule(ds model.Dataset) api.Module {
	ctl := newGuideController(ds)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/prayers", ctl.listPrayers)
		c.GET("/prayers/:id", ctl.getPrayer)
		c.POST("/navigation", ctl.navigate)
	})
}

func summarize(i int, p model.Prayer) packets.PrayerSummary {
	return packets.PrayerSummary{
		Index:         i,
		ID:            p.ID,
		Title:         p.Title,
		Category:      string(p.Category),
		CategoryLabel: p.Category.Label(),
		Preview:       p.Preview(),
		Versions:      len(p.Versions),
	}
}

func versionResponse(j int, v model.PrayerVersion) packets.VersionResponse {
	return packets.VersionResponse{
		Index:           j,
		Name:            v.Name,
		Arabic:          v.Arabic,
		Transliteration: v.Transliteration,
		Translation:     v.Translation,
	}
}

func position(i, n int) string {
	return fmt.Sprintf("%d dari %d", i+1, n)
}

// GET /api/prayers
func (g *GuideController) listPrayers(ctx *gin.Context) (any, *api.APIError) {
	out := make([]packets.PrayerSummary, 0, g.dataset.Len())
	for i, p := range g.dataset.Prayers {
		out = append(out, summarize(i, p))
	}
	return out, nil
}

// GET /api/prayers/:id
func (g *GuideController) getPrayer(ctx *gin.Context) (any, *api.APIError) {
	p, i, ok := g.dataset.Find(ctx.Param("id"))
	if !ok {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "prayer not found"}
	}

	versions := make([]packets.VersionResponse, 0, len(p.Versions))
	for j, v := range p.Versions {
		versions = append(versions, versionResponse(j, v))
	}
	return packets.PrayerResponse{
		Index:         i,
		ID:            p.ID,
		Title:         p.Title,
		Category:      string(p.Category),
		CategoryLabel: p.Category.Label(),
		Versions:      versions,
	}, nil
}

// POST /api/navigation
func (g *GuideController) navigate(ctx *gin.Context) (any, *api.APIError) {
	var request packets.NavigationRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	mode, err := navigation.ParseMode(request.State.Mode)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	state, err := navigation.Restore(g.dataset, request.State.Prayer, request.State.Version, mode)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid state: " + err.Error()}
	}

	kind, err := navigation.ParseKind(request.Action.Type)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	action := navigation.Action{Kind: kind}
	if kind == navigation.KindSelectPrayer || kind == navigation.KindSelectVersion {
		if request.Action.Index == nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: kind.String() + " requires an index"}
		}
		action.Index = *request.Action.Index
	}

	next, err := navigation.Reduce(g.dataset, state, action)
	if err != nil {
		if errors.Is(err, navigation.ErrOutOfRange) {
			return nil, &api.APIError{Code: http.StatusUnprocessableEntity, Message: err.Error()}
		}
		log.Error().Err(err).Str("action", kind.String()).Msg("navigation failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "navigation failed"}
	}

	p := g.dataset.Prayers[next.Prayer()]
	return packets.NavigationResponse{
		State: packets.StatePacket{
			Prayer:  next.Prayer(),
			Version: next.Version(),
			Mode:    next.Mode().String(),
		},
		Position: position(next.Prayer(), g.dataset.Len()),
		Prayer:   summarize(next.Prayer(), p),
		Version:  versionResponse(next.Version(), p.Versions[next.Version()]),
	}, nil
}
