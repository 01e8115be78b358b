package endpoints

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/http/api"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/model"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/navigation"
)

const (
	appTitle    = "Panduan Shalat"
	appSubtitle = "Bacaan dan doa dalam shalat wajib"
)

// TemplateFuncs are the helpers the shell templates rely on.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}
}

type overviewItem struct {
	Href          string
	Title         string
	CategoryLabel string
	Color         string
	Preview       string
	Current       bool
}

type versionTab struct {
	Href   string
	Name   string
	Active bool
}

type shellPage struct {
	Title    string
	Subtitle string

	Items []overviewItem

	Prayer        model.Prayer
	Version       model.PrayerVersion
	CategoryLabel string
	Color         string
	Position      string
	Back          string
	Previous      string
	Next          string
	Tabs          []versionTab
	Dots          []bool
}

type ShellController struct {
	dataset model.Dataset
}

// ShellModule renders the application shell. The view state travels in the query
// string and every link is the reducer applied to the current state.
func ShellModule(ds model.Dataset) api.Module {
	ctl := &ShellController{dataset: ds}
	return api.ModuleFunc(func(c *api.Controller) {
		c.Handle(http.MethodGet, "/", ctl.render)
	})
}

func stateHref(s navigation.State) string {
	if s.Mode() == navigation.Overview && s.Prayer() == 0 && s.Version() == 0 {
		return "/"
	}
	q := url.Values{}
	q.Set("mode", s.Mode().String())
	q.Set("prayer", strconv.Itoa(s.Prayer()))
	q.Set("version", strconv.Itoa(s.Version()))
	return "/?" + q.Encode()
}

func (sc *ShellController) link(s navigation.State, a navigation.Action) string {
	next, err := navigation.Reduce(sc.dataset, s, a)
	if err != nil {
		return stateHref(s)
	}
	return stateHref(next)
}

func (sc *ShellController) restore(ctx *gin.Context) (navigation.State, error) {
	mode, err := navigation.ParseMode(ctx.Query("mode"))
	if err != nil {
		return navigation.State{}, err
	}
	prayer, err := strconv.Atoi(ctx.DefaultQuery("prayer", "0"))
	if err != nil {
		return navigation.State{}, err
	}
	version, err := strconv.Atoi(ctx.DefaultQuery("version", "0"))
	if err != nil {
		return navigation.State{}, err
	}
	return navigation.Restore(sc.dataset, prayer, version, mode)
}

// GET /
func (sc *ShellController) render(ctx *gin.Context) {
	state, err := sc.restore(ctx)
	if err != nil {
		log.Debug().Err(err).Str("query", ctx.Request.URL.RawQuery).Msg("rejected view state, redirecting to overview")
		ctx.Redirect(http.StatusFound, "/")
		return
	}

	page := shellPage{Title: appTitle, Subtitle: appSubtitle}

	if state.Mode() == navigation.Overview {
		page.Items = make([]overviewItem, 0, sc.dataset.Len())
		for i, p := range sc.dataset.Prayers {
			page.Items = append(page.Items, overviewItem{
				Href:          sc.link(state, navigation.SelectPrayer(i)),
				Title:         p.Title,
				CategoryLabel: p.Category.Label(),
				Color:         p.Category.Color(),
				Preview:       p.Preview(),
				Current:       i == state.Prayer(),
			})
		}
		ctx.HTML(http.StatusOK, "overview.html", page)
		return
	}

	p := sc.dataset.Prayers[state.Prayer()]
	page.Prayer = p
	page.Version = p.Versions[state.Version()]
	page.CategoryLabel = p.Category.Label()
	page.Color = p.Category.Color()
	page.Position = position(state.Prayer(), sc.dataset.Len())
	page.Back = sc.link(state, navigation.ShowOverview())
	page.Previous = sc.link(state, navigation.PreviousPrayer())
	page.Next = sc.link(state, navigation.NextPrayer())

	if len(p.Versions) > 1 {
		for j, v := range p.Versions {
			page.Tabs = append(page.Tabs, versionTab{
				Href:   sc.link(state, navigation.SelectVersion(j)),
				Name:   v.Name,
				Active: j == state.Version(),
			})
		}
	}

	page.Dots = make([]bool, sc.dataset.Len())
	page.Dots[state.Prayer()] = true

	ctx.HTML(http.StatusOK, "detail.html", page)
}
