package main

import (
	"html/template"

	guideapi "github.com/Nixie-Tech-LLC/panduan-shalat/internal/http/api/guide/endpoints"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/web"
)

// LoadTemplates parses the embedded shell templates
func LoadTemplates() (*template.Template, error) {
	return web.Templates(guideapi.TemplateFuncs())
}
