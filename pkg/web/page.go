package web

import (
	"html/template"
	"net/http"
	"regexp"
	"strings"
)

var LayoutTemplates = []string{
	"templates/pages/index.html",
	"templates/components/layout/*.html",
}

// ContentTemplates are shared by every page's Content template.
var ContentTemplates = []string{
	"templates/components/content/*.html",
}

var nonAlpha = regexp.MustCompile("[^a-zA-Z]+")

func NewPage(
	title, subTitle, path string,
	templates []string,
	breadCrumbs []BreadCrumb,
	data interface{},
) *Page {
	return &Page{
		Title:       title,
		SubTitle:    subTitle,
		MenuItems:   menuItems,
		Templates:   templates,
		Path:        path,
		Slug:        slugify(title),
		BreadCrumbs: breadCrumbs,
		Data:        data,
	}
}

type BreadCrumb struct {
	Title string
	Path  string
}

type Page struct {
	Title       string
	SubTitle    string
	MenuItems   []MenuItem
	Templates   []string
	Path        string
	Slug        string
	BreadCrumbs []BreadCrumb
	Data        interface{}
}

func (p *Page) Render(w http.ResponseWriter, r *http.Request) {
	// If HX-Request header is set, render content template only
	// If the page was loaded directly, render full layout
	if r.Header.Get("HX-Request") == "true" {
		p.render(w, "Content", concat(ContentTemplates, p.Templates))
	} else {
		p.render(w, "Layout", concat(LayoutTemplates, ContentTemplates, p.Templates))
	}
}

func (p *Page) render(w http.ResponseWriter, name string, templates []string) {
	tmpl, err := template.New(p.Title).Funcs(TemplateFuncs()).ParseFS(
		TemplatesFS,
		templates...,
	)
	if err != nil {
		log.Errorf("Failed to parse template: %s", err)
		http.Error(w, "Failed to parse template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = tmpl.ExecuteTemplate(w, name, p)
	if err != nil {
		log.Errorf("Failed to execute template: %s", err)
		http.Error(w, "Failed to execute template", http.StatusInternalServerError)
		return
	}
}

// slugify converts a string to an alpha-only lowercase string
func slugify(s string) string {
	return strings.ToLower(nonAlpha.ReplaceAllString(s, ""))
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
