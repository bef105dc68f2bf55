// Package views renders the dashboard pages from embedded html templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/odensebartech/dashboard/pkg"

	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	PageLogin        = "login"
	PageRecipes      = "recipes"
	PageRecipeNew    = "recipe_new"
	PageRecipeDetail = "recipe_detail"
	PageIngredients  = "ingredients"
	PageUsers        = "users"
	PageActivity     = "activity"
)

var pageNames = []string{
	PageLogin,
	PageRecipes,
	PageRecipeNew,
	PageRecipeDetail,
	PageIngredients,
	PageUsers,
	PageActivity,
}

var templateFuncs = template.FuncMap{
	"join": strings.Join,
}

// Renderer holds one template set per page, each a clone of the layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templatesFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		pageTmpl, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := pageTmpl.ParseFS(templatesFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = pageTmpl
	}

	return &Renderer{pages: pages}, nil
}

func (rd *Renderer) Render(w http.ResponseWriter, status int, name string, page *Page) {
	pageTmpl, ok := rd.pages[name]
	if !ok {
		log.Errorf("render: unknown page %s", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := pageTmpl.ExecuteTemplate(&buf, "layout.html", page); err != nil {
		log.Errorf("render page %s: %s", name, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.HTML, buf.Bytes(), status)
}
