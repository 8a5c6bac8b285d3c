// Package views renders the public HTML pages of shared recommendations.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"unicode"

	"github.com/asimmons-coder/internal-coach-matching/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// ContentSecurityPolicy allows inline styles and remote coach photos only.
const ContentSecurityPolicy = "default-src 'none'; style-src 'unsafe-inline'; img-src https: data:; base-uri 'none'; form-action 'none'; frame-ancestors 'none'"

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"initials":  initials,
	"firstName": firstName,
}).ParseFS(templateFS, "templates/*.html"))

type sharePageData struct {
	Coaches []models.SharedCoach
}

// RenderShare renders the coaches of a shared recommendation in their stored
// order. The request summary stays internal and is not shown.
func RenderShare(share *models.SharedRecommendation) ([]byte, error) {
	if share == nil {
		return nil, fmt.Errorf("render share page: nil share")
	}

	var body bytes.Buffer
	if err := pages.ExecuteTemplate(&body, "share.html", sharePageData{Coaches: share.Recommendations}); err != nil {
		return nil, fmt.Errorf("render share page: %w", err)
	}
	return body.Bytes(), nil
}

func RenderNotFound() ([]byte, error) {
	var body bytes.Buffer
	if err := pages.ExecuteTemplate(&body, "not_found.html", nil); err != nil {
		return nil, fmt.Errorf("render not found page: %w", err)
	}
	return body.Bytes(), nil
}

func initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		for _, r := range part {
			b.WriteRune(unicode.ToUpper(r))
			break
		}
	}
	return b.String()
}

func firstName(coach models.SharedCoach) string {
	if coach.FirstName != "" {
		return coach.FirstName
	}
	first, _, _ := strings.Cut(strings.TrimSpace(coach.Name), " ")
	return first
}
