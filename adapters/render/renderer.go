package render

import (
	"embed"
	"strconv"
	"strings"
	"time"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-portfolio/portfolio"
)

// ContainerID identifies the capture region inside a rendered document. The
// export pipeline stages exactly this element.
const ContainerID = "portfolio-render"

//go:embed templates/*.html
var templateFS embed.FS

// Renderer produces the portfolio HTML document and the interactive pages
// around it from embedded templates.
type Renderer struct {
	content  *pongo2.Template
	document *pongo2.Template
	index    *pongo2.Template
	preview  *pongo2.Template
}

// New loads the embedded template set. Template errors are programmer errors
// and panic at startup.
func New() *Renderer {
	return &Renderer{
		content:  mustTemplate("templates/content.html"),
		document: mustTemplate("templates/document.html"),
		index:    mustTemplate("templates/index.html"),
		preview:  mustTemplate("templates/preview.html"),
	}
}

func mustTemplate(name string) *pongo2.Template {
	data, err := templateFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return pongo2.Must(pongo2.FromBytes(data))
}

// Document renders the full standalone HTML document for PDF capture.
func (r *Renderer) Document(res portfolio.Result) ([]byte, error) {
	content, err := r.renderContent(res)
	if err != nil {
		return nil, err
	}
	return r.document.ExecuteBytes(pongo2.Context{
		"title":   res.Profile.Login + " portfolio",
		"content": content,
	})
}

// IndexPage renders the search page; errMsg is shown above the form when
// non-empty.
func (r *Renderer) IndexPage(errMsg string) ([]byte, error) {
	return r.index.ExecuteBytes(pongo2.Context{"error": errMsg})
}

// PreviewPage renders the on-screen preview wrapped in the action bar with
// the PDF download link.
func (r *Renderer) PreviewPage(res portfolio.Result) ([]byte, error) {
	content, err := r.renderContent(res)
	if err != nil {
		return nil, err
	}
	return r.preview.ExecuteBytes(pongo2.Context{
		"title":    res.Profile.Login + " portfolio",
		"handle":   res.Profile.Login,
		"filename": res.Profile.Login + "-portfolio.pdf",
		"content":  content,
	})
}

func (r *Renderer) renderContent(res portfolio.Result) (string, error) {
	view := buildView(res)
	out, err := r.content.ExecuteBytes(pongo2.Context{"v": view})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// view is the presentation model the content template consumes. Everything
// conditional is resolved here so the template stays declarative.
type view struct {
	ContainerID string

	DisplayName string
	Login       string
	AvatarURL   string
	Bio         string
	Location    string
	Company     string
	Blog        string
	BlogURL     string
	ProfileURL  string

	PublicRepos   int
	Followers     int
	Following     int
	Contributions string

	HasCalendar bool
	Weeks       []portfolio.Week
	Total       int
	MonthLabels []string
	LevelColors []string

	ReadmeHTML string
	Repos      []repoView

	GeneratedAt string
}

type repoView struct {
	Owner       string
	Name        string
	URL         string
	Description string
	Language    string
	HasLanguage bool
	Stars       int
	Forks       int
}

// repoDescriptionPlaceholder fills in for repositories without a description.
const repoDescriptionPlaceholder = "No description available for this project."

func buildView(res portfolio.Result) view {
	profile := res.Profile

	v := view{
		ContainerID:   ContainerID,
		DisplayName:   profile.Name,
		Login:         profile.Login,
		AvatarURL:     profile.AvatarURL,
		Bio:           profile.Bio,
		Location:      profile.Location,
		Company:       profile.Company,
		Blog:          profile.Blog,
		BlogURL:       blogURL(profile.Blog),
		ProfileURL:    profile.HTMLURL,
		PublicRepos:   profile.PublicRepos,
		Followers:     profile.Followers,
		Following:     profile.Following,
		Contributions: "N/A",
		LevelColors:   []string{"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"},
		GeneratedAt:   time.Now().Format("January 2, 2006"),
	}
	if v.DisplayName == "" {
		v.DisplayName = profile.Login
	}
	if profile.Contributions != nil {
		v.Contributions = strconv.Itoa(*profile.Contributions)
	}
	if cal := profile.Calendar; cal != nil && len(cal.Weeks) > 0 {
		v.HasCalendar = true
		v.Weeks = cal.Weeks
		v.Total = cal.TotalContributions
		v.MonthLabels = monthLabels(cal.Weeks)
	}
	if profile.Readme != "" {
		if html, err := RenderMarkdown(profile.Readme); err == nil {
			v.ReadmeHTML = html
		}
	}

	for _, repo := range res.Repositories {
		rv := repoView{
			Owner:       repo.Owner,
			Name:        repo.Name,
			URL:         "https://github.com/" + repo.Owner + "/" + repo.Name,
			Description: repoDescriptionPlaceholder,
			Stars:       repo.Stars,
			Forks:       repo.Forks,
		}
		if repo.Description != nil && *repo.Description != "" {
			rv.Description = *repo.Description
		}
		if repo.Language != nil && *repo.Language != "" {
			rv.Language = *repo.Language
			rv.HasLanguage = true
		}
		v.Repos = append(v.Repos, rv)
	}
	return v
}

func blogURL(blog string) string {
	if blog == "" {
		return ""
	}
	if strings.HasPrefix(blog, "http://") || strings.HasPrefix(blog, "https://") {
		return blog
	}
	return "https://" + blog
}

// monthLabels yields one label per week column: the short month name when a
// new month starts at that column, empty otherwise.
func monthLabels(weeks []portfolio.Week) []string {
	labels := make([]string, len(weeks))
	previous := ""
	for i, week := range weeks {
		date := firstDate(week)
		if date == "" {
			continue
		}
		t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
		if err != nil {
			continue
		}
		month := t.Format("Jan")
		if month != previous {
			labels[i] = month
			previous = month
		}
	}
	return labels
}

func firstDate(week portfolio.Week) string {
	for _, day := range week.Days {
		if day.Date != "" {
			return day.Date
		}
	}
	return ""
}
