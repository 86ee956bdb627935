package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// blockedImageSources lists badge/stats/counter image hosts stripped from
// README content; they render as broken or constantly-changing artifacts in
// a captured document.
var blockedImageSources = []string{
	"github-readme-stats",
	"github-readme-streak-stats",
	"github-profile-trophy",
	"github-readme-activity-graph",
	"github-contributor-stats",
	"github-profile-summary-cards",
	"komarev.com",
	"shields.io",
	"img.shields.io",
	"badge",
	"visitor",
	"hits.dwyl.com",
	"hits.seeyoufarm.com",
	"count.getloli.com",
	"profile-counter",
	"capsule-render",
	"readme-typing-svg",
	"skillicons.dev",
	"techstack-generator",
	"streak-stats",
	"activity-graph",
	"wakatime",
	"spotify-github-profile",
	"spotify-recently-played",
	"vercel.app/api",
}

var readmeMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithASTTransformers(util.Prioritized(imageFilter{}, 500)),
	),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// RenderMarkdown converts README markdown to HTML with badge images removed.
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := readmeMarkdown.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// imageFilter drops image nodes whose destination matches a blocked source.
type imageFilter struct{}

func (imageFilter) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	var blocked []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}
		if blockedImage(string(img.Destination)) {
			blocked = append(blocked, n)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, n := range blocked {
		if parent := n.Parent(); parent != nil {
			parent.RemoveChild(parent, n)
		}
	}
}

func blockedImage(destination string) bool {
	lower := strings.ToLower(destination)
	for _, source := range blockedImageSources {
		if strings.Contains(lower, source) {
			return true
		}
	}
	return false
}
