package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/johanforsgren/stashreview/internal/domain"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// diffView is the serialisable form of a diff line and its comments.
type diffView struct {
	Type        domain.IssueType `json:"type" yaml:"type"`
	Path        string           `json:"path" yaml:"path"`
	Source      int64            `json:"source" yaml:"source"`
	Destination int64            `json:"destination" yaml:"destination"`
	Comments    []domain.Comment `json:"comments,omitempty" yaml:"comments,omitempty"`
}

// actionResult reports the outcome of a command that returns no entity.
type actionResult struct {
	Action string `json:"action" yaml:"action"`
	Target string `json:"target" yaml:"target"`
}

func validFormat(format string) bool {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// render writes v to w in format. Reports are converted to plain slices so
// every format sees the same shape.
func render(w io.Writer, format string, v interface{}) error {
	v = toView(v)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatText:
		_, err := io.WriteString(w, renderText(v))
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func toView(v interface{}) interface{} {
	switch r := v.(type) {
	case *domain.CommentReport:
		comments := r.Comments()
		if comments == nil {
			comments = []domain.Comment{}
		}
		return comments
	case *domain.DiffReport:
		diffs := r.Diffs()
		views := make([]diffView, 0, len(diffs))
		for _, d := range diffs {
			views = append(views, diffView{
				Type:        d.Type,
				Path:        d.Path,
				Source:      d.Source,
				Destination: d.Destination,
				Comments:    d.Comments(),
			})
		}
		return views
	}
	return v
}

func renderText(v interface{}) string {
	var b strings.Builder
	switch t := v.(type) {
	case *domain.User:
		writeUser(&b, *t)
	case *domain.PullRequest:
		writePullRequest(&b, t)
	case *domain.Comment:
		writeComment(&b, *t)
	case []domain.Comment:
		if len(t) == 0 {
			b.WriteString(LabelStyle.Render("no comments") + "\n")
		}
		for _, c := range t {
			writeComment(&b, c)
		}
	case []diffView:
		for _, d := range t {
			writeDiff(&b, d)
		}
	case []domain.Profile:
		if len(t) == 0 {
			b.WriteString(LabelStyle.Render("no profiles") + "\n")
		}
		for _, p := range t {
			writeProfile(&b, p)
		}
	case actionResult:
		b.WriteString(SuccessStyle.Render("✓ "+t.Action) + " " + t.Target + "\n")
	default:
		fmt.Fprintf(&b, "%v\n", v)
	}
	return b.String()
}

func writeUser(b *strings.Builder, u domain.User) {
	fmt.Fprintf(b, "%s %s\n", TitleStyle.Render(u.Name), LabelStyle.Render("("+u.Slug+")"))
	fmt.Fprintf(b, "%s %d\n", LabelStyle.Render("id:"), u.ID)
	if u.Email != "" {
		fmt.Fprintf(b, "%s %s\n", LabelStyle.Render("email:"), u.Email)
	}
}

func writePullRequest(b *strings.Builder, pr *domain.PullRequest) {
	fmt.Fprintf(b, "%s %s\n", TitleStyle.Render(pr.Ref().String()), pr.Title)
	fmt.Fprintf(b, "%s %d\n", LabelStyle.Render("version:"), pr.Version)
	if pr.Description != "" {
		fmt.Fprintf(b, "\n%s\n\n", pr.Description)
	}
	names := make([]string, 0, len(pr.Reviewers))
	for _, r := range pr.Reviewers {
		names = append(names, r.Name)
	}
	reviewers := "none"
	if len(names) > 0 {
		reviewers = strings.Join(names, ", ")
	}
	fmt.Fprintf(b, "%s %s\n", LabelStyle.Render("reviewers:"), reviewers)
}

func commentLocation(c domain.Comment) string {
	if c.IsGlobal() {
		if c.Path == "" {
			return "general"
		}
		return c.Path
	}
	return c.Path + ":" + strconv.FormatInt(*c.Line, 10)
}

func writeComment(b *strings.Builder, c domain.Comment) {
	fmt.Fprintf(b, "#%d %s %s: %s\n", c.ID, LocationStyle.Render(commentLocation(c)), AuthorStyle.Render(c.Author.Name), c.Text)
	for _, t := range c.Tasks {
		fmt.Fprintf(b, "    %s #%d [%s] %s\n", LabelStyle.Render("task"), t.ID, t.State, t.Text)
	}
}

func writeDiff(b *strings.Builder, d diffView) {
	marker, line := " ", d.Destination
	switch d.Type {
	case domain.IssueTypeAdded:
		marker = "+"
	case domain.IssueTypeRemoved:
		marker, line = "-", d.Source
	}
	style := GetDiffLineStyle(d.Type)
	fmt.Fprintf(b, "%s\n", style.Render(fmt.Sprintf("%s %s:%d", marker, d.Path, line)))
	for _, c := range d.Comments {
		fmt.Fprintf(b, "    #%d %s: %s\n", c.ID, AuthorStyle.Render(c.Author.Name), c.Text)
	}
}

func writeProfile(b *strings.Builder, p domain.Profile) {
	marker := " "
	name := p.Name
	if p.IsActive {
		marker = "*"
		name = SuccessStyle.Render(p.Name)
	}
	auth := "anonymous"
	switch {
	case p.Token != "":
		auth = "token"
	case p.Login != "":
		auth = "login " + p.Login
	}
	fmt.Fprintf(b, "%s %s %s %s\n", marker, name, p.URL, LabelStyle.Render("("+auth+")"))
}
