// Package templates renders the HTML pages served by the web handlers.
// Every user-sourced string passes through templ's escaper before it
// reaches the page.
package templates

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/jjenkins/cfpradar/internal/model"
)

// SearchParams carries the submitted filter values back into the form.
type SearchParams struct {
	Query  string
	Tag    string
	Remote string // "yes", "no" or "" for any
}

const pageStyle = `
      body { font-family: -apple-system, system-ui, Segoe UI, Roboto, Arial; margin: 24px; }
      .card { border: 1px solid #ddd; border-radius: 12px; padding: 16px; max-width: 1100px; }
      .row { display: flex; gap: 12px; flex-wrap: wrap; }
      input, select { padding: 10px; border-radius: 10px; border: 1px solid #ccc; min-width: 220px; }
      button { padding: 10px 14px; border-radius: 10px; border: 1px solid #333; background: #111; color: #fff; cursor: pointer; }
      table { width: 100%; border-collapse: collapse; margin-top: 14px; }
      th, td { text-align: left; padding: 10px; border-bottom: 1px solid #eee; vertical-align: top; }
      th { font-size: 12px; text-transform: uppercase; letter-spacing: .04em; color: #555; }
      .hint { color: #666; font-size: 13px; margin-top: 8px; }
`

// Home renders the opportunity search page.
func Home(params SearchParams, results []model.Opportunity, total int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		b.WriteString("<!doctype html>\n<html>\n<head>\n")
		b.WriteString("<meta charset=\"utf-8\"/>\n")
		b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"/>\n")
		b.WriteString("<title>Speaking Opportunity Finder</title>\n")
		b.WriteString("<style>" + pageStyle + "</style>\n")
		b.WriteString("</head>\n<body>\n")
		b.WriteString("<h1>Speaking Opportunity Finder</h1>\n")
		b.WriteString("<div class=\"card\">\n")

		writeSearchForm(&b, params)

		fmt.Fprintf(&b, "<div class=\"hint\">Tracking %d opportunities. Sorted by CFP deadline, soonest first.</div>\n", total)

		writeResultsTable(&b, results)

		b.WriteString("</div>\n</body>\n</html>\n")

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeSearchForm(b *strings.Builder, params SearchParams) {
	b.WriteString("<form method=\"get\">\n<div class=\"row\">\n")
	fmt.Fprintf(b, "<input name=\"q\" placeholder=\"Search (title or organizer)\" value=\"%s\"/>\n",
		templ.EscapeString(params.Query))
	fmt.Fprintf(b, "<input name=\"tag\" placeholder=\"Tag (e.g., AI, sustainability)\" value=\"%s\"/>\n",
		templ.EscapeString(params.Tag))

	b.WriteString("<select name=\"remote\">\n")
	fmt.Fprintf(b, "<option value=\"\"%s>Remote or in-person (any)</option>\n", selected(params.Remote == ""))
	fmt.Fprintf(b, "<option value=\"yes\"%s>Remote only</option>\n", selected(params.Remote == "yes"))
	fmt.Fprintf(b, "<option value=\"no\"%s>In-person only</option>\n", selected(params.Remote == "no"))
	b.WriteString("</select>\n")

	b.WriteString("<button type=\"submit\">Search</button>\n</div>\n</form>\n")
}

func writeResultsTable(b *strings.Builder, results []model.Opportunity) {
	b.WriteString("<table>\n<thead>\n<tr>")
	for _, h := range []string{"Opportunity", "Organizer", "Location", "Tags", "CFP deadline", "Event date", "Source"} {
		fmt.Fprintf(b, "<th>%s</th>", h)
	}
	b.WriteString("</tr>\n</thead>\n<tbody>\n")

	if len(results) == 0 {
		b.WriteString("<tr><td colspan=\"7\">No results. Run a refresh or loosen the filters.</td></tr>\n")
	}

	for _, opp := range results {
		location := opp.Location.String
		if location == "" && opp.IsRemote {
			location = "Remote"
		}

		b.WriteString("<tr>")
		fmt.Fprintf(b, "<td><a href=\"%s\" target=\"_blank\" rel=\"noreferrer\">%s</a></td>",
			templ.EscapeString(opp.URL), templ.EscapeString(opp.Title))
		fmt.Fprintf(b, "<td>%s</td>", templ.EscapeString(opp.Organizer.String))
		fmt.Fprintf(b, "<td>%s</td>", templ.EscapeString(location))
		fmt.Fprintf(b, "<td>%s</td>", templ.EscapeString(opp.TopicTags.String))
		fmt.Fprintf(b, "<td>%s</td>", dateCell(opp.CFPDeadline))
		fmt.Fprintf(b, "<td>%s</td>", dateCell(opp.EventDate))
		fmt.Fprintf(b, "<td>%s</td>", templ.EscapeString(opp.Source.String))
		b.WriteString("</tr>\n")
	}

	b.WriteString("</tbody>\n</table>\n")
}

func dateCell(v sql.NullTime) string {
	if !v.Valid {
		return ""
	}
	return v.Time.Format("2006-01-02")
}

func selected(on bool) string {
	if on {
		return " selected"
	}
	return ""
}
