package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/pmartell/datenight/backend/internal/domain"
)

// renderSubject builds the notification subject line.
func renderSubject(sub domain.PlanSubmission) string {
	return fmt.Sprintf("New date plan from %s", html.EscapeString(sub.Name))
}

// renderHTML builds the email body. Every interpolated field goes through
// html.EscapeString even though the validator already sanitized it; the
// escaping here is what makes the body safe, the sanitizer is the first line.
func renderHTML(sub domain.PlanSubmission) string {
	var b strings.Builder

	b.WriteString("<h2>New Date Plan Submission</h2>\n")
	b.WriteString("<table>\n")
	row(&b, "Name", sub.Name)
	row(&b, "Date", sub.Date)
	row(&b, "Time", sub.Time)
	b.WriteString("</table>\n")

	b.WriteString("<h3>Activities</h3>\n<ul>\n")
	for _, a := range sub.Activities {
		fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(a))
	}
	b.WriteString("</ul>\n")

	if sub.CustomActivity != "" {
		fmt.Fprintf(&b, "<p><strong>Custom activity:</strong> %s</p>\n", html.EscapeString(sub.CustomActivity))
	}

	fmt.Fprintf(&b, "<p><small>Submitted at %s</small></p>\n",
		html.EscapeString(sub.SubmittedAt.Format("2006-01-02 15:04:05 MST")))
	if sub.IPAddress != "" {
		fmt.Fprintf(&b, "<p><small>From %s</small></p>\n", html.EscapeString(sub.IPAddress))
	}

	return b.String()
}

func row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "<tr><td><strong>%s</strong></td><td>%s</td></tr>\n", label, html.EscapeString(value))
}
