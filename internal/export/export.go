package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"foodshare-service/internal/models"
)

var csvHeader = []string{
	"id", "title", "user", "city", "status", "created_at",
	"expiry_date", "available", "report_count", "last_report_reason",
}

// PostsCSV renders the admin post report. Quotes inside a field are
// escaped by doubling; fields containing commas, quotes or newlines are
// wrapped in quotes.
func PostsCSV(posts []models.MealPost) string {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	b.WriteByte('\n')

	for _, p := range posts {
		fields := []string{
			strconv.Itoa(p.ID),
			p.Title,
			p.OwnerName,
			p.City,
			p.Status,
			p.CreatedAt.UTC().Format(time.RFC3339),
			p.ExpiresOn.Format("2006-01-02"),
			strconv.FormatBool(p.IsAvailable),
			strconv.Itoa(p.ReportCount),
			p.LastReportReason,
		}
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeField(f))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Summary renders the plain-text statistics report.
func Summary(stats models.Statistics) string {
	var b strings.Builder
	b.WriteString("Foodshare report\n")
	b.WriteString("================\n\n")
	fmt.Fprintf(&b, "Posts total:    %d\n", stats.Posts.Total)
	fmt.Fprintf(&b, "  active:       %d\n", stats.Posts.Active)
	fmt.Fprintf(&b, "  claimed:      %d\n", stats.Posts.Claimed)
	fmt.Fprintf(&b, "  reported:     %d\n", stats.Posts.Reported)
	fmt.Fprintf(&b, "  removed:      %d\n", stats.Posts.Removed)
	fmt.Fprintf(&b, "  expired:      %d\n", stats.Posts.Expired)
	fmt.Fprintf(&b, "Active conversations: %d\n", stats.ActiveConversations)
	fmt.Fprintf(&b, "Messages sent:        %d\n", stats.MessageCount)

	if len(stats.PostsByCity) > 0 {
		b.WriteString("\nPosts by city:\n")
		for _, c := range stats.PostsByCity {
			fmt.Fprintf(&b, "  %-20s %d\n", c.City, c.Count)
		}
	}
	if len(stats.PostsByDay) > 0 {
		b.WriteString("\nPosts by day (last 7 days):\n")
		for _, d := range stats.PostsByDay {
			fmt.Fprintf(&b, "  %s  %d\n", d.Day.Format("2006-01-02"), d.Count)
		}
	}
	if len(stats.TopPosters) > 0 {
		b.WriteString("\nTop posters:\n")
		for _, u := range stats.TopPosters {
			fmt.Fprintf(&b, "  %-20s %d\n", u.Username, u.Count)
		}
	}
	return b.String()
}

func escapeField(field string) string {
	if !strings.ContainsAny(field, ",\"\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
