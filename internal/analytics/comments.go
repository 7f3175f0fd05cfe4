// internal/analytics/comments.go
package analytics

// CommentEntry is one free-text comment with its author.
type CommentEntry struct {
	Evaluator string `json:"evaluator"`
	Comment   string `json:"comment"`
}

// CommentsPage is one page of comments for a month.
type CommentsPage struct {
	Month      string         `json:"month"`
	Page       int            `json:"page"`
	PerPage    int            `json:"perPage"`
	Total      int            `json:"total"`
	TotalPages int            `json:"totalPages"`
	Comments   []CommentEntry `json:"comments"`
}

// Comments returns the page-th page (1-based) of non-empty comments for the
// month selected by monthIndex. Out-of-range pages yield an empty list.
func Comments(records []Record, monthIndex, page, perPage int) CommentsPage {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	cp := CommentsPage{Page: page, PerPage: perPage, Comments: []CommentEntry{}}

	month, ok := MonthAt(records, monthIndex)
	cp.Month = month
	if !ok {
		return cp
	}

	all := make([]CommentEntry, 0)
	for _, r := range filterMonth(records, month) {
		if r.Comment == "" {
			continue
		}
		all = append(all, CommentEntry{Evaluator: r.Evaluator, Comment: r.Comment})
	}

	cp.Total = len(all)
	cp.TotalPages = (len(all) + perPage - 1) / perPage

	start := (page - 1) * perPage
	if start >= len(all) {
		return cp
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	cp.Comments = all[start:end]
	return cp
}
