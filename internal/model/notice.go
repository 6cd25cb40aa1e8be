package model

// Notice categories, matching the CSS classes used by the templates.
const (
	NoticeSuccess = "success"
	NoticeDanger  = "danger"
	NoticeInfo    = "info"
)

// Notice is a one-shot message shown on the next rendered page.
type Notice struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}
