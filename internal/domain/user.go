package domain

// UserSummary is the projection of a Slack user returned by user lookups.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
	Image string `json:"image"`
}
