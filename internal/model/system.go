package model

// SystemStats is the counter snapshot shown on the admin dashboard.
type SystemStats struct {
	TotalUsers    int `json:"total_users"`
	TotalPosts    int `json:"total_posts"`
	TotalComments int `json:"total_comments"`
	TotalLikes    int `json:"total_likes"`
}
