package models

import "time"

// PostTotals breaks the post population down by lifecycle category.
type PostTotals struct {
	Total    int `db:"total" json:"total"`
	Active   int `db:"active" json:"active"`
	Claimed  int `db:"claimed" json:"claimed"`
	Reported int `db:"reported" json:"reported"`
	Removed  int `db:"removed" json:"removed"`
	Expired  int `db:"expired" json:"expired"`
}

// CityCount is a posts-per-city bucket.
type CityCount struct {
	City  string `db:"city" json:"city"`
	Count int    `db:"count" json:"count"`
}

// DayCount is a posts-per-creation-day bucket.
type DayCount struct {
	Day   time.Time `db:"day" json:"day"`
	Count int       `db:"count" json:"count"`
}

// UserPostCount ranks a user by number of published posts.
type UserPostCount struct {
	UserID   int    `db:"owner_id" json:"user_id"`
	Username string `db:"owner_name" json:"username"`
	Count    int    `db:"count" json:"count"`
}

// Statistics is the on-demand reporting rollup served to admins.
type Statistics struct {
	Posts               PostTotals      `json:"posts"`
	PostsByCity         []CityCount     `json:"posts_by_city"`
	PostsByDay          []DayCount      `json:"posts_by_day"`
	TopPosters          []UserPostCount `json:"top_posters"`
	ActiveConversations int             `json:"active_conversations"`
	MessageCount        int             `json:"message_count"`
}
