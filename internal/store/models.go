package store

import "time"

type User struct {
	ID        string
	Username  string
	GroupName string
	Role      string
	Blocked   bool
	CreatedAt time.Time
}

type Group struct {
	GroupName    string
	CreatedBy    string
	MembersCount int
	Active       bool
	CreatedAt    time.Time
}
