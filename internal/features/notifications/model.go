package notifications

import "time"

// Type classifies a notification for the recipient's inbox
type Type string

const (
	TypeStatusChange Type = "status_change"
	TypeAlert        Type = "alert"
	TypeSuccess      Type = "success"
	TypeGeneric      Type = "generic"
)

// Notification is a message addressed to one user
type Notification struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	Type      Type      `bson:"type" json:"type"`
	Title     string    `bson:"title" json:"title"`
	Message   string    `bson:"message" json:"message"`
	IsRead    bool      `bson:"isRead" json:"isRead"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Request DTOs

type NotificationListQuery struct {
	Page       int  `form:"page,default=1" binding:"min=1"`
	Limit      int  `form:"limit,default=20" binding:"min=1,max=50"`
	UnreadOnly bool `form:"unreadOnly"`
}

// Response DTOs

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unreadCount"`
}

type MarkReadResponse struct {
	ID     string `json:"id"`
	IsRead bool   `json:"isRead"`
}

type MarkAllReadResponse struct {
	MarkedCount int64 `json:"markedCount"`
}
