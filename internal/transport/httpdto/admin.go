package httpdto

import "time"

type DispatchBroadcastRequest struct {
	Topic     string     `json:"topic" binding:"required"`
	Content   string     `json:"content" binding:"required"`
	Target    string     `json:"target" binding:"required"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type AdminMessageRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Topic   string `json:"topic" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type CleanupResponse struct {
	Expired int `json:"expired"`
}
