package httpdto

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}
