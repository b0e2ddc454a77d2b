package events

import "context"

// Channel naming: one pub/sub channel per user, "user:{id}", plus one per
// broadcast audience, "audience:{target}".
const (
	UserChannelPrefix     = "user:"
	AudienceChannelPrefix = "audience:"
)

const (
	TypeMessageCreated      = "message.created"
	TypeConversationCreated = "conversation.created"
	TypeConversationExpired = "conversation.expired"
)

func UserChannel(userID string) string {
	return UserChannelPrefix + userID
}

func AudienceChannel(target string) string {
	return AudienceChannelPrefix + target
}

type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp int64       `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, channel string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, channels []string, handler func(channel string, payload []byte)) error
}

type Broker interface {
	Publisher
	Subscriber
}
