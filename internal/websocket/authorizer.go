package websocket

import (
	"strings"

	"adopte-server/internal/domain"
	"adopte-server/pkg/events"

	"github.com/google/uuid"
)

// ChannelAuthorizer decides which pub/sub channels a connection may
// subscribe to. Users own exactly one user channel; audience channels
// follow the broadcast targeting rules, with admins allowed everywhere.
type ChannelAuthorizer struct{}

func NewChannelAuthorizer() *ChannelAuthorizer {
	return &ChannelAuthorizer{}
}

func (a *ChannelAuthorizer) CanSubscribe(userID uuid.UUID, role domain.Role, channel string) bool {
	if strings.HasPrefix(channel, events.UserChannelPrefix) {
		return channel == events.UserChannel(userID.String())
	}

	if strings.HasPrefix(channel, events.AudienceChannelPrefix) {
		if role == domain.RoleAdmin {
			return true
		}
		if channel == events.AudienceChannel(string(domain.TargetAll)) {
			return true
		}
		if target, ok := domain.TargetForRole(role); ok {
			return channel == events.AudienceChannel(string(target))
		}
		return false
	}

	return false
}

// DefaultChannels lists the channels a fresh connection is auto-subscribed
// to: the user's own channel, the ALL audience, and the role audience.
func (a *ChannelAuthorizer) DefaultChannels(userID uuid.UUID, role domain.Role) []string {
	channels := []string{
		events.UserChannel(userID.String()),
		events.AudienceChannel(string(domain.TargetAll)),
	}
	if target, ok := domain.TargetForRole(role); ok {
		channels = append(channels, events.AudienceChannel(string(target)))
	}
	return channels
}
