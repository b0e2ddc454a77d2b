package websocket

import (
	"testing"

	"adopte-server/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanSubscribe(t *testing.T) {
	a := NewChannelAuthorizer()
	me := uuid.New()
	other := uuid.New()

	tests := []struct {
		name    string
		role    domain.Role
		channel string
		want    bool
	}{
		{"own user channel", domain.RoleStudent, "user:" + me.String(), true},
		{"someone else's user channel", domain.RoleStudent, "user:" + other.String(), false},
		{"student joins ALL", domain.RoleStudent, "audience:ALL", true},
		{"student joins STUDENTS", domain.RoleStudent, "audience:STUDENTS", true},
		{"student joins COMPANIES", domain.RoleStudent, "audience:COMPANIES", false},
		{"company joins COMPANIES", domain.RoleCompany, "audience:COMPANIES", true},
		{"company joins STUDENTS", domain.RoleCompany, "audience:STUDENTS", false},
		{"admin joins any audience", domain.RoleAdmin, "audience:STUDENTS", true},
		{"admin cannot take a user channel", domain.RoleAdmin, "user:" + other.String(), false},
		{"unknown prefix", domain.RoleStudent, "rooms:42", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.CanSubscribe(me, tt.role, tt.channel))
		})
	}
}

func TestDefaultChannels(t *testing.T) {
	a := NewChannelAuthorizer()
	id := uuid.New()

	assert.Equal(t,
		[]string{"user:" + id.String(), "audience:ALL", "audience:STUDENTS"},
		a.DefaultChannels(id, domain.RoleStudent))
	assert.Equal(t,
		[]string{"user:" + id.String(), "audience:ALL", "audience:COMPANIES"},
		a.DefaultChannels(id, domain.RoleCompany))
	// admins get no role audience of their own
	assert.Equal(t,
		[]string{"user:" + id.String(), "audience:ALL"},
		a.DefaultChannels(id, domain.RoleAdmin))
}
