package util

import (
	"github.com/gin-gonic/gin"

	"github.com/hubtav/tavlist/dao/model"
)

const (
	ProfileIDKey = "x-profile-id"
	UserIDKey    = "x-user-id"
	UsernameKey  = "x-user-name"
	RoleKey      = "x-role"
)

func SetJWTContext(c *gin.Context, msg JWTMessage) {
	c.Set(ProfileIDKey, msg.ProfileID)
	c.Set(UserIDKey, msg.UserID)
	c.Set(UsernameKey, msg.Username)
	c.Set(RoleKey, msg.Role)
}

func GetToken(c *gin.Context) JWTMessage {
	var msg JWTMessage
	msg.ProfileID = c.GetUint(ProfileIDKey)
	msg.UserID = c.GetString(UserIDKey)
	msg.Username = c.GetString(UsernameKey)
	if role, ok := c.Get(RoleKey); ok {
		msg.Role, _ = role.(model.AppRole)
	}
	return msg
}

func (m *JWTMessage) IsAdmin() bool {
	return m.Role == model.RoleAdmin
}
