package handler

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hubtav/tavlist/internal/middleware"
	"github.com/hubtav/tavlist/internal/util"
	"github.com/hubtav/tavlist/pkg/account"
	"github.com/hubtav/tavlist/pkg/config"
	"github.com/hubtav/tavlist/pkg/notify"
	"github.com/hubtav/tavlist/pkg/project"
	"github.com/hubtav/tavlist/pkg/report"
	"github.com/hubtav/tavlist/pkg/signature"
	"github.com/hubtav/tavlist/pkg/stage"
)

type Manager interface {
	GetName() string
	RegisterPublic(group *gin.RouterGroup)
	RegisterProtected(group *gin.RouterGroup)
	RegisterAdmin(group *gin.RouterGroup)
}

// RegisterConfig carries the shared dependencies handed to every manager.
type RegisterConfig struct {
	Config      *config.Config
	DB          *gorm.DB
	TokenMgr    *util.TokenManager
	RateLimiter *middleware.RateLimiter

	Accounts   *account.Service
	Projects   *project.Service
	Stages     *stage.Service
	Signatures *signature.Service
	Reports    *report.Generator
	Notifier   *notify.Dispatcher
}

// Registers collects the manager constructors added by each handler file's init.
var Registers []func(conf *RegisterConfig) Manager
