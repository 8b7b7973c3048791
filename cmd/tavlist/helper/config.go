package helper

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"k8s.io/klog/v2"

	"github.com/hubtav/tavlist/dao/query"
	"github.com/hubtav/tavlist/internal/handler"
	"github.com/hubtav/tavlist/internal/middleware"
	"github.com/hubtav/tavlist/internal/util"
	"github.com/hubtav/tavlist/pkg/account"
	"github.com/hubtav/tavlist/pkg/config"
	"github.com/hubtav/tavlist/pkg/notify"
	"github.com/hubtav/tavlist/pkg/project"
	"github.com/hubtav/tavlist/pkg/report"
	"github.com/hubtav/tavlist/pkg/signature"
	"github.com/hubtav/tavlist/pkg/stage"
	"github.com/hubtav/tavlist/pkg/storage"
	"github.com/hubtav/tavlist/pkg/utils"
)

const sentryFlushTimeout = 2 * time.Second

// ConfigInitializer 封装配置初始化逻辑
type ConfigInitializer struct {
	backendConfig *config.Config
}

// NewConfigInitializer 创建新的ConfigInitializer实例
func NewConfigInitializer() *ConfigInitializer {
	return &ConfigInitializer{
		backendConfig: config.GetConfig(),
	}
}

// GetBackendConfig 获取后端配置
func (ci *ConfigInitializer) GetBackendConfig() *config.Config {
	return ci.backendConfig
}

// LoadDebugEnvironment 加载调试环境变量
func (ci *ConfigInitializer) LoadDebugEnvironment() error {
	if gin.Mode() != gin.DebugMode {
		return nil
	}

	err := godotenv.Load(".debug.env")
	if err != nil {
		return err
	}

	if be := os.Getenv("TAVLIST_BE_PORT"); be != "" {
		ci.backendConfig.ServerAddr = ":" + be
	}
	if url := os.Getenv("TAVLIST_PUBLIC_URL"); url != "" {
		ci.backendConfig.PublicURL = url
	}
	return nil
}

// SetupSentry 初始化错误上报，未配置 DSN 时为空操作。返回值用于退出前刷新缓冲。
func (ci *ConfigInitializer) SetupSentry() func() {
	dsn := ci.backendConfig.Sentry.DSN
	if dsn == "" {
		return func() {}
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      ci.backendConfig.Sentry.Environment,
		AttachStacktrace: true,
	})
	if err != nil {
		klog.Errorf("sentry init: %v", err)
		return func() {}
	}
	klog.Info("sentry enabled")
	return func() { sentry.Flush(sentryFlushTimeout) }
}

// InitializeRegisterConfig 初始化注册配置
func (ci *ConfigInitializer) InitializeRegisterConfig() (*handler.RegisterConfig, error) {
	conf := ci.backendConfig
	if conf.Auth.AccessTokenSecret == "" {
		return nil, fmt.Errorf("auth.accessTokenSecret is required")
	}
	utils.SetTimeZone(conf.TimeZone)

	// init db
	db := query.GetDB()
	if err := query.Migrate(db); err != nil {
		return nil, err
	}
	admin := conf.Auth.BootstrapAdmin
	if err := query.EnsureAdmin(context.Background(), db, admin.Email, admin.Password, admin.FullName); err != nil {
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}

	store, err := storage.New(storage.Options{
		Driver:        conf.Storage.Driver,
		LocalDir:      conf.Storage.LocalDir,
		PublicBaseURL: conf.Storage.PublicBaseURL,
		SupabaseURL:   conf.Storage.SupabaseURL,
		ServiceKey:    conf.Storage.ServiceKey,
	})
	if err != nil {
		return nil, err
	}

	stages := stage.NewService(db, store, stage.WithAttachmentBucket(conf.Storage.AttachmentBucket))
	signatures := signature.NewService(db, store,
		signature.WithBucket(conf.Storage.SignatureBucket),
		signature.WithTokenTTL(time.Duration(conf.Signature.TokenTTLHours)*time.Hour),
		signature.WithMaxImageBytes(conf.Signature.MaxImageKB<<10),
	)
	reports := report.NewGenerator(db, stages,
		report.WithTimeouts(
			time.Duration(conf.Report.ImageTimeoutSeconds)*time.Second,
			time.Duration(conf.Report.TotalTimeoutSeconds)*time.Second,
		),
		report.WithDefaultLogo(conf.Report.LogoURL),
	)
	gatewayTimeout := time.Duration(conf.WhatsApp.RequestTimeoutSeconds) * time.Second
	notifier := notify.NewDispatcher(db, signatures, reports,
		notify.NewEvolutionClient(gatewayTimeout),
		ci.emailSender(gatewayTimeout),
		notify.WithPublicURL(conf.PublicURL),
	)

	return &handler.RegisterConfig{
		Config:      conf,
		DB:          db,
		TokenMgr:    util.NewTokenManager(conf.Auth.AccessTokenSecret, conf.Auth.AccessTokenExpiryHour),
		RateLimiter: ci.rateLimiter(),
		Accounts:    account.NewService(db),
		Projects:    project.NewService(db, stages),
		Stages:      stages,
		Signatures:  signatures,
		Reports:     reports,
		Notifier:    notifier,
	}, nil
}

// emailSender 根据配置选择邮件驱动，未配置时返回 nil（发送时报告通道不可用）
func (ci *ConfigInitializer) emailSender(timeout time.Duration) notify.EmailSender {
	conf := ci.backendConfig.Email
	switch conf.Driver {
	case "smtp":
		if conf.SMTP.Host == "" {
			klog.Warning("smtp host is empty, email disabled")
			return nil
		}
		return notify.NewSMTPSender(conf.SMTP.Host, conf.SMTP.Port, conf.SMTP.User, conf.SMTP.Password, conf.From)
	default:
		if conf.ResendAPIKey == "" {
			klog.Warning("resend api key is empty, email disabled")
			return nil
		}
		return notify.NewResendSender(conf.ResendURL, conf.ResendAPIKey, conf.From, timeout)
	}
}

// rateLimiter 连接 Redis；未配置地址时不限流
func (ci *ConfigInitializer) rateLimiter() *middleware.RateLimiter {
	conf := ci.backendConfig.Redis
	if conf.Addr == "" {
		klog.Info("redis not configured, public rate limit disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	return middleware.NewRateLimiter(client, conf.PublicRateLimit, time.Duration(conf.WindowSeconds)*time.Second)
}
