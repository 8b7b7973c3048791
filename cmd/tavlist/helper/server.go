package helper

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"k8s.io/klog/v2"

	"github.com/hubtav/tavlist/internal"
	"github.com/hubtav/tavlist/internal/handler"
	"github.com/hubtav/tavlist/pkg/config"
	"github.com/hubtav/tavlist/pkg/cronjob"
	"github.com/hubtav/tavlist/pkg/utils"
)

// ServerRunner 封装服务器运行逻辑
type ServerRunner struct {
	backendConfig *config.Config
	cronManager   *cronjob.CronJobManager
}

// NewServerRunner 创建新的ServerRunner实例
func NewServerRunner(backendConfig *config.Config) *ServerRunner {
	return &ServerRunner{
		backendConfig: backendConfig,
	}
}

var (
	readHeaderTimeout = 10 * time.Second // 设置读取头部的超时时间
	cancelTimeout     = 10 * time.Second // 设置取消操作的超时时间
)

// SetupCronJobs 注册周期任务（WhatsApp 连接探测）
func (sr *ServerRunner) SetupCronJobs(registerConfig *handler.RegisterConfig) error {
	spec := sr.backendConfig.WhatsApp.ProbeSpec
	if spec == "" {
		klog.Info("whatsapp probe disabled")
		return nil
	}
	sr.cronManager = cronjob.NewCronJobManager(utils.Location())
	timeout := time.Duration(sr.backendConfig.WhatsApp.RequestTimeoutSeconds) * time.Second
	if _, err := sr.cronManager.AddCronJob(cronjob.WhatsAppProbeJob, spec,
		cronjob.NewProbeJob(registerConfig.Notifier, timeout)); err != nil {
		return err
	}
	sr.cronManager.Start()
	klog.Infof("next whatsapp probe at %s", sr.cronManager.Next(cronjob.WhatsAppProbeJob))
	return nil
}

// StartServer 启动HTTP服务器
func (sr *ServerRunner) StartServer(registerConfig *handler.RegisterConfig) {
	klog.Info("starting server")
	backend := internal.Register(registerConfig)

	// reference: https://gin-gonic.com/en/docs/examples/graceful-restart-or-stop
	srv := &http.Server{
		Addr:              sr.backendConfig.ServerAddr,
		Handler:           backend,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			klog.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	klog.Info("Shutdown Gin Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), cancelTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		klog.Info("Gin Server Shutdown:", err)
	}
	if sr.cronManager != nil {
		sr.cronManager.Stop(ctx)
	}
	klog.Info("Gin Server exiting")
}
