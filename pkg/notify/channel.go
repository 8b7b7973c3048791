package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/pkg/apperr"
	"github.com/hubtav/tavlist/pkg/metrics"
)

// ChannelInput is the editable part of the WhatsApp configuration.
type ChannelInput struct {
	InstanceName string `json:"instanceName" binding:"required"`
	APIURL       string `json:"apiUrl" binding:"required"`
	APIKey       string `json:"apiKey" binding:"required"`
}

// ProbeResult is the outcome of a connectivity check.
type ProbeResult struct {
	State     string `json:"state"`
	Connected bool   `json:"connected"`
}

// loadChannel returns the singleton row, or nil when nothing is configured.
func (d *Dispatcher) loadChannel(ctx context.Context) (*model.WhatsAppConfig, error) {
	var cfg model.WhatsAppConfig
	err := d.db.WithContext(ctx).Order("id").First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Channel returns the stored WhatsApp configuration.
func (d *Dispatcher) Channel(ctx context.Context) (*model.WhatsAppConfig, error) {
	cfg, err := d.loadChannel(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, apperr.NotFound(msgNotConfigured)
	}
	return cfg, nil
}

// SaveChannel creates or replaces the singleton configuration. A changed
// endpoint is considered disconnected until the next probe.
func (d *Dispatcher) SaveChannel(ctx context.Context, in ChannelInput) (*model.WhatsAppConfig, error) {
	in.InstanceName = strings.TrimSpace(in.InstanceName)
	in.APIURL = strings.TrimRight(strings.TrimSpace(in.APIURL), "/")
	in.APIKey = strings.TrimSpace(in.APIKey)
	if in.InstanceName == "" || in.APIURL == "" || in.APIKey == "" {
		return nil, apperr.Validation("Instância, URL da API e chave são obrigatórias")
	}
	if !strings.HasPrefix(in.APIURL, "http://") && !strings.HasPrefix(in.APIURL, "https://") {
		return nil, apperr.Validation("URL da API inválida")
	}

	cfg, err := d.loadChannel(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &model.WhatsAppConfig{}
	}
	changed := cfg.InstanceName != in.InstanceName || cfg.APIURL != in.APIURL || cfg.APIKey != in.APIKey
	cfg.InstanceName = in.InstanceName
	cfg.APIURL = in.APIURL
	cfg.APIKey = in.APIKey
	if changed {
		cfg.Connected = false
	}
	if err := d.db.WithContext(ctx).Save(cfg).Error; err != nil {
		return nil, fmt.Errorf("save whatsapp config: %w", err)
	}
	if changed {
		metrics.SetWhatsAppConnected(false)
	}
	return cfg, nil
}

func (d *Dispatcher) setConnected(ctx context.Context, cfg *model.WhatsAppConfig, connected bool) {
	metrics.SetWhatsAppConnected(connected)
	if cfg.Connected == connected {
		return
	}
	cfg.Connected = connected
	if err := d.db.WithContext(ctx).Model(&model.WhatsAppConfig{}).
		Where("id = ?", cfg.ID).
		Update("connected", connected).Error; err != nil {
		klog.Errorf("persist whatsapp connected=%t: %v", connected, err)
	}
}

func (d *Dispatcher) probe(ctx context.Context, cfg *model.WhatsAppConfig) (*ProbeResult, error) {
	state, err := d.whatsapp.ConnectionState(ctx, cfg)
	if err != nil {
		d.setConnected(ctx, cfg, false)
		return &ProbeResult{State: "unknown"}, err
	}
	connected := IsOpen(state)
	d.setConnected(ctx, cfg, connected)
	return &ProbeResult{State: state, Connected: connected}, nil
}

// TestChannel probes the instance and persists the result.
func (d *Dispatcher) TestChannel(ctx context.Context) (*ProbeResult, error) {
	cfg, err := d.loadChannel(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, apperr.ChannelUnavailable(msgNotConfigured)
	}
	res, err := d.probe(ctx, cfg)
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) {
			return nil, apperr.Gateway("Não foi possível verificar a conexão do WhatsApp", perr.Payload, err)
		}
		return nil, apperr.Gateway("Não foi possível verificar a conexão do WhatsApp", nil, err)
	}
	return res, nil
}

// Probe refreshes the connected flag; it is what the periodic job runs.
// An unconfigured channel is not an error.
func (d *Dispatcher) Probe(ctx context.Context) error {
	cfg, err := d.loadChannel(ctx)
	if err != nil || cfg == nil {
		return err
	}
	res, err := d.probe(ctx, cfg)
	if err != nil {
		return err
	}
	klog.V(4).Infof("whatsapp instance %s state %s", cfg.InstanceName, res.State)
	return nil
}

// ensureConnected re-checks the channel before a send. A down or unreachable
// instance fails fast with ChannelUnavailable.
func (d *Dispatcher) ensureConnected(ctx context.Context) (*model.WhatsAppConfig, error) {
	cfg, err := d.loadChannel(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, apperr.ChannelUnavailable(msgNotConfigured)
	}
	res, err := d.probe(ctx, cfg)
	if err != nil {
		klog.Warningf("whatsapp probe failed: %v", err)
		return nil, apperr.ChannelUnavailable(msgDisconnected)
	}
	if !res.Connected {
		return nil, apperr.ChannelUnavailable(msgDisconnected)
	}
	return cfg, nil
}
