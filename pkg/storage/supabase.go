package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/imroc/req/v3"

	"github.com/hubtav/tavlist/pkg/logutils"
)

// Supabase talks to the storage REST API of a Supabase project.
type Supabase struct {
	baseURL string
	client  *req.Client
}

type supabaseError struct {
	StatusCode string `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

func NewSupabase(baseURL, serviceKey string) *Supabase {
	baseURL = strings.TrimRight(baseURL, "/")
	client := req.C().
		SetBaseURL(baseURL+"/storage/v1").
		SetTimeout(30*time.Second).
		SetCommonBearerAuthToken(serviceKey).
		SetCommonHeader("apikey", serviceKey)
	return &Supabase{baseURL: baseURL, client: client}
}

func (s *Supabase) Upload(ctx context.Context, bucket, objectPath string, data []byte, contentType string) (string, error) {
	clean, err := cleanObjectPath(bucket, objectPath)
	if err != nil {
		return "", err
	}
	var errResult supabaseError
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "false").
		SetBodyBytes(data).
		SetErrorResult(&errResult).
		Post(fmt.Sprintf("/object/%s/%s", bucket, clean))
	if err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", bucket, clean, err)
	}
	if resp.IsErrorState() {
		logutils.Gateway("supabase").Warnf("upload %s/%s failed: %s", bucket, clean, resp.String())
		return "", fmt.Errorf("upload %s/%s: %d %s", bucket, clean, resp.StatusCode, errResult.Message)
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, bucket, clean), nil
}

func (s *Supabase) Remove(ctx context.Context, bucket, objectPath string) error {
	clean, err := cleanObjectPath(bucket, objectPath)
	if err != nil {
		return err
	}
	resp, err := s.client.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/object/%s/%s", bucket, clean))
	if err != nil {
		return fmt.Errorf("remove %s/%s: %w", bucket, clean, err)
	}
	if resp.IsErrorState() {
		return fmt.Errorf("remove %s/%s: status %d", bucket, clean, resp.StatusCode)
	}
	return nil
}
