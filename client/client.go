// Package client 呼叫商城 API，並提供頁面使用的快取與樂觀更新
package client

import (
	"Market/models"
	"context"
	"errors"
	"fmt"
	"github.com/go-resty/resty/v2"
	"time"
)

// 直播查詢成功但沒有資料
var ErrNotFound = errors.New("client: not found")

type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type ProductResponse struct {
	OK             bool             `json:"ok"`
	Product        *models.Product  `json:"product"`
	RelatedProduct []models.Product `json:"relatedProduct"`
	IsLiked        bool             `json:"isLiked"`
}

type favoriteResponse struct {
	OK      bool `json:"ok"`
	IsLiked bool `json:"isLiked"`
}

type streamResponse struct {
	OK     bool           `json:"ok"`
	Stream *models.Stream `json:"stream"`
}

type Client struct {
	http *resty.Client
}

func New(baseURL, token string) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json")
	if token != "" {
		httpClient.SetAuthToken(token)
	}
	return &Client{http: httpClient}
}

func (c *Client) do(ctx context.Context, method, path string, pathParams map[string]string, result any) error {
	apiErr := &APIError{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(pathParams).
		SetResult(result).
		SetError(apiErr).
		Execute(method, path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		apiErr.Status = resp.StatusCode()
		return apiErr
	}
	return nil
}

func (c *Client) Product(ctx context.Context, id string) (ProductResponse, error) {
	var out ProductResponse
	err := c.do(ctx, resty.MethodGet, "/api/products/{id}", map[string]string{"id": id}, &out)
	return out, err
}

// 回傳切換後是否收藏
func (c *Client) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	var out favoriteResponse
	err := c.do(ctx, resty.MethodPost, "/api/products/{id}/favorite", map[string]string{"id": id}, &out)
	if err != nil {
		return false, err
	}
	return out.IsLiked, nil
}

// stream 為 null 時回傳 ErrNotFound
func (c *Client) Stream(ctx context.Context, id string) (*models.Stream, error) {
	var out streamResponse
	err := c.do(ctx, resty.MethodGet, "/api/streams/{id}", map[string]string{"id": id}, &out)
	if err != nil {
		return nil, err
	}
	if out.Stream == nil {
		return nil, ErrNotFound
	}
	return out.Stream, nil
}
