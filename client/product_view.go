package client

import (
	"Market/logger"
	"context"
	"sync"
)

// ProductView 對應商品詳細頁面的資料流程
type ProductView struct {
	api   *Client
	cache *Cache[ProductResponse]
	id    string
	wg    sync.WaitGroup

	// 同時只送出一個收藏請求，回應順序與伺服器處理順序一致
	sending sync.Mutex
}

func NewProductView(api *Client) *ProductView {
	return &ProductView{
		api:   api,
		cache: NewCache[ProductResponse](api.Product),
	}
}

// 路由尚未提供ID時不發出請求
func (v *ProductView) Load(ctx context.Context, id string) (ProductResponse, bool, error) {
	v.id = id
	if id == "" {
		return ProductResponse{}, false, nil
	}
	data, err := v.cache.Get(ctx, id)
	if err != nil {
		return ProductResponse{}, false, err
	}
	return data, true, nil
}

func (v *ProductView) Data() (ProductResponse, bool) {
	if v.id == "" {
		return ProductResponse{}, false
	}
	return v.cache.Peek(v.id)
}

// 立即切換本地的收藏狀態，再於背景送出請求；失敗時回到伺服器確認的狀態
func (v *ProductView) ToggleFavorite(ctx context.Context) {
	id := v.id
	_, ok := v.cache.Mutate(id, func(data ProductResponse) ProductResponse {
		data.IsLiked = !data.IsLiked
		return data
	})
	if !ok {
		return
	}

	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		v.sending.Lock()
		defer v.sending.Unlock()

		liked, err := v.api.ToggleFavorite(context.WithoutCancel(ctx), id)
		if err != nil {
			logger.Warn().Err(err).Str("product", id).Msg("收藏失敗，還原狀態")
		}
		v.cache.Settle(id, func(data ProductResponse) ProductResponse {
			data.IsLiked = liked
			return data
		}, err)
	}()
}

// 等待背景請求完成
func (v *ProductView) Wait() {
	v.wg.Wait()
}
