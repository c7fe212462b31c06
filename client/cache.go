package client

import (
	"context"
	"golang.org/x/sync/singleflight"
	"sync"
)

type FetchFunc[T any] func(ctx context.Context, key string) (T, error)

type entry[T any] struct {
	data      T
	confirmed T
	pending   int
}

// Cache 以 key 快取請求結果，同一 key 同時只會有一個請求。
// Mutate 先更新本地資料，Settle 在請求結束後以伺服器確認的值對齊。
type Cache[T any] struct {
	fetch   FetchFunc[T]
	group   singleflight.Group
	mu      sync.Mutex
	entries map[string]*entry[T]
}

func NewCache[T any](fetch FetchFunc[T]) *Cache[T] {
	return &Cache[T]{
		fetch:   fetch,
		entries: make(map[string]*entry[T]),
	}
}

// 已快取則直接回傳，否則發出請求
func (c *Cache[T]) Get(ctx context.Context, key string) (T, error) {
	if data, ok := c.Peek(key); ok {
		return data, nil
	}
	return c.Revalidate(ctx, key)
}

// 重新請求並覆蓋快取，有尚未完成的 Mutate 時只更新確認值。
// 共用的請求不受單一呼叫者取消影響，各呼叫者只依自己的 ctx 放棄等待。
func (c *Cache[T]) Revalidate(ctx context.Context, key string) (T, error) {
	var zero T
	fetchCtx := context.WithoutCancel(ctx)
	result := c.group.DoChan(key, func() (interface{}, error) {
		data, err := c.fetch(fetchCtx, key)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		e, ok := c.entries[key]
		if !ok {
			e = &entry[T]{}
			c.entries[key] = e
		}
		e.confirmed = data
		if e.pending == 0 {
			e.data = data
		}
		return e.data, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-result:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func (c *Cache[T]) Peek(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	return e.data, true
}

// 樂觀更新，沒有快取資料時回傳 false
func (c *Cache[T]) Mutate(key string, update func(T) T) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	e.data = update(e.data)
	e.pending++
	return e.data, true
}

// 請求結束，成功時以 confirm 更新確認值；最後一個請求結束時本地資料回到確認值
func (c *Cache[T]) Settle(key string, confirm func(T) T, err error) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero
	}
	if err == nil && confirm != nil {
		e.confirmed = confirm(e.confirmed)
	}
	if e.pending > 0 {
		e.pending--
	}
	if e.pending == 0 {
		e.data = e.confirmed
	}
	return e.data
}
