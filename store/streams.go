package store

import (
	"Market/models"
	"context"
)

// 以主鍵查詢直播，查無資料時回傳 gorm.ErrRecordNotFound
func (s *Store) FindStream(ctx context.Context, id uint) (*models.Stream, error) {
	var stream models.Stream
	err := s.db.WithContext(ctx).First(&stream, id).Error
	if err != nil {
		return nil, err
	}
	return &stream, nil
}

func (s *Store) ListStreams(ctx context.Context, offset, limit int) ([]models.Stream, error) {
	var streams []models.Stream
	err := s.db.WithContext(ctx).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&streams).
		Error
	return streams, err
}

func (s *Store) CreateStream(ctx context.Context, stream *models.Stream) error {
	return s.db.WithContext(ctx).Create(stream).Error
}

func (s *Store) CreateMessage(ctx context.Context, message *models.Message) error {
	return s.db.WithContext(ctx).Create(message).Error
}

func (s *Store) ListMessages(ctx context.Context, streamID uint) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("stream_id = ?", streamID).
		Order("id ASC").
		Find(&messages).
		Error
	return messages, err
}
