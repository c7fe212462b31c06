package handlers

import (
	"Market/events"
	"Market/middleware"
	"Market/models"
	"Market/store"
	"errors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"net/http"
	"strconv"
)

// 查詢直播資料，查無資料時仍回傳 ok 與 null
func GetStreamHandler(c *gin.Context, streams store.StreamStore) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		fail(c, http.StatusBadRequest, "不合法的ID", err)
		return
	}

	//0、負數與溢位的ID不可能有資料
	var stream *models.Stream
	if err == nil && id > 0 {
		stream, err = streams.FindStream(c.Request.Context(), uint(id))
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusInternalServerError, "查詢直播資料失敗", err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"stream": stream,
	})
}

// 查詢直播列表，新的在前
func GetStreamListHandler(c *gin.Context, streams store.StreamStore) {
	limit, offset, ok := parsePaging(c)
	if !ok {
		return
	}

	list, err := streams.ListStreams(c.Request.Context(), offset, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, "無法讀取直播列表", err)
		return
	}
	if list == nil {
		list = []models.Stream{}
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"streams": list,
	})
}

// 建立直播
func CreateStreamHandler(c *gin.Context, streams store.StreamStore, publisher events.Publisher) {
	userID, _ := middleware.CurrentUserID(c)

	var streamReq struct {
		Name        string `json:"name" binding:"required,max=100"`
		Price       uint   `json:"price"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&streamReq); err != nil {
		fail(c, http.StatusBadRequest, "綁定請求資料錯誤", err)
		return
	}

	stream := models.Stream{
		Name:        streamReq.Name,
		Price:       streamReq.Price,
		Description: streamReq.Description,
		UserID:      userID,
	}
	if err := streams.CreateStream(c.Request.Context(), &stream); err != nil {
		fail(c, http.StatusInternalServerError, "建立直播失敗", err)
		return
	}

	publisher.Publish(c.Request.Context(), events.Event{
		Type:     events.StreamCreated,
		EntityID: stream.ID,
		UserID:   userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"ok":     true,
		"stream": stream,
	})
}

// 傳送直播聊天室訊息
func SendMessageHandler(c *gin.Context, streams store.StreamStore, publisher events.Publisher) {
	streamID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	var messageReq struct {
		Message string `json:"message" binding:"required,max=1000"`
	}
	if err := c.ShouldBindJSON(&messageReq); err != nil {
		fail(c, http.StatusBadRequest, "綁定請求資料錯誤", err)
		return
	}

	_, err := streams.FindStream(c.Request.Context(), streamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "找不到此直播", err)
			return
		}
		fail(c, http.StatusInternalServerError, "查詢直播資料失敗", err)
		return
	}

	message := models.Message{
		Message:  messageReq.Message,
		StreamID: streamID,
		UserID:   userID,
	}
	if err := streams.CreateMessage(c.Request.Context(), &message); err != nil {
		fail(c, http.StatusInternalServerError, "傳送訊息失敗", err)
		return
	}

	publisher.Publish(c.Request.Context(), events.Event{
		Type:     events.MessageCreated,
		EntityID: streamID,
		UserID:   userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"ok":      true,
		"message": message,
	})
}

// 查詢直播聊天室訊息，舊的在前
func GetMessageListHandler(c *gin.Context, streams store.StreamStore) {
	streamID, ok := parseID(c, "id")
	if !ok {
		return
	}

	messages, err := streams.ListMessages(c.Request.Context(), streamID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "無法讀取訊息", err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"messages": messages,
	})
}
