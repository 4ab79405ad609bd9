package handler

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pairplay/backend/internal/database"
	"pairplay/backend/internal/logger"
	"pairplay/backend/internal/models"
)

// region --- DTOs ---

// CreateChatInput names the other participant of a one-on-one chat.
type CreateChatInput struct {
	UserID string `json:"user_id" binding:"required"`
}

// ChatResponse identifies a chat.
type ChatResponse struct {
	ChatID    string    `json:"chat_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatParticipantResponse is the other side of a chat.
type ChatParticipantResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// LastMessageResponse previews the newest message of a chat.
type LastMessageResponse struct {
	ID       string    `json:"id"`
	SenderID *string   `json:"sender_id"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sent_at"`
}

// ChatDetailResponse is a chat with the other participant and the latest message.
type ChatDetailResponse struct {
	ChatID           string                   `json:"chat_id"`
	CreatedAt        time.Time                `json:"created_at"`
	OtherParticipant *ChatParticipantResponse `json:"other_participant"`
	LastMessage      *LastMessageResponse     `json:"last_message"`
}

// endregion

// CreateOneOnOneChat godoc
// @Summary      Create or fetch a one-on-one chat
// @Description  Returns the chat whose participants are exactly the caller and user_id, creating it when missing.
// @Tags         chats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body CreateChatInput true "Other participant"
// @Success      200  {object}  ChatResponse "Existing chat"
// @Success      201  {object}  ChatResponse "New chat"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /chats/create-one-on-one [post]
func CreateOneOnOneChat(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input CreateChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	otherID, err := uuid.Parse(input.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	if otherID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot start a chat with yourself"})
		return
	}

	var other models.User
	if err := database.DB.Select("id").First(&other, "id = ?", otherID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var chat models.Chat
	created := false
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// Serialize creation per pair so two requests cannot open duplicate chats.
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", pairLockKey(userID, otherID)).Error; err != nil {
			return err
		}

		var chatIDs []uuid.UUID
		if err := tx.Model(&models.ChatParticipant{}).
			Group("chat_id").
			Having("COUNT(*) = 2 AND COUNT(*) FILTER (WHERE user_id IN ?) = 2", []uuid.UUID{userID, otherID}).
			Limit(1).
			Pluck("chat_id", &chatIDs).Error; err != nil {
			return err
		}
		if len(chatIDs) > 0 {
			return tx.First(&chat, "id = ?", chatIDs[0]).Error
		}

		if err := tx.Create(&chat).Error; err != nil {
			return err
		}
		participants := []models.ChatParticipant{
			{ChatID: chat.ID, UserID: userID},
			{ChatID: chat.ID, UserID: otherID},
		}
		if err := tx.Omit(clause.Associations).Create(&participants).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		logger.Log.Errorw("failed to create chat", "user_id", userID, "other_id", otherID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chat"})
		return
	}

	resp := ChatResponse{ChatID: chat.ID.String(), CreatedAt: chat.CreatedAt}
	if created {
		c.JSON(http.StatusCreated, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetUserChats godoc
// @Summary      List chat ids of a user
// @Tags         chats
// @Produce      json
// @Security     BearerAuth
// @Param        user_id path string true "User ID (must be the caller)"
// @Success      200  {object}  map[string][]string "{"chats": ["..."]}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /chats/user-chats/{user_id} [get]
func GetUserChats(c *gin.Context) {
	userID, ok := chatOwner(c)
	if !ok {
		return
	}

	var chatIDs []uuid.UUID
	if err := database.DB.Model(&models.ChatParticipant{}).
		Where("user_id = ?", userID).
		Pluck("chat_id", &chatIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve chats"})
		return
	}

	ids := make([]string, 0, len(chatIDs))
	for _, id := range chatIDs {
		ids = append(ids, id.String())
	}
	c.JSON(http.StatusOK, gin.H{"chats": ids})
}

// GetUserChatsDetailed godoc
// @Summary      List chats of a user with previews
// @Description  Each chat carries the other participant and its latest message. Most recent activity first.
// @Tags         chats
// @Produce      json
// @Security     BearerAuth
// @Param        user_id path string true "User ID (must be the caller)"
// @Success      200  {array}   ChatDetailResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /chats/user-chats-detailed/{user_id} [get]
func GetUserChatsDetailed(c *gin.Context) {
	userID, ok := chatOwner(c)
	if !ok {
		return
	}

	var chats []models.Chat
	if err := database.DB.
		Preload("Participants.User").
		Where("id IN (?)", database.DB.Model(&models.ChatParticipant{}).Select("chat_id").Where("user_id = ?", userID)).
		Find(&chats).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve chats"})
		return
	}

	details := make([]ChatDetailResponse, 0, len(chats))
	for _, chat := range chats {
		detail := ChatDetailResponse{ChatID: chat.ID.String(), CreatedAt: chat.CreatedAt}
		for _, p := range chat.Participants {
			if p.UserID != userID {
				detail.OtherParticipant = &ChatParticipantResponse{ID: p.UserID.String(), Email: p.User.Email}
				break
			}
		}

		var last models.Message
		err := database.DB.Where("chat_id = ?", chat.ID).Order("sent_at DESC").Take(&last).Error
		switch {
		case err == nil:
			detail.LastMessage = &LastMessageResponse{
				ID:       last.ID.String(),
				SenderID: uuidString(last.SenderID),
				Content:  last.Content,
				SentAt:   last.SentAt,
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve messages"})
			return
		}
		details = append(details, detail)
	}

	sort.SliceStable(details, func(i, j int) bool {
		return lastActivity(details[i]).After(lastActivity(details[j]))
	})

	c.JSON(http.StatusOK, details)
}

// region --- helpers ---

// chatOwner parses :user_id and checks that it is the caller.
func chatOwner(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return uuid.Nil, false
	}
	pathID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return uuid.Nil, false
	}
	if pathID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only list your own chats"})
		return uuid.Nil, false
	}
	return userID, true
}

func isChatParticipant(db *gorm.DB, chatID, userID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&models.ChatParticipant{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&count).Error
	return count > 0, err
}

func pairLockKey(a, b uuid.UUID) string {
	if a.String() > b.String() {
		a, b = b, a
	}
	return "chat:" + a.String() + ":" + b.String()
}

func lastActivity(d ChatDetailResponse) time.Time {
	if d.LastMessage != nil {
		return d.LastMessage.SentAt
	}
	return d.CreatedAt
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// endregion
