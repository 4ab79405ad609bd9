package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pairplay/backend/internal/database"
	"pairplay/backend/internal/hub"
	"pairplay/backend/internal/logger"
	"pairplay/backend/internal/models"
)

const EventMessageNew = "message.new"

const maxMessageLength = 4000

// region --- DTOs ---

// SendMessageInput defines the structure for posting to a chat.
type SendMessageInput struct {
	ChatID  string `json:"chat_id" binding:"required"`
	Content string `json:"content" binding:"required" example:"gg"`
}

// MessageResponse is a chat message as returned to clients.
type MessageResponse struct {
	ID          string    `json:"id"`
	ChatID      string    `json:"chat_id"`
	SenderID    *string   `json:"sender_id"`
	SenderEmail *string   `json:"sender_email"`
	Content     string    `json:"content"`
	SentAt      time.Time `json:"sent_at"`
}

// PaginatedMessageResponse documents the paginated message list.
type PaginatedMessageResponse struct {
	Data []MessageResponse `json:"data"`
	Meta PaginationMeta    `json:"meta"`
}

// endregion

// MessageHandler serves chat messages and their live stream.
type MessageHandler struct {
	hub *hub.Hub
}

func NewMessageHandler(h *hub.Hub) *MessageHandler {
	return &MessageHandler{hub: h}
}

// GetMessages godoc
// @Summary      List messages of a chat
// @Description  Oldest first, paginated. Participants only.
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        chat_id path  string true  "Chat ID"
// @Param        page    query int    false "Page number" default(1)
// @Param        limit   query int    false "Items per page" default(50)
// @Success      200  {object}  PaginatedMessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /messages/{chat_id} [get]
func (h *MessageHandler) GetMessages(c *gin.Context) {
	chatID, ok := participantChat(c, c.Param("chat_id"))
	if !ok {
		return
	}
	page, limit := pageParams(c)

	query := database.DB.Preload("Sender").Where("chat_id = ?", chatID).Order("sent_at ASC")
	result, err := Paginate[models.Message](query, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve messages"})
		return
	}

	messages := make([]MessageResponse, 0, len(result.Data))
	for _, m := range result.Data {
		messages = append(messages, toMessageResponse(m))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(messages, result.Meta.TotalItems, page, limit))
}

// SendMessage godoc
// @Summary      Send a message
// @Description  Appends a message to a chat and pushes it to the chat's live stream.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body SendMessageInput true "Message"
// @Success      201  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /messages/send [post]
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var input SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chat_id and content are required"})
		return
	}
	content := strings.TrimSpace(input.Content)
	if content == "" || len(content) > maxMessageLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message content must be between 1 and 4000 characters"})
		return
	}

	chatID, ok := participantChat(c, input.ChatID)
	if !ok {
		return
	}
	senderID, _ := currentUser(c)

	message := models.Message{ChatID: chatID, SenderID: &senderID, Content: content}
	if err := database.DB.Omit("Chat", "Sender").Create(&message).Error; err != nil {
		logger.Log.Errorw("failed to send message", "chat_id", chatID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}
	message.Sender = &models.User{ID: senderID, Email: senderEmail(senderID)}

	resp := toMessageResponse(message)
	h.hub.Broadcast(hub.ChatTopic(chatID.String()), hub.Event{Type: EventMessageNew, Payload: resp})
	c.JSON(http.StatusCreated, resp)
}

// StreamMessages godoc
// @Summary      Stream new messages
// @Description  Server-Sent Events for messages posted to a chat. Participants only.
// @Tags         messages
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        chat_id path string true "Chat ID"
// @Success      200
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /messages/{chat_id}/events [get]
func (h *MessageHandler) StreamMessages(c *gin.Context) {
	chatID, ok := participantChat(c, c.Param("chat_id"))
	if !ok {
		return
	}

	streamTopic(c, h.hub, hub.ChatTopic(chatID.String()))
}

// region --- helpers ---

// participantChat parses rawID and checks that the caller takes part in the chat.
func participantChat(c *gin.Context, rawID string) (uuid.UUID, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return uuid.Nil, false
	}
	chatID, err := uuid.Parse(rawID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat ID"})
		return uuid.Nil, false
	}

	member, err := isChatParticipant(database.DB, chatID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check chat membership"})
		return uuid.Nil, false
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a participant of this chat"})
		return uuid.Nil, false
	}
	return chatID, true
}

// senderEmail reads the current address; the token claim may predate a change_email.
func senderEmail(userID uuid.UUID) string {
	var user models.User
	if err := database.DB.Select("email").First(&user, "id = ?", userID).Error; err != nil {
		return ""
	}
	return user.Email
}

func toMessageResponse(m models.Message) MessageResponse {
	resp := MessageResponse{
		ID:       m.ID.String(),
		ChatID:   m.ChatID.String(),
		SenderID: uuidString(m.SenderID),
		Content:  m.Content,
		SentAt:   m.SentAt,
	}
	if m.Sender != nil {
		email := m.Sender.Email
		resp.SenderEmail = &email
	}
	return resp
}

// endregion
