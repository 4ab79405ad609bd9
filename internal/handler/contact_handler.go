package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pairplay/backend/internal/database"
	"pairplay/backend/internal/logger"
	"pairplay/backend/internal/models"
)

// region --- DTOs ---

// AddContactInput names the user to add by email.
type AddContactInput struct {
	Email string `json:"email" binding:"required" example:"friend@example.com"`
}

// ContactResponse is one entry of the caller's contact list.
type ContactResponse struct {
	ID      string    `json:"id"`
	Email   string    `json:"email" example:"friend@example.com"`
	AddedAt time.Time `json:"added_at"`
}

// ContactListResponse wraps the contact list.
type ContactListResponse struct {
	Contacts []ContactResponse `json:"contacts"`
}

// endregion

// AddContact godoc
// @Summary      Add a contact
// @Description  Adds the user with the given email to the caller's contacts. Adding an existing contact is a no-op.
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body AddContactInput true "Contact email"
// @Success      200  {object}  map[string]string "Contact already added"
// @Success      201  {object}  map[string]string "{"message": "...", "contact_id": "...", "email": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /contacts/add [post]
func AddContact(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input AddContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}
	email := normalizeEmail(input.Email)

	var contactUser models.User
	if err := database.DB.Where("email = ?", email).First(&contactUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User with this email does not exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}

	if contactUser.ID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot add yourself as a contact"})
		return
	}

	contact := models.Contact{UserID: userID, ContactID: contactUser.ID}
	if err := database.DB.Create(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusOK, gin.H{"message": "Contact already added"})
			return
		}
		logger.Log.Errorw("failed to add contact", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add contact"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Contact added successfully",
		"contact_id": contactUser.ID.String(),
		"email":      contactUser.Email,
	})
}

// ListContacts godoc
// @Summary      List contacts
// @Description  Returns the caller's contacts, oldest first.
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ContactListResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /contacts/list [get]
func ListContacts(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var contacts []models.Contact
	if err := database.DB.Preload("ContactUser").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&contacts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve contacts"})
		return
	}

	resp := ContactListResponse{Contacts: make([]ContactResponse, 0, len(contacts))}
	for _, contact := range contacts {
		resp.Contacts = append(resp.Contacts, ContactResponse{
			ID:      contact.ContactID.String(),
			Email:   contact.ContactUser.Email,
			AddedAt: contact.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, resp)
}
