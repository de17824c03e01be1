package controllers

import (
	"net/http"
	"time"

	"github.com/anujdhillxn/zenvia/services"
	"github.com/anujdhillxn/zenvia/utils"

	"github.com/gin-gonic/gin"
)

type JoinDuoInput struct {
	InvitationToken string `json:"invitation_token" binding:"required"`
}

type InviteInput struct {
	Email string `json:"email" binding:"required,email"`
}

func GetDuo(c *gin.Context) {
	uid := c.GetUint("userID")

	duo, err := services.GetDuo(uid)
	if err != nil {
		respondError(c, err)
		return
	}

	user1, err := services.GetUserByID(duo.User1ID)
	if err != nil {
		respondError(c, err)
		return
	}
	user2, err := services.GetUserByID(duo.User2ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user1":     user1.Username,
		"user2":     user2.Username,
		"createdAt": duo.CreatedAt.Format(time.RFC3339),
	})
}

func JoinDuo(c *gin.Context) {
	uid := c.GetUint("userID")

	var input JoinDuoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	duo, err := services.JoinDuo(uid, input.InvitationToken)
	if err != nil {
		respondError(c, err)
		return
	}

	partner, err := services.GetUserByID(duo.User1ID)
	if err != nil {
		respondError(c, err)
		return
	}
	services.EmitDuoEvent(partner.ID, "duo.confirmed", gin.H{"user": c.GetString("username")})

	c.JSON(http.StatusCreated, gin.H{"message": "duo confirmed"})
}

func InviteToDuo(c *gin.Context) {
	uid := c.GetUint("userID")

	var input InviteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := services.GetUserByID(uid)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := utils.SendDuoInviteEmail(input.Email, user.Username, user.InvitationToken); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to send invitation email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "invitation sent"})
}

func LeaveDuo(c *gin.Context) {
	uid := c.GetUint("userID")

	if err := services.LeaveDuo(uid); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
