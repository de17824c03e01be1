package controllers

import (
	"net/http"

	"github.com/anujdhillxn/zenvia/services"

	"github.com/gin-gonic/gin"
)

type RuleActionInput struct {
	App string `json:"app" binding:"required"`
}

// GET /rules returns every rule visible to the requester and their duo partner,
// each with its pending modification request attached.
func ListRules(c *gin.Context) {
	uid := c.GetUint("userID")

	rules, err := services.ListRules(uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

// POST /rules
func CreateRule(c *gin.Context) {
	uid := c.GetUint("userID")

	var input services.RuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, err := services.CreateRule(uid, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// PUT /rules: tightening changes apply immediately (200); loosening ones
// become a modification request for the partner (201).
func UpdateRule(c *gin.Context) {
	uid := c.GetUint("userID")
	username := c.GetString("username")

	var input services.RuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, proposed, err := services.UpdateRule(uid, username, input)
	if err != nil {
		respondError(c, err)
		return
	}
	if proposed {
		c.JSON(http.StatusCreated, rule)
		return
	}
	c.JSON(http.StatusOK, rule)
}

// DELETE /rules
func DeleteRule(c *gin.Context) {
	uid := c.GetUint("userID")

	var input RuleActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.DeleteRule(uid, input.App); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /rules/approve
func ApproveModificationRequest(c *gin.Context) {
	uid := c.GetUint("userID")
	username := c.GetString("username")

	var input RuleActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, err := services.ApproveModificationRequest(uid, username, input.App)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

// DELETE /rules/modification-request
func WithdrawModificationRequest(c *gin.Context) {
	uid := c.GetUint("userID")

	var input RuleActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, err := services.WithdrawModificationRequest(uid, input.App)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}
