package controllers

import (
	"net/http"
	"time"

	"github.com/anujdhillxn/zenvia/services"

	"github.com/gin-gonic/gin"
)

type UpsertScoresInput struct {
	Scores []services.ScoreEntry `json:"scores"`
}

// GET /scores?start_date=&end_date=
func GetScores(c *gin.Context) {
	uid := c.GetUint("userID")

	startStr := c.Query("start_date")
	endStr := c.Query("end_date")
	if startStr == "" || endStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date and end_date parameters are required"})
		return
	}

	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}

	scores, err := services.GetScores(uid, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scores)
}

// POST /scores writes one row per date, idempotent overwrite.
func UpsertScores(c *gin.Context) {
	uid := c.GetUint("userID")

	var input UpsertScoresInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.Scores) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Scores data is required"})
		return
	}

	scores, err := services.UpsertScores(uid, input.Scores)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scores)
}
