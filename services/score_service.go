package services

import (
	"time"

	"github.com/anujdhillxn/zenvia/config"
	"github.com/anujdhillxn/zenvia/models"
)

type ScoreEntry struct {
	Date                  string `json:"date"` // YYYY-MM-DD
	Value                 int    `json:"value"`
	UninterruptedTracking *bool  `json:"uninterrupted_tracking"`
}

type ScoreResponse struct {
	Date                  string `json:"date"`
	Value                 int    `json:"value"`
	UninterruptedTracking bool   `json:"uninterrupted_tracking"`
}

func serializeScore(s *models.Score) ScoreResponse {
	return ScoreResponse{
		Date:                  s.Date.Format("2006-01-02"),
		Value:                 s.Value,
		UninterruptedTracking: s.UninterruptedTracking,
	}
}

// GetScores returns the user's scores in the inclusive [start, end] range.
func GetScores(userID uint, start, end time.Time) ([]ScoreResponse, error) {
	var scores []models.Score
	err := config.DB.
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, start, end).
		Order("date").
		Find(&scores).Error
	if err != nil {
		return nil, err
	}
	out := make([]ScoreResponse, 0, len(scores))
	for i := range scores {
		out = append(out, serializeScore(&scores[i]))
	}
	return out, nil
}

// UpsertScores writes one score row per date, overwriting an existing entry
// for the same day. Requires a confirmed duo, like every tracked surface.
func UpsertScores(userID uint, entries []ScoreEntry) ([]ScoreResponse, error) {
	if _, err := GetDuo(userID); err != nil {
		return nil, err
	}

	out := make([]ScoreResponse, 0, len(entries))
	for _, entry := range entries {
		fields := map[string]string{}
		if entry.Date == "" {
			fields["date"] = "is required"
		}
		if entry.Value == 0 {
			fields["value"] = "is required"
		}
		if entry.UninterruptedTracking == nil {
			fields["uninterrupted_tracking"] = "is required"
		}
		if len(fields) > 0 {
			return nil, newValidationError(fields)
		}

		date, err := time.Parse("2006-01-02", entry.Date)
		if err != nil {
			return nil, newValidationError(map[string]string{"date": "invalid date format: " + entry.Date})
		}

		score := models.Score{
			UserID:                userID,
			Date:                  date,
			Value:                 entry.Value,
			UninterruptedTracking: *entry.UninterruptedTracking,
		}
		err = config.DB.
			Where("user_id = ? AND date = ?", userID, date).
			Assign(map[string]interface{}{
				"value":                  score.Value,
				"uninterrupted_tracking": score.UninterruptedTracking,
			}).
			FirstOrCreate(&score).Error
		if err != nil {
			return nil, err
		}
		out = append(out, serializeScore(&score))
	}
	return out, nil
}
