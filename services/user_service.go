package services

import (
	"errors"

	"github.com/anujdhillxn/zenvia/config"
	"github.com/anujdhillxn/zenvia/models"

	"gorm.io/gorm"
)

func GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func GetUserProfile(userID uint) (map[string]interface{}, error) {
	user, err := GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"username":        user.Username,
		"email":           user.Email,
		"invitationToken": user.InvitationToken,
	}, nil
}
