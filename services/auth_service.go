package services

import (
	"errors"

	"github.com/anujdhillxn/zenvia/config"
	"github.com/anujdhillxn/zenvia/models"
	"github.com/anujdhillxn/zenvia/utils"

	"gorm.io/gorm"
)

func RegisterUser(username, email, password string) (*models.User, error) {
	var existing models.User
	err := config.DB.Where("username = ? OR email = ?", username, email).First(&existing).Error
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:        username,
		Email:           email,
		Password:        hashedPassword,
		InvitationToken: utils.NewInvitationToken(),
	}

	if err := config.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func AuthenticateUser(username, password string) (string, error) {
	var user models.User
	result := config.DB.Where("username = ?", username).First(&user)
	if result.Error != nil {
		return "", errors.New("user not found")
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return "", errors.New("incorrect password")
	}

	return utils.GenerateJWT(user.ID, user.Username)
}
