package services

import (
	"errors"

	"github.com/anujdhillxn/zenvia/config"
	"github.com/anujdhillxn/zenvia/models"

	"gorm.io/gorm"
)

// GetDuo returns the confirmed duo the user belongs to, or ErrNotInDuo.
func GetDuo(userID uint) (*models.Duo, error) {
	var duo models.Duo
	err := config.DB.Where("user1_id = ? OR user2_id = ?", userID, userID).First(&duo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotInDuo
		}
		return nil, err
	}
	return &duo, nil
}

// ResolvePartner finds the other member of the user's confirmed duo.
func ResolvePartner(userID uint) (*models.User, error) {
	duo, err := GetDuo(userID)
	if err != nil {
		return nil, err
	}
	partnerID := duo.User1ID
	if partnerID == userID {
		partnerID = duo.User2ID
	}
	var partner models.User
	if err := config.DB.First(&partner, partnerID).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

// JoinDuo pairs the requester with the owner of the invitation token.
// Either side already being in a duo is a conflict.
func JoinDuo(userID uint, invitationToken string) (*models.Duo, error) {
	var inviter models.User
	err := config.DB.Where("invitation_token = ?", invitationToken).First(&inviter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	if inviter.ID == userID {
		return nil, ErrSelfPairing
	}

	for _, id := range []uint{userID, inviter.ID} {
		if _, err := GetDuo(id); err == nil {
			return nil, ErrAlreadyInDuo
		} else if !errors.Is(err, ErrNotInDuo) {
			return nil, err
		}
	}

	duo := &models.Duo{User1ID: inviter.ID, User2ID: userID}
	if err := config.DB.Create(duo).Error; err != nil {
		return nil, err
	}
	return duo, nil
}

// LeaveDuo dissolves the user's duo. Rules stay with their owners; pending
// modification requests are dropped since there is no approver left.
func LeaveDuo(userID uint) error {
	duo, err := GetDuo(userID)
	if err != nil {
		return err
	}
	return config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id IN ?", []uint{duo.User1ID, duo.User2ID}).
			Delete(&models.RuleModificationRequest{}).Error; err != nil {
			return err
		}
		return tx.Delete(duo).Error
	})
}
