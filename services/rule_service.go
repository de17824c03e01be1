package services

import (
	"errors"
	"time"

	"github.com/anujdhillxn/zenvia/config"
	"github.com/anujdhillxn/zenvia/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RuleInput struct {
	App            string `json:"app" binding:"required"`
	AppDisplayName string `json:"appDisplayName"`
	models.RuleSettings
}

type ModificationData struct {
	App string `json:"app"`
	models.RuleSettings
}

type RuleResponse struct {
	App            string `json:"app"`
	AppDisplayName string `json:"appDisplayName"`
	IsMyRule       bool   `json:"isMyRule"`
	models.RuleSettings
	CreatedAt        string            `json:"createdAt"`
	LastModifiedAt   string            `json:"lastModifiedAt"`
	ModificationData *ModificationData `json:"modificationData"`
}

// sqlite has no SELECT FOR UPDATE and serializes its writers anyway, so the
// row lock is only added on other dialects.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func serializeRule(rule *models.Rule, viewerID uint, pending *models.RuleModificationRequest) RuleResponse {
	resp := RuleResponse{
		App:            rule.App,
		AppDisplayName: rule.AppDisplayName,
		IsMyRule:       rule.UserID == viewerID,
		RuleSettings:   rule.RuleSettings,
		CreatedAt:      rule.CreatedAt.Format(time.RFC3339),
		LastModifiedAt: rule.UpdatedAt.Format(time.RFC3339),
	}
	if pending != nil {
		resp.ModificationData = &ModificationData{App: pending.App, RuleSettings: pending.RuleSettings}
	}
	return resp
}

// ListRules returns every rule visible to the user: their own and their duo
// partner's, each annotated with its pending modification request.
func ListRules(userID uint) ([]RuleResponse, error) {
	partner, err := ResolvePartner(userID)
	if err != nil {
		return nil, err
	}
	memberIDs := []uint{userID, partner.ID}

	var rules []models.Rule
	if err := config.DB.Where("user_id IN ?", memberIDs).Order("app, user_id").Find(&rules).Error; err != nil {
		return nil, err
	}
	var requests []models.RuleModificationRequest
	if err := config.DB.Where("user_id IN ?", memberIDs).Find(&requests).Error; err != nil {
		return nil, err
	}

	type ruleKey struct {
		userID uint
		app    string
	}
	pending := make(map[ruleKey]*models.RuleModificationRequest, len(requests))
	for i := range requests {
		pending[ruleKey{requests[i].UserID, requests[i].App}] = &requests[i]
	}

	out := make([]RuleResponse, 0, len(rules))
	for i := range rules {
		out = append(out, serializeRule(&rules[i], userID, pending[ruleKey{rules[i].UserID, rules[i].App}]))
	}
	return out, nil
}

// CreateRule adds a rule for an app the user has none for yet.
func CreateRule(userID uint, input RuleInput) (*RuleResponse, error) {
	if fields := ValidateRuleSettings(input.RuleSettings); fields != nil {
		return nil, newValidationError(fields)
	}

	var existing models.Rule
	err := config.DB.Where("user_id = ? AND app = ?", userID, input.App).First(&existing).Error
	if err == nil {
		return nil, ErrRuleExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	displayName := input.AppDisplayName
	if displayName == "" {
		displayName = input.App
	}
	rule := models.Rule{UserID: userID, App: input.App, AppDisplayName: displayName, RuleSettings: input.RuleSettings}
	if err := config.DB.Create(&rule).Error; err != nil {
		return nil, err
	}
	resp := serializeRule(&rule, userID, nil)
	return &resp, nil
}

// UpdateRule applies a tightening change directly, or files the payload as a
// modification request for the duo partner to approve. The second return
// value reports which path was taken.
func UpdateRule(userID uint, username string, input RuleInput) (*RuleResponse, bool, error) {
	partner, err := ResolvePartner(userID)
	if err != nil {
		return nil, false, err
	}

	if fields := ValidateRuleSettings(input.RuleSettings); fields != nil {
		return nil, false, newValidationError(fields)
	}

	// The rule is read and rewritten under one transaction so a concurrent
	// delete cannot slip in between and leave a request without its rule.
	var rule models.Rule
	var request models.RuleModificationRequest
	proposed := false
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Where("user_id = ? AND app = ?", userID, input.App).First(&rule).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRuleNotFound
			}
			return err
		}

		// The display name is rule metadata, not approval gated.
		if input.AppDisplayName != "" {
			rule.AppDisplayName = input.AppDisplayName
		}

		if IsDirectlyApplicable(rule.RuleSettings, input.RuleSettings) {
			rule.RuleSettings = input.RuleSettings
			return tx.Save(&rule).Error
		}

		// Loosening change: replace any pending request for this rule.
		proposed = true
		if err := tx.Save(&rule).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND app = ?", userID, input.App).
			Delete(&models.RuleModificationRequest{}).Error; err != nil {
			return err
		}
		request = models.RuleModificationRequest{UserID: userID, App: input.App, RuleSettings: input.RuleSettings}
		return tx.Create(&request).Error
	})
	if err != nil {
		return nil, false, err
	}

	if !proposed {
		EmitDuoEvent(partner.ID, "rule.updated", map[string]any{"app": rule.App, "user": username})
		resp := serializeRule(&rule, userID, nil)
		return &resp, false, nil
	}

	PushToUser(partner.ID, "Rule modification request", username+" has requested a rule modification",
		map[string]string{"app": rule.App})
	EmitDuoEvent(partner.ID, "rule.modification_requested", map[string]any{"app": rule.App, "user": username})

	resp := serializeRule(&rule, userID, &request)
	return &resp, true, nil
}

// ApproveModificationRequest lets the duo partner accept the proposer's
// pending change. All settings are copied verbatim and the request is
// consumed in the same transaction.
func ApproveModificationRequest(userID uint, username string, app string) (*RuleResponse, error) {
	partner, err := ResolvePartner(userID)
	if err != nil {
		return nil, err
	}

	var rule models.Rule
	var voided bool
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var request models.RuleModificationRequest
		if err := lockForUpdate(tx).Where("user_id = ? AND app = ?", partner.ID, app).First(&request).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}

		err := lockForUpdate(tx).Where("user_id = ? AND app = ?", partner.ID, app).First(&rule).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The rule is gone, so the request is void. Drop it here;
			// no other endpoint can reach a request without its rule.
			voided = true
			return tx.Delete(&request).Error
		}
		if err != nil {
			return err
		}

		rule.RuleSettings = request.RuleSettings
		if err := tx.Save(&rule).Error; err != nil {
			return err
		}
		return tx.Delete(&request).Error
	})
	if err != nil {
		return nil, err
	}
	if voided {
		return nil, ErrRequestNotFound
	}

	PushToUser(partner.ID, "Rule modification request approved",
		username+" has approved your rule modification request",
		map[string]string{"app": rule.App})
	EmitDuoEvent(partner.ID, "rule.modification_approved", map[string]any{"app": rule.App, "user": username})

	resp := serializeRule(&rule, userID, nil)
	return &resp, nil
}

// WithdrawModificationRequest deletes the requester's own pending request.
// No notification goes out; the rule is returned unchanged.
func WithdrawModificationRequest(userID uint, app string) (*RuleResponse, error) {
	if _, err := GetDuo(userID); err != nil {
		return nil, err
	}

	var rule models.Rule
	var voided bool
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var request models.RuleModificationRequest
		if err := lockForUpdate(tx).Where("user_id = ? AND app = ?", userID, app).First(&request).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}

		err := lockForUpdate(tx).Where("user_id = ? AND app = ?", userID, app).First(&rule).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Void request, same cleanup as in approval.
			voided = true
			return tx.Delete(&request).Error
		}
		if err != nil {
			return err
		}

		return tx.Delete(&request).Error
	})
	if err != nil {
		return nil, err
	}
	if voided {
		return nil, ErrRequestNotFound
	}

	resp := serializeRule(&rule, userID, nil)
	return &resp, nil
}

// DeleteRule removes a rule the user owns, together with any pending
// modification request for it so no orphaned request survives.
func DeleteRule(userID uint, app string) error {
	return config.DB.Transaction(func(tx *gorm.DB) error {
		var rule models.Rule
		err := lockForUpdate(tx).Where("user_id = ? AND app = ?", userID, app).First(&rule).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRuleNotFound
			}
			return err
		}
		if err := tx.Where("user_id = ? AND app = ?", userID, app).
			Delete(&models.RuleModificationRequest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&rule).Error
	})
}
