package services

import (
	"errors"
	"testing"

	"github.com/anujdhillxn/zenvia/config"
	"github.com/anujdhillxn/zenvia/models"
	"github.com/anujdhillxn/zenvia/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDuo(t *testing.T) (*models.User, *models.User) {
	t.Helper()
	testutil.SetupTestDB(t)
	alice := testutil.CreateUser(t, "alice")
	bob := testutil.CreateUser(t, "bob")
	testutil.CreateDuo(t, alice, bob)
	return alice, bob
}

func ruleInput(app string) RuleInput {
	return RuleInput{App: app, RuleSettings: baseSettings()}
}

type recordedPush struct {
	UserID uint
	Title  string
}

type recordedEvent struct {
	UserID uint
	Kind   string
}

// notificationRecorder stands in for the SNS client and the websocket hub.
type notificationRecorder struct {
	pushes []recordedPush
	events []recordedEvent
}

func (r *notificationRecorder) PushToUser(userID uint, title, body string, data map[string]string) {
	r.pushes = append(r.pushes, recordedPush{UserID: userID, Title: title})
}

func (r *notificationRecorder) Broadcast(userID uint, payload any) {
	kind := ""
	if m, ok := payload.(map[string]any); ok {
		kind, _ = m["kind"].(string)
	}
	r.events = append(r.events, recordedEvent{UserID: userID, Kind: kind})
}

func captureNotifications(t *testing.T) *notificationRecorder {
	t.Helper()
	rec := &notificationRecorder{}
	InitEventDeps(rec, rec)
	t.Cleanup(func() { InitEventDeps(nil, nil) })
	return rec
}

func TestCreateRuleAndList(t *testing.T) {
	alice, bob := setupDuo(t)

	created, err := CreateRule(alice.ID, ruleInput("com.example.app"))
	require.NoError(t, err)
	assert.Equal(t, "com.example.app", created.App)
	assert.True(t, created.IsMyRule)
	assert.Nil(t, created.ModificationData)

	rules, err := ListRules(alice.ID)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.True(t, rules[0].IsMyRule)
	assert.Nil(t, rules[0].ModificationData)

	// partner sees the same rule, not marked as theirs
	rules, err = ListRules(bob.ID)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.False(t, rules[0].IsMyRule)
}

func TestCreateRuleConflict(t *testing.T) {
	alice, _ := setupDuo(t)

	_, err := CreateRule(alice.ID, ruleInput("com.example.app"))
	require.NoError(t, err)

	_, err = CreateRule(alice.ID, ruleInput("com.example.app"))
	assert.ErrorIs(t, err, ErrRuleExists)
}

func TestCreateRuleValidation(t *testing.T) {
	alice, _ := setupDuo(t)

	input := ruleInput("com.example.app")
	input.InterventionType = "SOFT"
	_, err := CreateRule(alice.ID, input)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "interventionType")
}

func TestListRequiresDuo(t *testing.T) {
	testutil.SetupTestDB(t)
	loner := testutil.CreateUser(t, "loner")

	_, err := ListRules(loner.ID)
	assert.ErrorIs(t, err, ErrNotInDuo)
}

func TestUpdateRuleDirectTightening(t *testing.T) {
	alice, _ := setupDuo(t)
	_, err := CreateRule(alice.ID, ruleInput("com.example.app"))
	require.NoError(t, err)

	input := ruleInput("com.example.app")
	input.DailyMaxSeconds = 1800
	input.HourlyMaxSeconds = 600
	input.SessionMaxSeconds = 300

	resp, proposed, err := UpdateRule(alice.ID, "alice", input)
	require.NoError(t, err)
	assert.False(t, proposed)
	assert.Equal(t, 1800, resp.DailyMaxSeconds)
	assert.Nil(t, resp.ModificationData)

	var count int64
	config.DB.Model(&models.RuleModificationRequest{}).Count(&count)
	assert.Zero(t, count)
}

func TestUpdateRuleLooseningCreatesRequest(t *testing.T) {
	alice, _ := setupDuo(t)
	_, err := CreateRule(alice.ID, ruleInput("com.example.app"))
	require.NoError(t, err)

	input := ruleInput("com.example.app")
	input.DailyMaxSeconds = 7200

	resp, proposed, err := UpdateRule(alice.ID, "alice", input)
	require.NoError(t, err)
	assert.True(t, proposed)

	// the rule itself is untouched until the partner approves
	assert.Equal(t, 3600, resp.DailyMaxSeconds)
	require.NotNil(t, resp.ModificationData)
	assert.Equal(t, 7200, resp.ModificationData.DailyMaxSeconds)

	var request models.RuleModificationRequest
	require.NoError(t, config.DB.Where("user_id = ? AND app = ?", alice.ID, "com.example.app").First(&request).Error)
	assert.Equal(t, 7200, request.DailyMaxSeconds)
}

func TestUpdateRuleReplacesPendingRequest(t *testing.T) {
	alice, _ := setupDuo(t)
	_, err := CreateRule(alice.ID, ruleInput("com.example.app"))
	require.NoError(t, err)

	input := ruleInput("com.example.app")
	input.DailyMaxSeconds = 7200
	_, _, err = UpdateRule(alice.ID, "alice", input)
	require.NoError(t, err)

	input.DailyMaxSeconds = 9000
	_, _, err = UpdateRule(alice.ID, "alice", input)
	require.NoError(t, err)

	var requests []models.RuleModificationRequest
	require.NoError(t, config.DB.Where("user_id = ?", alice.ID).Find(&requests).Error)
	require.Len(t, requests, 1)
	assert.Equal(t, 9000, requests[0].DailyMaxSeconds)
}

func TestUpdateRuleNotOwned(t *testing.T) {
	alice, bob := setupDuo(t)
	_, err := CreateRule(alice.ID, ruleInput("com.example.app"))
	require.NoError(t, err)

	// bob cannot update alice's rule, not even into a proposal
	_, _, err = UpdateRule(bob.ID, "bob", ruleInput("com.example.app"))
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestUpdateRuleRequiresDuo(t *testing.T) {
	testutil.SetupTestDB(t)
	loner := testutil.CreateUser(t, "loner")
	_, err := CreateRule(loner.ID, ruleInput("com.example.app"))
	require.NoError(t, err)

	_, _, err = UpdateRule(loner.ID, "loner", ruleInput("com.example.app"))
	assert.ErrorIs(t, err, ErrNotInDuo)
}

func TestUpdateRuleValidation(t *testing.T) {
	alice, _ := setupDuo(t)
	_, err := CreateRule(alice.ID, ruleInput("com.example.app"))
	require.NoError(t, err)

	input := ruleInput("com.example.app")
	input.DailyReset = "not-a-time"
	_, _, err = UpdateRule(alice.ID, "alice", input)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "dailyReset")
}

func TestApproveCopiesAllFieldsAndDeletesRequest(t *testing.T) {
	alice, bob := setupDuo(t)
	_, err := CreateRule(alice.ID, ruleInput("com.example.app"))
	require.NoError(t, err)

	input := ruleInput("com.example.app")
	input.IsActive = false
	input.DailyMaxSeconds = 7200
	input.HourlyMaxSeconds = 1200
	input.SessionMaxSeconds = 600
	input.IsDailyMaxSecondsEnforced = false
	input.IsHourlyMaxSecondsEnforced = false
	input.IsSessionMaxSecondsEnforced = false
	input.DailyReset = "06:30:00"
	input.InterventionType = models.InterventionPartial
	input.IsStartupDelayEnabled = false

	_, proposed, err := UpdateRule(alice.ID, "alice", input)
	require.NoError(t, err)
	require.True(t, proposed)

	resp, err := ApproveModificationRequest(bob.ID, "bob", "com.example.app")
	require.NoError(t, err)

	// full overwrite: the rule's settings equal the request's settings
	assert.Equal(t, input.RuleSettings, resp.RuleSettings)

	var rule models.Rule
	require.NoError(t, config.DB.Where("user_id = ? AND app = ?", alice.ID, "com.example.app").First(&rule).Error)
	assert.Equal(t, input.RuleSettings, rule.RuleSettings)

	var count int64
	config.DB.Model(&models.RuleModificationRequest{}).Count(&count)
	assert.Zero(t, count)
}

func TestApproveWithoutPendingRequest(t *testing.T) {
	alice, bob := setupDuo(t)
	_, err := CreateRule(alice.ID, ruleInput("com.example.app"))
	require.NoError(t, err)

	_, err = ApproveModificationRequest(bob.ID, "bob", "com.example.app")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestApproveOwnRequestFails(t *testing.T) {
	alice, _ := setupDuo(t)
	_, err := CreateRule(alice.ID, ruleInput("com.example.app"))
	require.NoError(t, err)

	input := ruleInput("com.example.app")
	input.DailyMaxSeconds = 7200
	_, _, err = UpdateRule(alice.ID, "alice", input)
	require.NoError(t, err)

	// approve looks up the partner's request; alice has none under bob
	_, err = ApproveModificationRequest(alice.ID, "alice", "com.example.app")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestApproveRequiresDuo(t *testing.T) {
	testutil.SetupTestDB(t)
	loner := testutil.CreateUser(t, "loner")

	_, err := ApproveModificationRequest(loner.ID, "loner", "com.example.app")
	assert.ErrorIs(t, err, ErrNotInDuo)
}

func TestWithdrawModificationRequest(t *testing.T) {
	alice, bob := setupDuo(t)
	_, err := CreateRule(alice.ID, ruleInput("com.example.app"))
	require.NoError(t, err)

	input := ruleInput("com.example.app")
	input.DailyMaxSeconds = 7200
	_, _, err = UpdateRule(alice.ID, "alice", input)
	require.NoError(t, err)

	// the partner does not own the request and cannot withdraw it
	_, err = WithdrawModificationRequest(bob.ID, "com.example.app")
	assert.ErrorIs(t, err, ErrRequestNotFound)

	resp, err := WithdrawModificationRequest(alice.ID, "com.example.app")
	require.NoError(t, err)
	assert.Equal(t, 3600, resp.DailyMaxSeconds)
	assert.Nil(t, resp.ModificationData)

	var count int64
	config.DB.Model(&models.RuleModificationRequest{}).Count(&count)
	assert.Zero(t, count)
}

func TestDeleteRuleCascadesPendingRequest(t *testing.T) {
	alice, bob := setupDuo(t)
	_, err := CreateRule(alice.ID, ruleInput("com.example.app"))
	require.NoError(t, err)

	input := ruleInput("com.example.app")
	input.DailyMaxSeconds = 7200
	_, _, err = UpdateRule(alice.ID, "alice", input)
	require.NoError(t, err)

	require.NoError(t, DeleteRule(alice.ID, "com.example.app"))

	var count int64
	config.DB.Model(&models.Rule{}).Count(&count)
	assert.Zero(t, count)
	config.DB.Model(&models.RuleModificationRequest{}).Count(&count)
	assert.Zero(t, count)

	// no dangling request left to resurrect the rule through approval
	_, err = ApproveModificationRequest(bob.ID, "bob", "com.example.app")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestDeleteRuleNotOwned(t *testing.T) {
	alice, bob := setupDuo(t)
	_, err := CreateRule(alice.ID, ruleInput("com.example.app"))
	require.NoError(t, err)

	assert.ErrorIs(t, DeleteRule(bob.ID, "com.example.app"), ErrRuleNotFound)
}

func TestListRulesStableOrder(t *testing.T) {
	alice, bob := setupDuo(t)
	_, err := CreateRule(bob.ID, ruleInput("com.example.app"))
	require.NoError(t, err)
	_, err = CreateRule(alice.ID, ruleInput("com.example.app"))
	require.NoError(t, err)
	_, err = CreateRule(alice.ID, ruleInput("com.aaa.app"))
	require.NoError(t, err)

	rules, err := ListRules(alice.ID)
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, "com.aaa.app", rules[0].App)

	// same app for both members sorts by owner
	assert.Equal(t, "com.example.app", rules[1].App)
	assert.True(t, rules[1].IsMyRule)
	assert.Equal(t, "com.example.app", rules[2].App)
	assert.False(t, rules[2].IsMyRule)
}

func TestCreateRuleDisplayName(t *testing.T) {
	alice, _ := setupDuo(t)

	input := ruleInput("com.example.app")
	input.AppDisplayName = "Example"
	created, err := CreateRule(alice.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Example", created.AppDisplayName)

	// falls back to the app identifier when the client sends none
	other, err := CreateRule(alice.ID, ruleInput("com.other.app"))
	require.NoError(t, err)
	assert.Equal(t, "com.other.app", other.AppDisplayName)
}

func TestUpdateRuleRenamesWithoutApproval(t *testing.T) {
	alice, _ := setupDuo(t)
	input := ruleInput("com.example.app")
	input.AppDisplayName = "Example"
	_, err := CreateRule(alice.ID, input)
	require.NoError(t, err)

	// the rename lands immediately even though the limit raise must wait
	update := ruleInput("com.example.app")
	update.AppDisplayName = "Example Pro"
	update.DailyMaxSeconds = 7200
	resp, proposed, err := UpdateRule(alice.ID, "alice", update)
	require.NoError(t, err)
	require.True(t, proposed)
	assert.Equal(t, "Example Pro", resp.AppDisplayName)
	assert.Equal(t, 3600, resp.DailyMaxSeconds)

	var rule models.Rule
	require.NoError(t, config.DB.Where("user_id = ? AND app = ?", alice.ID, "com.example.app").First(&rule).Error)
	assert.Equal(t, "Example Pro", rule.AppDisplayName)
	assert.Equal(t, 3600, rule.DailyMaxSeconds)
}

func TestApproveCleansUpRequestWithoutRule(t *testing.T) {
	alice, bob := setupDuo(t)

	// a request whose rule no longer exists has no owner-side path left
	stray := models.RuleModificationRequest{UserID: alice.ID, App: "com.example.app", RuleSettings: baseSettings()}
	require.NoError(t, config.DB.Create(&stray).Error)

	_, err := ApproveModificationRequest(bob.ID, "bob", "com.example.app")
	assert.ErrorIs(t, err, ErrRequestNotFound)

	var count int64
	config.DB.Model(&models.RuleModificationRequest{}).Count(&count)
	assert.Zero(t, count)
}

func TestWithdrawCleansUpRequestWithoutRule(t *testing.T) {
	alice, _ := setupDuo(t)

	stray := models.RuleModificationRequest{UserID: alice.ID, App: "com.example.app", RuleSettings: baseSettings()}
	require.NoError(t, config.DB.Create(&stray).Error)

	_, err := WithdrawModificationRequest(alice.ID, "com.example.app")
	assert.ErrorIs(t, err, ErrRequestNotFound)

	var count int64
	config.DB.Model(&models.RuleModificationRequest{}).Count(&count)
	assert.Zero(t, count)
}

func TestProposalNotifiesPartner(t *testing.T) {
	alice, bob := setupDuo(t)
	_, err := CreateRule(alice.ID, ruleInput("com.example.app"))
	require.NoError(t, err)

	rec := captureNotifications(t)

	input := ruleInput("com.example.app")
	input.DailyMaxSeconds = 7200
	_, _, err = UpdateRule(alice.ID, "alice", input)
	require.NoError(t, err)

	require.Len(t, rec.pushes, 1)
	assert.Equal(t, bob.ID, rec.pushes[0].UserID)
	assert.Equal(t, "Rule modification request", rec.pushes[0].Title)
	require.Len(t, rec.events, 1)
	assert.Equal(t, bob.ID, rec.events[0].UserID)
	assert.Equal(t, "rule.modification_requested", rec.events[0].Kind)
}

func TestApprovalNotifiesProposer(t *testing.T) {
	alice, bob := setupDuo(t)
	_, err := CreateRule(alice.ID, ruleInput("com.example.app"))
	require.NoError(t, err)

	input := ruleInput("com.example.app")
	input.DailyMaxSeconds = 7200
	_, _, err = UpdateRule(alice.ID, "alice", input)
	require.NoError(t, err)

	rec := captureNotifications(t)

	_, err = ApproveModificationRequest(bob.ID, "bob", "com.example.app")
	require.NoError(t, err)

	require.Len(t, rec.pushes, 1)
	assert.Equal(t, alice.ID, rec.pushes[0].UserID)
	assert.Equal(t, "Rule modification request approved", rec.pushes[0].Title)
	require.Len(t, rec.events, 1)
	assert.Equal(t, alice.ID, rec.events[0].UserID)
	assert.Equal(t, "rule.modification_approved", rec.events[0].Kind)
}

func TestDirectUpdateSendsNoPush(t *testing.T) {
	alice, bob := setupDuo(t)
	_, err := CreateRule(alice.ID, ruleInput("com.example.app"))
	require.NoError(t, err)

	rec := captureNotifications(t)

	input := ruleInput("com.example.app")
	input.DailyMaxSeconds = 1800
	_, proposed, err := UpdateRule(alice.ID, "alice", input)
	require.NoError(t, err)
	require.False(t, proposed)

	assert.Empty(t, rec.pushes)

	// the partner still gets the sync event
	require.Len(t, rec.events, 1)
	assert.Equal(t, bob.ID, rec.events[0].UserID)
	assert.Equal(t, "rule.updated", rec.events[0].Kind)
}
