package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voluntr/volunteer-api/internal/model"
	"github.com/voluntr/volunteer-api/internal/repository"
	"github.com/voluntr/volunteer-api/internal/service/application"
	apperrors "github.com/voluntr/volunteer-api/pkg/errors"
	"github.com/voluntr/volunteer-api/pkg/logger"
)

type pairKey struct {
	userID        uuid.UUID
	opportunityID uuid.UUID
}

type fakeApplicationRepo struct {
	applications map[uuid.UUID]*model.Application
	pairs        map[pairKey]bool
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{
		applications: make(map[uuid.UUID]*model.Application),
		pairs:        make(map[pairKey]bool),
	}
}

func (f *fakeApplicationRepo) Create(ctx context.Context, app *model.Application) error {
	key := pairKey{app.UserID, app.OpportunityID}
	if f.pairs[key] {
		return repository.ErrDuplicate
	}
	app.ID = uuid.New()
	app.CreatedAt = time.Now()
	f.applications[app.ID] = app
	f.pairs[key] = true
	return nil
}

func (f *fakeApplicationRepo) Get(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	app, ok := f.applications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *app
	return &copied, nil
}

func (f *fakeApplicationRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Application, error) {
	var out []*model.Application
	for _, app := range f.applications {
		if app.UserID == userID {
			out = append(out, app)
		}
	}
	return out, nil
}

func (f *fakeApplicationRepo) ListForOpportunity(ctx context.Context, opportunityID uuid.UUID) ([]*model.Application, error) {
	var out []*model.Application
	for _, app := range f.applications {
		if app.OpportunityID == opportunityID {
			out = append(out, app)
		}
	}
	return out, nil
}

func (f *fakeApplicationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApplicationStatus, notes string) error {
	app, ok := f.applications[id]
	if !ok {
		return repository.ErrNotFound
	}
	app.Status = status
	app.Notes = notes
	return nil
}

func (f *fakeApplicationRepo) CountCompletedForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, app := range f.applications {
		if app.UserID == userID && app.Status == model.ApplicationStatusCompleted {
			count++
		}
	}
	return count, nil
}

type fakeOpportunityRepo struct {
	opportunities map[uuid.UUID]*model.Opportunity
}

func newFakeOpportunityRepo(opps ...*model.Opportunity) *fakeOpportunityRepo {
	f := &fakeOpportunityRepo{opportunities: make(map[uuid.UUID]*model.Opportunity)}
	for _, o := range opps {
		f.opportunities[o.ID] = o
	}
	return f
}

func (f *fakeOpportunityRepo) Create(ctx context.Context, opp *model.Opportunity) error {
	f.opportunities[opp.ID] = opp
	return nil
}

func (f *fakeOpportunityRepo) Get(ctx context.Context, id uuid.UUID) (*model.Opportunity, error) {
	opp, ok := f.opportunities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return opp, nil
}

func (f *fakeOpportunityRepo) List(ctx context.Context, filters *model.OpportunityFilters) ([]*model.Opportunity, error) {
	var out []*model.Opportunity
	for _, o := range f.opportunities {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOpportunityRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	opp, ok := f.opportunities[id]
	if !ok {
		return repository.ErrNotFound
	}
	opp.Status = status
	return nil
}

func (f *fakeOpportunityRepo) IncrementEnrolled(ctx context.Context, id uuid.UUID) error {
	opp, ok := f.opportunities[id]
	if !ok || opp.Status != model.OpportunityStatusActive || opp.Enrolled >= opp.Required {
		return repository.ErrNotFound
	}
	opp.Enrolled++
	return nil
}

type fakeBadgeService struct {
	evaluated []uuid.UUID
}

func (f *fakeBadgeService) EvaluateForUser(ctx context.Context, userID uuid.UUID) ([]*model.Badge, error) {
	f.evaluated = append(f.evaluated, userID)
	return nil, nil
}

func (f *fakeBadgeService) MyBadges(ctx context.Context, userID uuid.UUID) ([]*model.UserBadgeView, error) {
	return nil, nil
}

func (f *fakeBadgeService) Stats(ctx context.Context, userID uuid.UUID) (*model.BadgeStats, error) {
	return &model.BadgeStats{}, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Status = status
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	var out []*model.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

type sentMail struct {
	to      string
	subject string
	content string
}

type fakeEmailService struct {
	sent []sentMail
}

func (f *fakeEmailService) SendWelcome(ctx context.Context, to, name string) error {
	f.sent = append(f.sent, sentMail{to: to, subject: "welcome"})
	return nil
}

func (f *fakeEmailService) SendCustom(ctx context.Context, to, subject, content string) error {
	f.sent = append(f.sent, sentMail{to: to, subject: subject, content: content})
	return nil
}

func newOpportunity(required int) *model.Opportunity {
	return &model.Opportunity{
		Base:     model.Base{ID: uuid.New()},
		Title:    "Beach cleanup",
		Required: required,
		Status:   model.OpportunityStatusActive,
	}
}

func TestApplyCreatesPendingApplication(t *testing.T) {
	opp := newOpportunity(5)
	svc := application.NewService(newFakeApplicationRepo(), newFakeOpportunityRepo(opp), nil, nil, nil, nil, logger.NewLogger(nil))

	app, err := svc.Apply(context.Background(), uuid.New(), opp.ID, "count me in")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusPending, app.Status)
	assert.Equal(t, "count me in", app.Message)
}

func TestApplyRejectsUnknownOpportunity(t *testing.T) {
	svc := application.NewService(newFakeApplicationRepo(), newFakeOpportunityRepo(), nil, nil, nil, nil, logger.NewLogger(nil))

	_, err := svc.Apply(context.Background(), uuid.New(), uuid.New(), "")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestApplyRejectsClosedOpportunity(t *testing.T) {
	opp := newOpportunity(5)
	opp.Status = model.OpportunityStatusClosed
	svc := application.NewService(newFakeApplicationRepo(), newFakeOpportunityRepo(opp), nil, nil, nil, nil, logger.NewLogger(nil))

	_, err := svc.Apply(context.Background(), uuid.New(), opp.ID, "")
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestApplyRejectsDuplicate(t *testing.T) {
	opp := newOpportunity(5)
	svc := application.NewService(newFakeApplicationRepo(), newFakeOpportunityRepo(opp), nil, nil, nil, nil, logger.NewLogger(nil))

	userID := uuid.New()
	_, err := svc.Apply(context.Background(), userID, opp.ID, "")
	require.NoError(t, err)

	_, err = svc.Apply(context.Background(), userID, opp.ID, "again")
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestUpdateStatusEnforcesWorkflow(t *testing.T) {
	opp := newOpportunity(5)
	repo := newFakeApplicationRepo()
	svc := application.NewService(repo, newFakeOpportunityRepo(opp), nil, nil, nil, nil, logger.NewLogger(nil))

	app, err := svc.Apply(context.Background(), uuid.New(), opp.ID, "")
	require.NoError(t, err)

	// pending -> completed skips approval
	_, err = svc.UpdateStatus(context.Background(), app.ID, model.ApplicationStatusCompleted, "")
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	// rejected is terminal
	updated, err := svc.UpdateStatus(context.Background(), app.ID, model.ApplicationStatusRejected, "no slots")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusRejected, updated.Status)

	_, err = svc.UpdateStatus(context.Background(), app.ID, model.ApplicationStatusApproved, "")
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestApprovalConsumesCapacity(t *testing.T) {
	opp := newOpportunity(1)
	oppRepo := newFakeOpportunityRepo(opp)
	svc := application.NewService(newFakeApplicationRepo(), oppRepo, nil, nil, nil, nil, logger.NewLogger(nil))

	first, err := svc.Apply(context.Background(), uuid.New(), opp.ID, "")
	require.NoError(t, err)
	second, err := svc.Apply(context.Background(), uuid.New(), opp.ID, "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), first.ID, model.ApplicationStatusApproved, "")
	require.NoError(t, err)
	assert.Equal(t, 1, opp.Enrolled)

	// capacity exhausted, second approval conflicts
	_, err = svc.UpdateStatus(context.Background(), second.ID, model.ApplicationStatusApproved, "")
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	assert.Equal(t, 1, opp.Enrolled)
}

func TestCompletionTriggersBadgeEvaluation(t *testing.T) {
	opp := newOpportunity(5)
	badgeSvc := &fakeBadgeService{}
	svc := application.NewService(newFakeApplicationRepo(), newFakeOpportunityRepo(opp), nil, badgeSvc, nil, nil, logger.NewLogger(nil))

	userID := uuid.New()
	app, err := svc.Apply(context.Background(), userID, opp.ID, "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), app.ID, model.ApplicationStatusApproved, "")
	require.NoError(t, err)
	assert.Empty(t, badgeSvc.evaluated)

	updated, err := svc.UpdateStatus(context.Background(), app.ID, model.ApplicationStatusCompleted, "great work")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusCompleted, updated.Status)
	require.Len(t, badgeSvc.evaluated, 1)
	assert.Equal(t, userID, badgeSvc.evaluated[0])
}

func TestStatusChangeEmailsApplicant(t *testing.T) {
	opp := newOpportunity(5)
	volunteer := &model.User{
		Base:  model.Base{ID: uuid.New()},
		Email: "alice@example.com",
		Name:  "Alice",
	}
	emailSvc := &fakeEmailService{}
	svc := application.NewService(
		newFakeApplicationRepo(), newFakeOpportunityRepo(opp), newFakeUserRepo(volunteer),
		nil, nil, emailSvc, logger.NewLogger(nil))

	app, err := svc.Apply(context.Background(), volunteer.ID, opp.ID, "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), app.ID, model.ApplicationStatusApproved, "")
	require.NoError(t, err)

	require.Len(t, emailSvc.sent, 1)
	assert.Equal(t, "alice@example.com", emailSvc.sent[0].to)
	assert.Contains(t, emailSvc.sent[0].subject, string(model.ApplicationStatusApproved))
	assert.Contains(t, emailSvc.sent[0].content, "Alice")
}
