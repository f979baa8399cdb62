package services

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ams-portal/internal/dto"
	"ams-portal/internal/entities"
	"ams-portal/pkg/contextkeys"
	apperrors "ams-portal/pkg/errors"
	"ams-portal/pkg/types"
)

// --- fakes ---

type fakeUserRepo struct {
	users map[string]*entities.User
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*entities.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}
func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return nil, apperrors.ErrNotFound
}
func (f *fakeUserRepo) GetAll(ctx context.Context, filter types.Filter) ([]*entities.User, uint64, error) {
	return nil, 0, nil
}
func (f *fakeUserRepo) Create(ctx context.Context, u entities.User) (string, error) { return u.ID, nil }
func (f *fakeUserRepo) Update(ctx context.Context, id string, u entities.User) error {
	return nil
}
func (f *fakeUserRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeResourceRepo struct {
	ticketsByUser map[string][]string
	err           error
}

func (f *fakeResourceRepo) TicketIDsByUser(ctx context.Context, userID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ticketsByUser[userID], nil
}
func (f *fakeResourceRepo) ListByTicket(ctx context.Context, ticketID string) ([]*entities.TicketResource, error) {
	return nil, nil
}
func (f *fakeResourceRepo) Assign(ctx context.Context, res entities.TicketResource) error { return nil }
func (f *fakeResourceRepo) Unassign(ctx context.Context, ticketID, userID string) error   { return nil }

// fakeTicketRepo records the filter each List call receives.
type fakeTicketRepo struct {
	lastFilter *entities.TicketFilter
	listCalls  int
}

func (f *fakeTicketRepo) List(ctx context.Context, filter entities.TicketFilter, pagination types.Filter) ([]dto.TicketDTO, uint64, error) {
	f.listCalls++
	f.lastFilter = &filter
	if filter.ForceEmpty {
		return []dto.TicketDTO{}, 0, nil
	}
	return []dto.TicketDTO{}, 0, nil
}
func (f *fakeTicketRepo) FindByID(ctx context.Context, id string) (*dto.TicketDTO, error) {
	return nil, apperrors.ErrNotFound
}
func (f *fakeTicketRepo) Create(ctx context.Context, t entities.Ticket) (string, error) {
	return t.ID, nil
}
func (f *fakeTicketRepo) Update(ctx context.Context, id string, t entities.Ticket) error { return nil }
func (f *fakeTicketRepo) SoftDelete(ctx context.Context, id string) error                { return nil }
func (f *fakeTicketRepo) FindEntity(ctx context.Context, id string) (*entities.Ticket, error) {
	return nil, apperrors.ErrNotFound
}

// --- helpers ---

func ctxForUser(userID string) context.Context {
	return context.WithValue(context.Background(), contextkeys.UserIDKey, userID)
}

func newTicketServiceForTest(users map[string]*entities.User, resources *fakeResourceRepo) (*TicketService, *fakeTicketRepo) {
	ticketRepo := &fakeTicketRepo{}
	svc := &TicketService{
		ticketRepo:   ticketRepo,
		resourceRepo: resources,
		userRepo:     &fakeUserRepo{users: users},
		logger:       zap.NewNop(),
	}
	return svc, ticketRepo
}

func clientUser(id, partnerID string, role entities.Role) *entities.User {
	u := &entities.User{ID: id, Role: role, IsClient: true, Active: true}
	if partnerID != "" {
		u.PartnerID = null.StringFrom(partnerID)
	}
	return u
}

// --- tests ---

func TestClientUserIsPinnedToOwnPartner(t *testing.T) {
	users := map[string]*entities.User{
		"u1": clientUser("u1", "partner-1", entities.RoleManager),
	}
	svc, repo := newTicketServiceForTest(users, &fakeResourceRepo{})

	_, _, err := svc.GetTickets(ctxForUser("u1"), dto.TicketQueryDTO{}, types.Filter{})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter)
	assert.Equal(t, "partner-1", repo.lastFilter.PartnerID)
	assert.False(t, repo.lastFilter.ForceEmpty)
}

func TestClientUserWithoutPartnerSeesNothing(t *testing.T) {
	users := map[string]*entities.User{
		"u1": clientUser("u1", "", entities.RoleAdministrator),
	}
	svc, repo := newTicketServiceForTest(users, &fakeResourceRepo{})

	tickets, total, err := svc.GetTickets(ctxForUser("u1"), dto.TicketQueryDTO{}, types.Filter{})
	require.NoError(t, err)
	assert.Empty(t, tickets)
	assert.Zero(t, total)
	require.NotNil(t, repo.lastFilter)
	assert.True(t, repo.lastFilter.ForceEmpty)
}

func TestFunctionalAdmSeesOnlyAllocatedTickets(t *testing.T) {
	users := map[string]*entities.User{
		"u1": {ID: "u1", Role: entities.RoleFunctional, IsClient: false, Active: true},
	}
	resources := &fakeResourceRepo{ticketsByUser: map[string][]string{
		"u1": {"t-1", "t-2"},
	}}
	svc, repo := newTicketServiceForTest(users, resources)

	_, _, err := svc.GetTickets(ctxForUser("u1"), dto.TicketQueryDTO{}, types.Filter{})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter)
	assert.Equal(t, []string{"t-1", "t-2"}, repo.lastFilter.TicketIDs)
	assert.False(t, repo.lastFilter.ForceEmpty)
}

func TestFunctionalAdmWithNoAllocationsSeesNothing(t *testing.T) {
	users := map[string]*entities.User{
		"u1": {ID: "u1", Role: entities.RoleFunctional, IsClient: false, Active: true},
	}
	svc, repo := newTicketServiceForTest(users, &fakeResourceRepo{})

	tickets, _, err := svc.GetTickets(ctxForUser("u1"), dto.TicketQueryDTO{}, types.Filter{})
	require.NoError(t, err)
	assert.Empty(t, tickets)
	require.NotNil(t, repo.lastFilter)
	assert.True(t, repo.lastFilter.ForceEmpty)
}

func TestAdminAdmIsUnrestricted(t *testing.T) {
	users := map[string]*entities.User{
		"u1": {ID: "u1", Role: entities.RoleAdministrator, IsClient: false, Active: true},
	}
	svc, repo := newTicketServiceForTest(users, &fakeResourceRepo{})

	_, _, err := svc.GetTickets(ctxForUser("u1"), dto.TicketQueryDTO{}, types.Filter{})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter)
	assert.False(t, repo.lastFilter.ForceEmpty)
	assert.Empty(t, repo.lastFilter.PartnerID)
	assert.Nil(t, repo.lastFilter.TicketIDs)
}

// A client supplying partner_id must never widen their visibility: the
// mandatory predicate wins and the manual value is ignored.
func TestClientCannotOverridePartnerFilter(t *testing.T) {
	users := map[string]*entities.User{
		"u1": clientUser("u1", "partner-1", entities.RoleAdministrator),
	}
	svc, repo := newTicketServiceForTest(users, &fakeResourceRepo{})

	query := dto.TicketQueryDTO{PartnerID: "partner-2"}
	_, _, err := svc.GetTickets(ctxForUser("u1"), query, types.Filter{})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter)
	assert.Equal(t, "partner-1", repo.lastFilter.PartnerID)
}

func TestAdminAdmCanFilterByPartner(t *testing.T) {
	users := map[string]*entities.User{
		"u1": {ID: "u1", Role: entities.RoleAdministrator, IsClient: false, Active: true},
	}
	svc, repo := newTicketServiceForTest(users, &fakeResourceRepo{})

	query := dto.TicketQueryDTO{PartnerID: "partner-2"}
	_, _, err := svc.GetTickets(ctxForUser("u1"), query, types.Filter{})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter)
	assert.Equal(t, "partner-2", repo.lastFilter.PartnerID)
}

func TestFunctionalAdmCannotUseResourceFilter(t *testing.T) {
	users := map[string]*entities.User{
		"u1": {ID: "u1", Role: entities.RoleFunctional, IsClient: false, Active: true},
	}
	resources := &fakeResourceRepo{ticketsByUser: map[string][]string{
		"u1":    {"t-1"},
		"other": {"t-9"},
	}}
	svc, repo := newTicketServiceForTest(users, resources)

	// The resource_user_id filter is silently dropped for this profile; the
	// caller's own allocations still bound the result.
	query := dto.TicketQueryDTO{ResourceUserID: "other"}
	_, _, err := svc.GetTickets(ctxForUser("u1"), query, types.Filter{})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter)
	assert.Equal(t, []string{"t-1"}, repo.lastFilter.TicketIDs)
}

func TestAdminResourceFilterWithNoTicketsForcesEmpty(t *testing.T) {
	users := map[string]*entities.User{
		"u1": {ID: "u1", Role: entities.RoleAdministrator, IsClient: false, Active: true},
	}
	svc, repo := newTicketServiceForTest(users, &fakeResourceRepo{})

	query := dto.TicketQueryDTO{ResourceUserID: "nobody"}
	tickets, _, err := svc.GetTickets(ctxForUser("u1"), query, types.Filter{})
	require.NoError(t, err)
	assert.Empty(t, tickets)
	require.NotNil(t, repo.lastFilter)
	assert.True(t, repo.lastFilter.ForceEmpty)
}

func TestOptionalFiltersComposeConjunctively(t *testing.T) {
	users := map[string]*entities.User{
		"u1": {ID: "u1", Role: entities.RoleManager, IsClient: false, Active: true},
	}
	svc, repo := newTicketServiceForTest(users, &fakeResourceRepo{})

	isPrivate := false
	createdAfter := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	query := dto.TicketQueryDTO{
		CategoryID:   "cat-1",
		StatusID:     "st-1",
		IsPrivate:    &isPrivate,
		CreatedAfter: &createdAfter,
	}
	_, _, err := svc.GetTickets(ctxForUser("u1"), query, types.Filter{})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter)
	assert.Equal(t, "cat-1", repo.lastFilter.CategoryID)
	assert.Equal(t, "st-1", repo.lastFilter.StatusID)
	require.NotNil(t, repo.lastFilter.IsPrivate)
	assert.False(t, *repo.lastFilter.IsPrivate)
	require.NotNil(t, repo.lastFilter.CreatedAfter)
	assert.True(t, repo.lastFilter.CreatedAfter.Equal(createdAfter))
}

func TestGetTicketsWithoutIdentityFails(t *testing.T) {
	svc, repo := newTicketServiceForTest(map[string]*entities.User{}, &fakeResourceRepo{})

	_, _, err := svc.GetTickets(context.Background(), dto.TicketQueryDTO{}, types.Filter{})
	require.Error(t, err)
	assert.Zero(t, repo.listCalls)
}
