package dog

import (
	"context"
	"errors"
	"testing"

	"github.com/dogli-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockDogStore struct{ mock.Mock }

func (m *mockDogStore) Put(ctx context.Context, d *domain.Dog) error {
	return m.Called(ctx, d).Error(0)
}
func (m *mockDogStore) Get(ctx context.Context, dogID string) (*domain.Dog, error) {
	args := m.Called(ctx, dogID)
	if d, _ := args.Get(0).(*domain.Dog); d != nil {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockDogStore) List(ctx context.Context) ([]domain.Dog, error) {
	args := m.Called(ctx)
	ds, _ := args.Get(0).([]domain.Dog)
	return ds, args.Error(1)
}
func (m *mockDogStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.Dog, error) {
	args := m.Called(ctx, ownerID)
	ds, _ := args.Get(0).([]domain.Dog)
	return ds, args.Error(1)
}
func (m *mockDogStore) Update(ctx context.Context, dogID string, updates map[string]interface{}) error {
	return m.Called(ctx, dogID, updates).Error(0)
}
func (m *mockDogStore) Delete(ctx context.Context, dogID string) error {
	return m.Called(ctx, dogID).Error(0)
}
func (m *mockDogStore) Follow(ctx context.Context, followerID, followingID string) error {
	return m.Called(ctx, followerID, followingID).Error(0)
}
func (m *mockDogStore) Unfollow(ctx context.Context, followerID, followingID string) error {
	return m.Called(ctx, followerID, followingID).Error(0)
}

func newSvc(repo *mockDogStore) Service {
	return NewService(ServiceDeps{DogRepo: repo, DefaultImageURL: "https://cdn/defaults/dog.png"})
}

func strPtr(s string) *string { return &s }

// --- Create ---

func TestCreate_DefaultsBreedAndImage(t *testing.T) {
	repo := &mockDogStore{}
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.Dog")).Return(nil)

	d, err := newSvc(repo).Create(context.Background(), "u1", domain.DogInput{Name: "Rex"})

	require.NoError(t, err)
	assert.Equal(t, "u1", d.OwnerID)
	assert.Equal(t, domain.DefaultBreed, d.Breed)
	assert.Equal(t, "https://cdn/defaults/dog.png", d.ProfileImageURL)
	assert.NotEmpty(t, d.DogID)
}

func TestCreate_InvalidBirthdate(t *testing.T) {
	_, err := newSvc(&mockDogStore{}).Create(context.Background(), "u1", domain.DogInput{Name: "Rex", BirthDate: strPtr("01/02/2020")})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestCreate_ParsesBirthdateAndBreed(t *testing.T) {
	repo := &mockDogStore{}
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.Dog")).Return(nil)

	d, err := newSvc(repo).Create(context.Background(), "u1", domain.DogInput{
		Name: "Rex", Breed: strPtr("beagle"), BirthDate: strPtr("2020-02-01"),
	})

	require.NoError(t, err)
	assert.Equal(t, "beagle", d.Breed)
	require.NotNil(t, d.BirthDate)
	assert.Equal(t, 2020, d.BirthDate.Year())
}

// --- Update / Delete ---

func TestUpdate_NotOwned_IsNotFound(t *testing.T) {
	repo := &mockDogStore{}
	repo.On("Get", mock.Anything, "d1").Return(&domain.Dog{DogID: "d1", OwnerID: "u2"}, nil)

	_, err := newSvc(repo).Update(context.Background(), "u1", "d1", domain.DogInput{Name: "Rex"})

	assert.True(t, errors.Is(err, domain.ErrNotFound))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_HappyPath(t *testing.T) {
	repo := &mockDogStore{}
	repo.On("Get", mock.Anything, "d1").Return(&domain.Dog{DogID: "d1", OwnerID: "u1", Name: "Max"}, nil)
	repo.On("Update", mock.Anything, "d1", mock.MatchedBy(func(u map[string]interface{}) bool {
		_, hasBreed := u[fieldBreed]
		return u[fieldName] == "Max" && !hasBreed
	})).Return(nil)

	d, err := newSvc(repo).Update(context.Background(), "u1", "d1", domain.DogInput{Name: "Max"})

	require.NoError(t, err)
	assert.Equal(t, "Max", d.Name)
	repo.AssertExpectations(t)
}

func TestDelete_NotOwned_IsForbidden(t *testing.T) {
	repo := &mockDogStore{}
	repo.On("Get", mock.Anything, "d1").Return(&domain.Dog{DogID: "d1", OwnerID: "u2"}, nil)

	err := newSvc(repo).Delete(context.Background(), "u1", "d1")

	assert.True(t, errors.Is(err, domain.ErrForbidden))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDelete_Missing(t *testing.T) {
	repo := &mockDogStore{}
	repo.On("Get", mock.Anything, "d1").Return(nil, domain.ErrNotFound)

	err := newSvc(repo).Delete(context.Background(), "u1", "d1")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// --- Follow ---

func TestFollow_HappyPath(t *testing.T) {
	repo := &mockDogStore{}
	repo.On("Get", mock.Anything, "mine").Return(&domain.Dog{DogID: "mine", OwnerID: "u1"}, nil)
	repo.On("Get", mock.Anything, "theirs").Return(&domain.Dog{DogID: "theirs", OwnerID: "u2"}, nil)
	repo.On("Follow", mock.Anything, "mine", "theirs").Return(nil)

	err := newSvc(repo).Follow(context.Background(), "u1", domain.FollowRequest{FollowerDogID: "mine", FollowingDogID: "theirs"})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestFollow_FollowerNotOwned(t *testing.T) {
	repo := &mockDogStore{}
	repo.On("Get", mock.Anything, "theirs").Return(&domain.Dog{DogID: "theirs", OwnerID: "u2"}, nil)

	err := newSvc(repo).Follow(context.Background(), "u1", domain.FollowRequest{FollowerDogID: "theirs", FollowingDogID: "other"})

	assert.True(t, errors.Is(err, domain.ErrForbidden))
	repo.AssertNotCalled(t, "Follow", mock.Anything, mock.Anything, mock.Anything)
}

func TestFollow_TargetMissing(t *testing.T) {
	repo := &mockDogStore{}
	repo.On("Get", mock.Anything, "mine").Return(&domain.Dog{DogID: "mine", OwnerID: "u1"}, nil)
	repo.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	err := newSvc(repo).Follow(context.Background(), "u1", domain.FollowRequest{FollowerDogID: "mine", FollowingDogID: "ghost"})

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestFollow_Self(t *testing.T) {
	err := newSvc(&mockDogStore{}).Follow(context.Background(), "u1", domain.FollowRequest{FollowerDogID: "d1", FollowingDogID: "d1"})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestUnfollow_HappyPath(t *testing.T) {
	repo := &mockDogStore{}
	repo.On("Get", mock.Anything, "mine").Return(&domain.Dog{DogID: "mine", OwnerID: "u1"}, nil)
	repo.On("Get", mock.Anything, "theirs").Return(&domain.Dog{DogID: "theirs", OwnerID: "u2"}, nil)
	repo.On("Unfollow", mock.Anything, "mine", "theirs").Return(nil)

	err := newSvc(repo).Unfollow(context.Background(), "u1", domain.FollowRequest{FollowerDogID: "mine", FollowingDogID: "theirs"})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
