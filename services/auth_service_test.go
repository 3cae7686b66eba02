package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/repositories"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*models.User), nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if _, taken := f.byEmail[user.Email]; taken {
		return repositories.ErrEmailTaken
	}
	user.ID = f.nextID
	f.nextID++
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alex Organizer",
		Email:    "alex@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleOrganizer, user.Role)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	logged, err := svc.Login(context.Background(), LoginInput{
		Email:    "alex@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alex",
		Email:    "alex@example.com",
		Password: "short",
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegister_EmailTaken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), RegisterInput{Name: "B", Email: "a@example.com", Password: "password2"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{Email: "a@example.com", Password: "password2"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
