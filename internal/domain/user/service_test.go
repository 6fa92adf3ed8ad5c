package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type mockRepository struct {
	byID    map[uuid.UUID]*User
	byEmail map[string]*User
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		byID:    make(map[uuid.UUID]*User),
		byEmail: make(map[string]*User),
	}
}

func (m *mockRepository) Create(ctx context.Context, u *User) error {
	cp := *u
	m.byID[u.ID] = &cp
	m.byEmail[u.Email] = &cp
	return nil
}

func (m *mockRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockRepository) Update(ctx context.Context, u *User) error {
	if _, ok := m.byID[u.ID]; !ok {
		return ErrUserNotFound
	}
	cp := *u
	m.byID[u.ID] = &cp
	m.byEmail[u.Email] = &cp
	return nil
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewService(newMockRepository(), zap.NewNop())

	created, err := svc.Register(context.Background(), RegisterInput{
		Email:    "ana@example.com",
		Username: "ana",
		Password: "correct horse battery",
	})
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "UTC", created.Timezone)
	assert.NotEqual(t, "correct horse battery", created.PasswordHash)

	authed, err := svc.Authenticate(context.Background(), "ana@example.com", "correct horse battery")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, authed.ID)

	_, err = svc.Authenticate(context.Background(), "ana@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newMockRepository(), zap.NewNop())

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "dup@example.com",
		Username: "first",
		Password: "password123",
	})
	assert.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{
		Email:    "dup@example.com",
		Username: "second",
		Password: "password456",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}
