package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	rm     *repomanager.MemoryRepositoryManager
	issuer *auth.Issuer
	users  *UserService
	tasks  *TaskService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rm := repomanager.NewMemoryRepositoryManager()
	issuer := auth.NewIssuer([]byte("test-secret"), 30*time.Minute, 20*time.Minute)
	return &fixture{
		rm:     rm,
		issuer: issuer,
		users:  NewUserService(nil, rm, issuer),
		tasks:  NewTaskService(nil, rm),
	}
}

func (f *fixture) register(t *testing.T, email, password string) *models.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), RegisterInput{
		FirstName: "A",
		LastName:  "B",
		Email:     email,
		Password:  password,
	})
	require.NoError(t, err)
	return u
}

func strPtr(s string) *string { return &s }
