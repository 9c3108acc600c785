package memory

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// UserRepository implements users.Repository on a Store.
type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	defer r.s.lock(ctx)()

	if r.indexByEmail(user.Email) >= 0 {
		return nil, common.ErrorAlreadyExists
	}

	now := r.s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users = append(r.s.users, copyUser(user))
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	defer r.s.rlock(ctx)()

	i := r.indexByID(id)
	if i < 0 {
		return nil, common.ErrorNotFound
	}
	return copyUser(r.s.users[i]), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer r.s.rlock(ctx)()

	i := r.indexByEmail(email)
	if i < 0 {
		return nil, common.ErrorNotFound
	}
	return copyUser(r.s.users[i]), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	defer r.s.rlock(ctx)()

	out := make([]*models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, copyUser(u))
	}
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	defer r.s.lock(ctx)()

	i := r.indexByID(id)
	if i < 0 {
		return nil, common.ErrorNotFound
	}
	if patch.Email != nil {
		if j := r.indexByEmail(*patch.Email); j >= 0 && j != i {
			return nil, common.ErrorAlreadyExists
		}
	}

	u := r.s.users[i]
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	if patch.Age != nil {
		age := *patch.Age
		u.Age = &age
	}
	u.UpdatedAt = r.s.now()

	return copyUser(u), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (*models.User, error) {
	defer r.s.lock(ctx)()

	i := r.indexByID(id)
	if i < 0 {
		return nil, common.ErrorNotFound
	}
	u := r.s.users[i]
	r.s.users = append(r.s.users[:i], r.s.users[i+1:]...)
	return u, nil
}

func (r *UserRepository) indexByID(id string) int {
	for i, u := range r.s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (r *UserRepository) indexByEmail(email string) int {
	for i, u := range r.s.users {
		if u.Email == email {
			return i
		}
	}
	return -1
}
