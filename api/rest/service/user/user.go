package user

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/maintdesk/maintdesk/internal/models"
	"github.com/maintdesk/maintdesk/pkg/apperr"
	"github.com/maintdesk/maintdesk/pkg/db"
	"github.com/maintdesk/maintdesk/pkg/env"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User owns validation and persistence for user accounts. Like the
// task service, it is role-agnostic; gating by the caller's role
// happens at the route layer.
type User interface {
	WithDatabase(*gorm.DB) User
	Create(*CreateRequest) (*models.User, error)
	Get(uuid.UUID) (*models.User, error)
	GetByEmail(string) (*models.User, error)
	List(*ListRequest) (*ListResponse, error)
	Update(uuid.UUID, *UpdateRequest) (*models.User, error)
	SetActive(uuid.UUID, bool) (*models.User, error)
	Delete(uuid.UUID) error
}

type userService struct {
	ctx context.Context
	db  *gorm.DB
}

func Service(ctx context.Context) User {
	return &userService{
		ctx: ctx,
		db:  db.Connection(),
	}
}

func (u *userService) WithDatabase(conn *gorm.DB) User {
	u.db = conn
	return u
}

type CreateRequest struct {
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

func (r *CreateRequest) validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)

	if r.Role == "" {
		r.Role = models.RoleOperator
	}

	switch {
	case r.Email == "" || !strings.Contains(r.Email, "@"):
		return apperr.New(apperr.Validation, "a valid email is required")
	case r.Name == "":
		return apperr.New(apperr.Validation, "name must not be empty")
	case len(r.Password) < 8:
		return apperr.New(apperr.Validation, "password must be at least 8 characters")
	case !r.Role.Valid():
		return apperr.New(apperr.Validation, "invalid role: %v", r.Role)
	}

	return nil
}

// Create persists a new active user. The uniqueness check and the
// insert run in one transaction.
func (u *userService) Create(req *CreateRequest) (*models.User, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}

	err = u.db.WithContext(u.ctx).Transaction(func(tx *gorm.DB) error {
		if err := assertEmailFree(tx, req.Email, uuid.Nil); err != nil {
			return err
		}

		return wrapDBError(tx.Create(user).Error)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (u *userService) Get(id uuid.UUID) (*models.User, error) {
	var user models.User

	err := u.db.WithContext(u.ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, wrapNotFound(err, id.String())
	}

	return &user, nil
}

func (u *userService) GetByEmail(email string) (*models.User, error) {
	var user models.User

	email = strings.ToLower(strings.TrimSpace(email))

	err := u.db.WithContext(u.ctx).First(&user, "email = ?", email).Error
	if err != nil {
		return nil, wrapNotFound(err, email)
	}

	return &user, nil
}

type ListRequest struct {
	Role     models.Role
	IsActive *bool
	Search   string
	Page     int
	Limit    int
}

type ListResponse struct {
	Items      models.Users `json:"items"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"total_pages"`
}

// List returns users filtered by role, activation flag, and a
// case-insensitive search over name and email, newest first.
func (u *userService) List(req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 10
	}

	apply := func() *gorm.DB {
		q := u.db.WithContext(u.ctx).Model(&models.User{})
		if req.Role != "" {
			q = q.Where("role = ?", req.Role)
		}
		if req.IsActive != nil {
			q = q.Where("is_active = ?", *req.IsActive)
		}
		if req.Search != "" {
			pattern := "%" + strings.ToLower(req.Search) + "%"
			q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
		}
		return q
	}

	var total int64
	if err := apply().Count(&total).Error; err != nil {
		return nil, wrapDBError(err)
	}

	items := make(models.Users, 0)
	err := apply().
		Order("created_at DESC").
		Offset((req.Page - 1) * req.Limit).
		Limit(req.Limit).
		Find(&items).Error
	if err != nil {
		return nil, wrapDBError(err)
	}

	return &ListResponse{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: int((total + int64(req.Limit) - 1) / int64(req.Limit)),
	}, nil
}

type UpdateRequest struct {
	Email    *string      `json:"email"`
	Name     *string      `json:"name"`
	Password *string      `json:"password"`
	Role     *models.Role `json:"role"`
	IsActive *bool        `json:"is_active"`
}

// Update applies a partial patch with the same per-field rules as
// creation. Email changes re-check uniqueness against other users.
func (u *userService) Update(id uuid.UUID, req *UpdateRequest) (*models.User, error) {
	err := u.db.WithContext(u.ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return wrapNotFound(err, id.String())
		}

		updates := map[string]interface{}{}

		if req.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*req.Email))
			if email == "" || !strings.Contains(email, "@") {
				return apperr.New(apperr.Validation, "a valid email is required")
			}
			if err := assertEmailFree(tx, email, id); err != nil {
				return err
			}
			updates["email"] = email
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return apperr.New(apperr.Validation, "name must not be empty")
			}
			updates["name"] = name
		}

		if req.Password != nil {
			if len(*req.Password) < 8 {
				return apperr.New(apperr.Validation, "password must be at least 8 characters")
			}
			hash, err := hashPassword(*req.Password)
			if err != nil {
				return err
			}
			updates["password_hash"] = hash
		}

		if req.Role != nil {
			if !req.Role.Valid() {
				return apperr.New(apperr.Validation, "invalid role: %v", *req.Role)
			}
			updates["role"] = *req.Role
		}

		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}

		if len(updates) == 0 {
			return apperr.New(apperr.Validation, "no fields to update")
		}

		return wrapDBError(tx.Model(&user).Updates(updates).Error)
	})
	if err != nil {
		return nil, err
	}

	return u.Get(id)
}

// SetActive toggles the activation flag. Deactivation is always
// allowed; existing task assignments are not re-validated.
func (u *userService) SetActive(id uuid.UUID, active bool) (*models.User, error) {
	return u.Update(id, &UpdateRequest{IsActive: &active})
}

// Delete removes a user. It fails with a conflict while the user
// is the creator or assignee of any task; such users can only be
// deactivated.
func (u *userService) Delete(id uuid.UUID) error {
	return u.db.WithContext(u.ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return wrapNotFound(err, id.String())
		}

		var refs int64
		if err := tx.Model(&models.Task{}).
			Where("created_by = ? OR assigned_to = ?", id, id).
			Count(&refs).Error; err != nil {
			return wrapDBError(err)
		}

		if refs > 0 {
			return apperr.New(apperr.Conflict, "user is referenced by existing tasks and can only be deactivated")
		}

		return wrapDBError(tx.Delete(&user).Error)
	})
}

func assertEmailFree(tx *gorm.DB, email string, exclude uuid.UUID) error {
	var count int64

	q := tx.Model(&models.User{}).Where("email = ?", email)
	if exclude != uuid.Nil {
		q = q.Where("id != ?", exclude)
	}

	if err := q.Count(&count).Error; err != nil {
		return wrapDBError(err)
	}

	if count > 0 {
		return apperr.New(apperr.Conflict, "email %s is already in use", email)
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), env.Variables().BcryptCost)
	if err != nil {
		return "", apperr.Wrap(err, apperr.Internal, "password hashing failure")
	}
	return string(hash), nil
}

func wrapNotFound(err error, ref string) error {
	if err == nil {
		return nil
	}
	if err == gorm.ErrRecordNotFound {
		return apperr.New(apperr.NotFound, "user %s does not exist", ref)
	}
	return wrapDBError(err)
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	return apperr.Wrap(err, apperr.Internal, "database failure")
}
