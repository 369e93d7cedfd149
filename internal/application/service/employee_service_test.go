package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	"github.com/sangkips/hotelpos-api/internal/domain/enum"
	infraRepo "github.com/sangkips/hotelpos-api/internal/infrastructure/repository"
	"github.com/sangkips/hotelpos-api/pkg/authadmin"
)

func employeeCtx(businessID, requester uuid.UUID) context.Context {
	ctx := infraRepo.WithBusiness(context.Background(), businessID)
	return infraRepo.WithEmployee(ctx, requester)
}

func TestEmployeeService_Create(t *testing.T) {
	businessID := uuid.New()
	ctx := employeeCtx(businessID, uuid.New())
	input := func() *CreateEmployeeInput {
		return &CreateEmployeeInput{Email: " Sara@Example.com ", Name: "Sara", Role: enum.RoleCashier}
	}

	t.Run("reuses existing auth user", func(t *testing.T) {
		repo, auth := new(mockEmployeeRepo), new(mockAuthAdmin)
		repo.On("ExistsByEmail", ctx, "sara@example.com").Return(false, nil).Once()
		auth.On("FindUserByEmail", ctx, "sara@example.com").Return(&authadmin.User{ID: "uid-1"}, nil).Once()
		repo.On("ExistsByAuthUID", ctx, "uid-1").Return(false, nil).Once()
		repo.On("Create", ctx, mock.MatchedBy(func(e *entity.Employee) bool {
			return e.AuthUID == "uid-1" && e.BusinessID == businessID && e.Role == enum.RoleCashier
		})).Return(nil).Once()

		emp, err := NewEmployeeService(repo, auth).Create(ctx, input())

		require.NoError(t, err)
		assert.Equal(t, "sara@example.com", emp.Email)
		auth.AssertNotCalled(t, "InviteUserByEmail", mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("invites unknown user", func(t *testing.T) {
		repo, auth := new(mockEmployeeRepo), new(mockAuthAdmin)
		repo.On("ExistsByEmail", ctx, "sara@example.com").Return(false, nil).Once()
		auth.On("FindUserByEmail", ctx, "sara@example.com").Return(nil, nil).Once()
		auth.On("InviteUserByEmail", ctx, "sara@example.com").Return(&authadmin.User{ID: "uid-2"}, nil).Once()
		repo.On("ExistsByAuthUID", ctx, "uid-2").Return(false, nil).Once()
		repo.On("Create", ctx, mock.Anything).Return(nil).Once()

		emp, err := NewEmployeeService(repo, auth).Create(ctx, input())

		require.NoError(t, err)
		assert.Equal(t, "uid-2", emp.AuthUID)
		auth.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(mockEmployeeRepo)
		repo.On("ExistsByEmail", ctx, "sara@example.com").Return(true, nil).Once()

		_, err := NewEmployeeService(repo, new(mockAuthAdmin)).Create(ctx, input())

		assert.Equal(t, http.StatusConflict, appCode(t, err))
		assert.EqualError(t, err, "An employee with this email already exists for this business.")
	})

	t.Run("auth user already linked", func(t *testing.T) {
		repo, auth := new(mockEmployeeRepo), new(mockAuthAdmin)
		repo.On("ExistsByEmail", ctx, "sara@example.com").Return(false, nil).Once()
		auth.On("FindUserByEmail", ctx, "sara@example.com").Return(&authadmin.User{ID: "uid-1"}, nil).Once()
		repo.On("ExistsByAuthUID", ctx, "uid-1").Return(true, nil).Once()

		_, err := NewEmployeeService(repo, auth).Create(ctx, input())

		assert.EqualError(t, err, "This user is already linked to this business.")
	})

	t.Run("invalid role", func(t *testing.T) {
		in := input()
		in.Role = "owner"
		_, err := NewEmployeeService(new(mockEmployeeRepo), new(mockAuthAdmin)).Create(ctx, in)
		assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	businessID, self := uuid.New(), uuid.New()
	ctx := employeeCtx(businessID, self)

	t.Run("cannot delete self", func(t *testing.T) {
		_, err := NewEmployeeService(new(mockEmployeeRepo), new(mockAuthAdmin)).Delete(ctx, self)
		assert.EqualError(t, err, "You cannot delete your own employee account.")
	})

	t.Run("auth failure is a warning", func(t *testing.T) {
		repo, auth := new(mockEmployeeRepo), new(mockAuthAdmin)
		id := uuid.New()
		repo.On("GetByID", ctx, id).Return(&entity.Employee{ID: id, AuthUID: "uid-9"}, nil).Once()
		repo.On("Delete", ctx, id).Return(nil).Once()
		auth.On("DeleteUser", ctx, "uid-9").Return(errors.New("boom")).Once()

		res, err := NewEmployeeService(repo, auth).Delete(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, "Employee row deleted, but auth user deletion failed.", res.Warning)
		repo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(mockEmployeeRepo)
		id := uuid.New()
		repo.On("GetByID", ctx, id).Return(nil, nil).Once()

		_, err := NewEmployeeService(repo, new(mockAuthAdmin)).Delete(ctx, id)

		assert.Equal(t, http.StatusNotFound, appCode(t, err))
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := employeeCtx(uuid.New(), uuid.New())
	repo := new(mockEmployeeRepo)
	id := uuid.New()
	repo.On("GetByID", ctx, id).Return(&entity.Employee{ID: id, Name: "Old", Role: enum.RoleCashier}, nil).Once()
	repo.On("Update", ctx, mock.MatchedBy(func(e *entity.Employee) bool {
		return e.Name == "New" && e.Role == enum.RoleManager
	})).Return(nil).Once()

	emp, err := NewEmployeeService(repo, new(mockAuthAdmin)).Update(ctx, id, &UpdateEmployeeInput{Name: " New ", Role: enum.RoleManager})

	require.NoError(t, err)
	assert.Equal(t, "New", emp.Name)
	repo.AssertExpectations(t)
}
