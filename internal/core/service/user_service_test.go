package service

import (
	"context"
	"errors"
	"testing"

	"github.com/demoserver/backend/internal/core/domain"
	"github.com/demoserver/backend/internal/core/ports"
)

func TestUserService_CreateUser_Defaults(t *testing.T) {
	f := newFixture(t, nil)
	u, err := f.userSvc.CreateUser(context.Background(), ports.CreateUserInput{
		Username: "  kim ", Email: "kim@example.com", Password: "pw123456", FullName: "Kim",
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if u.Username != "kim" || u.Role != domain.RoleUser || !u.IsActive {
		t.Fatalf("unexpected defaults %+v", u)
	}
	if u.ID == 0 || u.CreatedAt.IsZero() || u.UpdatedAt != nil {
		t.Fatalf("expected id and created_at assigned, updated_at empty: %+v", u)
	}
}

func TestUserService_CreateUser_Validation(t *testing.T) {
	f := newFixture(t, nil)
	cases := map[string]ports.CreateUserInput{
		"username": {Email: "a@example.com", Password: "pw123456"},
		"email":    {Username: "a", Password: "pw123456"},
		"password": {Username: "a", Email: "a@example.com", Password: "123"},
		"role":     {Username: "a", Email: "a@example.com", Password: "pw123456", Role: "moderator"},
	}
	for field, in := range cases {
		_, err := f.userSvc.CreateUser(context.Background(), in)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) || ve.Field != field {
			t.Errorf("%s: expected validation error, got %v", field, err)
		}
	}
	if f.users.Len() != 0 {
		t.Fatalf("invalid input must not be stored, got %d users", f.users.Len())
	}
}

func TestUserService_ListUsers_Pagination(t *testing.T) {
	f := newFixture(t, nil)
	for _, name := range []string{"u1", "u2", "u3", "u4"} {
		f.mustCreateUser(t, name, "pw123456", domain.RoleUser)
	}

	got, err := f.userSvc.ListUsers(context.Background(), ports.Page{Skip: 1, Limit: 2})
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if len(got) != 2 || got[0].Username != "u2" || got[1].Username != "u3" {
		t.Fatalf("unexpected page %+v", got)
	}
}

func TestUserService_UpdateUser_SelfProfile(t *testing.T) {
	f := newFixture(t, nil)
	u := f.mustCreateUser(t, "leo", "pw123456", domain.RoleUser)
	self := domain.Identity{Subject: u.ID, Role: domain.RoleUser}

	updated, err := f.userSvc.UpdateUser(context.Background(), self, u.ID, ports.UpdateUserInput{
		FullName: ptr("Leo Tolstoy"),
		Email:    ptr("leo@books.example"),
	})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if updated.FullName != "Leo Tolstoy" || updated.Email != "leo@books.example" {
		t.Fatalf("fields not applied: %+v", updated)
	}
	if updated.UpdatedAt == nil {
		t.Fatalf("expected updated_at to be set")
	}
	if updated.Username != "leo" || updated.PasswordHash != u.PasswordHash {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestUserService_UpdateUser_NonAdminCannotEscalate(t *testing.T) {
	f := newFixture(t, nil)
	u := f.mustCreateUser(t, "mia", "pw123456", domain.RoleUser)
	self := domain.Identity{Subject: u.ID, Role: domain.RoleUser}
	ctx := context.Background()

	if _, err := f.userSvc.UpdateUser(ctx, self, u.ID, ports.UpdateUserInput{Role: ptr(domain.RoleAdmin)}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for role change, got %v", err)
	}
	if _, err := f.userSvc.UpdateUser(ctx, self, u.ID, ports.UpdateUserInput{IsActive: ptr(false)}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for is_active change, got %v", err)
	}

	stored, _ := f.userSvc.GetUser(ctx, u.ID)
	if stored.Role != domain.RoleUser || !stored.IsActive {
		t.Fatalf("stored user changed: %+v", stored)
	}
}

func TestUserService_UpdateUser_ConflictLeavesUserUnchanged(t *testing.T) {
	f := newFixture(t, nil)
	f.mustCreateUser(t, "ned", "pw123456", domain.RoleUser)
	olive := f.mustCreateUser(t, "olive", "pw123456", domain.RoleUser)
	admin := domain.Identity{Subject: 100, Role: domain.RoleAdmin}
	ctx := context.Background()

	_, err := f.userSvc.UpdateUser(ctx, admin, olive.ID, ports.UpdateUserInput{
		FullName: ptr("Olive Oyl"),
		Email:    ptr("ned@example.com"),
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	stored, _ := f.userSvc.GetUser(ctx, olive.ID)
	if stored.FullName != "" || stored.Email != "olive@example.com" {
		t.Fatalf("partial update was committed: %+v", stored)
	}
}

func TestUserService_UpdateUser_Validation(t *testing.T) {
	f := newFixture(t, nil)
	u := f.mustCreateUser(t, "pat", "pw123456", domain.RoleUser)
	admin := domain.Identity{Subject: 100, Role: domain.RoleAdmin}

	if _, err := f.userSvc.UpdateUser(context.Background(), admin, u.ID, ports.UpdateUserInput{Username: ptr(" ")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := f.userSvc.UpdateUser(context.Background(), admin, u.ID, ports.UpdateUserInput{Role: ptr(domain.Role("root"))}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown role, got %v", err)
	}
}

func TestUserService_NotFound(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	admin := domain.Identity{Subject: 1, Role: domain.RoleAdmin}

	if _, err := f.userSvc.GetUser(ctx, 404); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("GetUser: expected ErrUserNotFound, got %v", err)
	}
	if _, err := f.userSvc.UpdateUser(ctx, admin, 404, ports.UpdateUserInput{FullName: ptr("x")}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("UpdateUser: expected ErrNotFound, got %v", err)
	}
	if err := f.userSvc.DeleteUser(ctx, 404); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("DeleteUser: expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_DeleteFreesUsername(t *testing.T) {
	f := newFixture(t, nil)
	u := f.mustCreateUser(t, "quinn", "pw123456", domain.RoleUser)
	if err := f.userSvc.DeleteUser(context.Background(), u.ID); err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}
	again := f.mustCreateUser(t, "quinn", "pw123456", domain.RoleUser)
	if again.ID == u.ID {
		t.Fatalf("ids must not be reused: %d", again.ID)
	}
}
