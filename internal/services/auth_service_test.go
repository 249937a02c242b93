package services

import (
	"errors"
	"testing"
	"time"

	"inventory_backend/internal/config"
	"inventory_backend/internal/models"
	"inventory_backend/internal/repositories"
	"inventory_backend/pkg/utils"
)

type fakeUserRepo struct {
	users  map[string]*models.User
	hashes map[string]string
	err    error
}

func (f *fakeUserRepo) CreateUser(_ repositories.SQLExecutor, _ *models.User, _ string) (int64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeUserRepo) FindActiveByUsername(username string) (*models.User, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	user, ok := f.users[username]
	if !ok {
		return nil, "", repositories.ErrNotFound
	}
	return user, f.hashes[username], nil
}

func (f *fakeUserRepo) FindUserByID(userID int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) GetUsers() ([]models.User, error) { return nil, errors.New("not implemented") }

func (f *fakeUserRepo) UpdateUser(_ repositories.SQLExecutor, _ *models.User, _ *string) error {
	return errors.New("not implemented")
}

func (f *fakeUserRepo) DeleteUser(_ repositories.SQLExecutor, _ int64) error {
	return errors.New("not implemented")
}

func (f *fakeUserRepo) CredentialTaken(_ repositories.SQLExecutor, _ string, _ *string, _ int64) (bool, error) {
	return false, errors.New("not implemented")
}

func strPtr(s string) *string { return &s }

func newAuthFixture(t *testing.T) (AuthService, *fakeUserRepo, *captureSender) {
	t.Helper()
	utils.InitJWT("test-secret", time.Hour)

	adminHash, err := utils.HashPassword("admin")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	repo := &fakeUserRepo{
		users: map[string]*models.User{
			"admin": {ID: 1, Username: "admin", Role: models.RoleAdmin},
			"manager": {
				ID: 2, Username: "manager", Role: models.RoleManager,
				Email: strPtr("manager@example.com"),
			},
			"legacy": {ID: 3, Username: "legacy", Role: models.RoleRetailer},
		},
		hashes: map[string]string{
			"admin":   adminHash,
			"manager": utils.LegacyDigest("password"),
			"legacy":  utils.LegacyDigest("password"),
		},
	}

	sender := &captureSender{}
	mfa := NewMFAService(config.MFAConfig{CodeLength: 6, CodeExpiry: 5 * time.Minute}, sender)
	return NewAuthService(repo, mfa), repo, sender
}

func TestLoginWithoutEmailIssuesToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	resp, err := svc.Login(LoginRequest{Username: "admin", Password: "admin"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.MFARequired {
		t.Error("MFA required for account without email")
	}
	if resp.AccessToken == "" {
		t.Error("no access token issued")
	}

	claims, err := utils.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Username != "admin" || claims.Role != models.RoleAdmin {
		t.Errorf("claims = %q/%q, want admin/%s", claims.Username, claims.Role, models.RoleAdmin)
	}
}

func TestLoginAcceptsLegacyDigest(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	resp, err := svc.Login(LoginRequest{Username: "legacy", Password: "password"})
	if err != nil {
		t.Fatalf("Login with legacy hash: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("no access token issued")
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)

	tests := []struct {
		name string
		prep func()
		req  LoginRequest
	}{
		{"wrong password", func() {}, LoginRequest{Username: "admin", Password: "nope"}},
		{"unknown user", func() {}, LoginRequest{Username: "ghost", Password: "admin"}},
		{"repository failure", func() { repo.err = repositories.ErrDatabaseError }, LoginRequest{Username: "admin", Password: "admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prep()
			defer func() { repo.err = nil }()

			_, err := svc.Login(tt.req)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestLoginWithEmailRequiresMFA(t *testing.T) {
	svc, _, sender := newAuthFixture(t)

	resp, err := svc.Login(LoginRequest{Username: "manager", Password: "password"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !resp.MFARequired {
		t.Fatal("MFA not required for account with email")
	}
	if resp.AccessToken != "" {
		t.Error("token issued before code verification")
	}
	if sender.email != "manager@example.com" {
		t.Errorf("code sent to %q", sender.email)
	}

	verified, err := svc.VerifyMFA(VerifyMFARequest{Username: "manager", Code: sender.code})
	if err != nil {
		t.Fatalf("VerifyMFA: %v", err)
	}
	if verified.AccessToken == "" {
		t.Error("no token issued after verification")
	}
}

func TestVerifyMFARejectsBadCode(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	if _, err := svc.Login(LoginRequest{Username: "manager", Password: "password"}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	_, err := svc.VerifyMFA(VerifyMFARequest{Username: "manager", Code: "WRONG1"})
	if !errors.Is(err, ErrMFAVerification) {
		t.Errorf("err = %v, want ErrMFAVerification", err)
	}
}

func TestGetUserProfile(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	user, err := svc.GetUserProfile(2)
	if err != nil {
		t.Fatalf("GetUserProfile: %v", err)
	}
	if user.Username != "manager" {
		t.Errorf("username = %q, want manager", user.Username)
	}

	if _, err := svc.GetUserProfile(999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}
