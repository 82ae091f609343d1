package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-for-jwt-signing-000000"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("wall-panel", RoleOperator, testSecret, "heima", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ParseToken(token, testSecret, "heima")
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.Subject != "wall-panel" || claims.Role != RoleOperator {
		t.Errorf("claims = %+v", claims)
	}
	if claims.ID == "" {
		t.Error("JTI should not be empty")
	}
	if !claims.Role.CanOperate() {
		t.Error("operator cannot operate")
	}
}

func TestGenerateToken_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		role    Role
		secret  string
		wantErr error
	}{
		{"no secret", "x", RoleViewer, "", ErrNoSecret},
		{"no subject", " ", RoleViewer, testSecret, ErrTokenInvalid},
		{"bad role", "x", Role("root"), testSecret, ErrTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateToken(tt.subject, tt.role, tt.secret, "heima", 0)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("GenerateToken() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseToken_Rejects(t *testing.T) {
	valid, err := GenerateToken("cli", RoleViewer, testSecret, "heima", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "cli",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		Role: RoleViewer,
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing expired token: %v", err)
	}

	noRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "cli"},
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing role-less token: %v", err)
	}

	tests := []struct {
		name   string
		token  string
		secret string
		issuer string
	}{
		{"wrong secret", valid, "another-secret-another-secret-0000", "heima"},
		{"wrong issuer", valid, testSecret, "someone-else"},
		{"expired", expired, testSecret, ""},
		{"missing role", noRole, testSecret, ""},
		{"garbage", "not.a.token", testSecret, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseToken(tt.token, tt.secret, tt.issuer); !errors.Is(err, ErrTokenInvalid) {
				t.Errorf("ParseToken() error = %v, want ErrTokenInvalid", err)
			}
		})
	}
}

func TestRole(t *testing.T) {
	if RoleViewer.CanOperate() {
		t.Error("viewer can operate")
	}
	if Role("admin").Valid() {
		t.Error("unknown role reported valid")
	}
}
