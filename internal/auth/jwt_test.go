package auth

import (
	"testing"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
)

func TestGenerateAndValidateUserToken(t *testing.T) {
	token, err := GenerateUserToken("vendor1", entities.RoleUser)
	if err != nil {
		t.Fatalf("GenerateUserToken failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != "vendor1" {
		t.Errorf("Expected user vendor1, got %s", claims.UserID)
	}
	if claims.Role != entities.RoleUser {
		t.Errorf("Expected user role, got %s", claims.Role)
	}
}

func TestAdminRoleClaim(t *testing.T) {
	token, err := GenerateUserToken("boss", entities.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateUserToken failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.Role != entities.RoleAdmin {
		t.Errorf("Expected admin role, got %s", claims.Role)
	}
}

func TestGenerateRejectsUnknownRole(t *testing.T) {
	if _, err := GenerateUserToken("vendor1", entities.Role("superuser")); err == nil {
		t.Error("Expected unknown role to be rejected")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		if _, err := ValidateToken(token); err != ErrInvalidToken {
			t.Errorf("ValidateToken(%q) = %v, expected ErrInvalidToken", token, err)
		}
	}
}
