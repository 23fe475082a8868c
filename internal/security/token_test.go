package security_test

import (
	"errors"
	"testing"
	"time"

	"inkwell/api/internal/models"
	"inkwell/api/internal/security"
)

func testCreator(role models.CreatorRole) models.Creator {
	return models.Creator{
		Username:    "anna",
		DisplayName: "Anna",
		Password:    "$argon2id$v=19$t=1,m=8192,p=1$c2FsdA==$aGFzaA==",
		Biography:   "Empty biography.",
		JoinedAt:    time.Now().UTC().Truncate(time.Second),
		Role:        role,
	}
}

func TestIssueValidateRoundTrip(t *testing.T) {
	svc := security.NewTokenService("test-secret", time.Hour)

	token, err := svc.Issue(testCreator(models.CreatorRolePublisher))
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.Subject != "anna" {
		t.Errorf("subject = %q, want anna", claims.Subject)
	}
	if !claims.Admin {
		t.Error("publisher token should carry admin=true")
	}
	if claims.Data.Username != "anna" || claims.Data.Role != models.CreatorRolePublisher {
		t.Errorf("creator snapshot not carried: %+v", claims.Data)
	}
}

func TestWriterTokenIsNotAdmin(t *testing.T) {
	svc := security.NewTokenService("test-secret", time.Hour)

	token, err := svc.Issue(testCreator(models.CreatorRoleWriter))
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.Admin {
		t.Error("writer token should carry admin=false")
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := security.NewTokenService("secret-a", time.Hour)
	verifier := security.NewTokenService("secret-b", time.Hour)

	token, err := issuer.Issue(testCreator(models.CreatorRoleWriter))
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := verifier.Validate(token); !errors.Is(err, security.ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := security.NewTokenService("test-secret", -time.Minute)

	token, err := svc.Issue(testCreator(models.CreatorRoleWriter))
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := svc.Validate(token); !errors.Is(err, security.ErrExpiredToken) {
		t.Errorf("err = %v, want ErrExpiredToken", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := security.NewTokenService("test-secret", time.Hour)
	if _, err := svc.Validate("not.a.token"); !errors.Is(err, security.ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}
