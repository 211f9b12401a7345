package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wrenchworks/mechshop-backend/pkg/config"
	"github.com/wrenchworks/mechshop-backend/pkg/enums"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "mechshop",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()
	mechanicID := uuid.New()

	payload := AccessTokenPayload{
		SubjectID: mechanicID,
		Role:      enums.ActorRoleMechanic,
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.SubjectID != mechanicID {
		t.Fatalf("expected subject_id %s, got %s", mechanicID, claims.SubjectID)
	}
	if claims.Role != enums.ActorRoleMechanic {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}
	if claims.Subject != mechanicID.String() {
		t.Fatalf("expected subject %s, got %s", mechanicID, claims.Subject)
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "mechshop",
		ExpirationMinutes: 10,
	}
	now := time.Now()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{
		SubjectID: uuid.New(),
		Role:      enums.ActorRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected signature validation failure")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "mechshop",
		ExpirationMinutes: 5,
	}
	past := time.Now().Add(-time.Hour)

	token, err := MintAccessToken(cfg, past, AccessTokenPayload{
		SubjectID: uuid.New(),
		Role:      enums.ActorRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expiry validation failure")
	}
}

func TestMintAccessTokenRejectsInvalidPayload(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "mechshop",
		ExpirationMinutes: 10,
	}
	now := time.Now()

	if _, err := MintAccessToken(cfg, now, AccessTokenPayload{Role: enums.ActorRoleCustomer}); err == nil {
		t.Fatal("expected missing subject id error")
	}
	if _, err := MintAccessToken(cfg, now, AccessTokenPayload{SubjectID: uuid.New(), Role: "janitor"}); err == nil {
		t.Fatal("expected invalid role error")
	}
	if _, err := MintAccessToken(config.JWTConfig{Issuer: "mechshop", ExpirationMinutes: 10}, now, AccessTokenPayload{SubjectID: uuid.New(), Role: enums.ActorRoleCustomer}); err == nil {
		t.Fatal("expected missing secret error")
	}
}
