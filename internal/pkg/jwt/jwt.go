package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service verifies the auth collaborator's HS256 tokens. Token issuance is
// the auth service's job; this side only reads claims.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
}

type jwtService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &jwtService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *jwtService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// Claims is the slice of the token this engine consumes.
type Claims struct {
	EmployeeID string
	Role       string
}

// ClaimsFromContext extracts the engine's claims from a verified request
// context.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, raw, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := raw["employee_id"].(string)
	if !ok || employeeID == "" {
		return Claims{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	role, _ := raw["role"].(string)

	return Claims{EmployeeID: employeeID, Role: role}, nil
}
