package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is the fixed session token lifetime.
const TokenTTL = 24 * time.Hour

// Claims is the signed claims bag carried by a session token.
//
// For patients, the demographic/clinical/family fields are embedded so
// the client has them without a second round trip. They are a snapshot
// taken at issue time, not a live view of the record.
type Claims struct {
	jwt.RegisteredClaims
	Name           string `json:"nome"`
	Email          string `json:"email,omitempty"`
	Role           Role   `json:"tipo"`
	Sex            string `json:"sexo,omitempty"`
	BirthDate      string `json:"data_nascimento,omitempty"`
	PriorDiagnosis string `json:"diagnostico_previo,omitempty"`
	GeneticPanel   string `json:"painel_genetico,omitempty"`
	FamilyID       string `json:"idFamilia,omitempty"`
	FamilyName     string `json:"nome_familia,omitempty"`
}

// PatientClaims builds the claims snapshot for a patient account.
func PatientClaims(p *Patient) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: p.ID},
		Name:             p.Name,
		Email:            p.Email,
		Role:             RolePatient,
		Sex:              p.Sex,
		BirthDate:        p.BirthDate,
		PriorDiagnosis:   p.PriorDiagnosis,
		GeneticPanel:     p.GeneticPanel,
		FamilyID:         p.FamilyID,
		FamilyName:       p.FamilyName,
	}
}

// ProfessionalClaims builds the claims for a professional account.
func ProfessionalClaims(p *Professional) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: p.ID},
		Name:             p.Name,
		Email:            p.Email,
		Role:             RoleProfessional,
	}
}

// SignToken signs claims with the server secret and the fixed 24-hour
// expiry, returning the encoded token.
func SignToken(claims Claims, secret string) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(TokenTTL))
	claims.ID = uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ParseToken validates and parses a session token, returning its claims.
// It checks the signature, expiry, and required fields.
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	if claims.Role == "" {
		return nil, fmt.Errorf("%w: missing role", ErrTokenInvalid)
	}

	return claims, nil
}
