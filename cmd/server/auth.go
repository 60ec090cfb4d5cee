package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
)

// AuthConfig configures server authentication.
type AuthConfig struct {
	// Enabled requires every connection to send AUTH before statements.
	Enabled bool `yaml:"enabled"`

	// JWTSecret is the shared secret for HMAC JWT validation.
	JWTSecret string `yaml:"jwtSecret"`

	// Issuer is the expected "iss" claim in JWTs (optional).
	Issuer string `yaml:"issuer"`

	// Audience is the expected "aud" claim in JWTs (optional).
	Audience string `yaml:"audience"`

	// NameClaim is the JWT claim for user's name (default: "name").
	NameClaim string `yaml:"nameClaim"`

	// EmailClaim is the JWT claim for user's email (default: "email").
	EmailClaim string `yaml:"emailClaim"`
}

// Identity is the caller named by a validated token.
type Identity struct {
	Name  string
	Email string
}

func (id Identity) String() string {
	switch {
	case id.Email == "":
		return id.Name
	case id.Name == "":
		return "<" + id.Email + ">"
	default:
		return fmt.Sprintf("%s <%s>", id.Name, id.Email)
	}
}

var (
	ErrNotAuthenticated = errors.New("authentication required: send AUTH JWT <token> first")
	ErrTokenExpired     = errors.New("token expired: send AUTH JWT <token> again")
)

// ConnectionState tracks per-connection authentication state.
type ConnectionState struct {
	identity      *Identity
	authenticated bool
	tokenExpiry   time.Time
}

// IsAuthenticated reports whether the connection holds an unexpired token.
func (cs *ConnectionState) IsAuthenticated() bool {
	return cs.authenticated && (cs.tokenExpiry.IsZero() || time.Now().Before(cs.tokenExpiry))
}

// Identity returns the connection's identity, or nil if not authenticated.
func (cs *ConnectionState) Identity() *Identity {
	return cs.identity
}

// authorize returns nil when the connection may run statements.
func (cs *ConnectionState) authorize(config *AuthConfig) error {
	if config == nil || !config.Enabled {
		return nil
	}
	if !cs.authenticated {
		return ErrNotAuthenticated
	}
	if !cs.IsAuthenticated() {
		return ErrTokenExpired
	}
	return nil
}

// authResult represents the result of an authentication attempt.
type authResult struct {
	identity  Identity
	expiresAt time.Time
	err       error
}

// validateJWT validates a JWT token and extracts identity claims.
func validateJWT(config *AuthConfig, tokenString string) authResult {
	if config == nil || config.JWTSecret == "" {
		return authResult{err: errors.New("authentication not configured")}
	}

	nameClaim := config.NameClaim
	if nameClaim == "" {
		nameClaim = "name"
	}
	emailClaim := config.EmailClaim
	if emailClaim == "" {
		emailClaim = "email"
	}

	options := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if config.Issuer != "" {
		options = append(options, jwt.WithIssuer(config.Issuer))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.JWTSecret), nil
	}, options...)
	if err != nil {
		return authResult{err: fmt.Errorf("invalid token: %w", err)}
	}
	if !token.Valid {
		return authResult{err: errors.New("invalid token")}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return authResult{err: errors.New("invalid token claims")}
	}

	if config.Audience != "" {
		audiences, _ := claims.GetAudience()
		if !slices.Contains(audiences, config.Audience) {
			return authResult{err: fmt.Errorf("invalid audience: expected %s", config.Audience)}
		}
	}

	name, _ := claims[nameClaim].(string)
	email, _ := claims[emailClaim].(string)
	if name == "" && email == "" {
		return authResult{err: fmt.Errorf("token missing identity claims (%s or %s)", nameClaim, emailClaim)}
	}

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}

	return authResult{
		identity:  Identity{Name: name, Email: email},
		expiresAt: expiresAt,
	}
}

func isAuthCommand(line string) bool {
	return len(line) >= 5 && strings.EqualFold(line[:5], "AUTH ")
}

// parseAuthCommand parses an AUTH command and returns the auth type and token.
// Supported formats:
//   - AUTH JWT <token>
func parseAuthCommand(line string) (authType, token string, err error) {
	line = strings.TrimSpace(line)
	if !isAuthCommand(line) {
		return "", "", errors.New("not an AUTH command")
	}

	parts := strings.Fields(line)
	if len(parts) != 3 {
		return "", "", errors.New("invalid AUTH command: expected AUTH <type> <credentials>")
	}

	authType = strings.ToUpper(parts[1])
	if authType != "JWT" {
		return "", "", fmt.Errorf("unsupported auth type: %s", parts[1])
	}
	return authType, parts[2], nil
}

// handleAuth processes an AUTH command and returns the response.
func (s *Server) handleAuth(line string, state *ConnectionState) Response {
	_, token, err := parseAuthCommand(line)
	if err != nil {
		return Response{Success: false, Type: "auth", Error: err.Error()}
	}

	result := validateJWT(s.authConfig, token)
	if result.err != nil {
		return Response{Success: false, Type: "auth", Error: result.err.Error()}
	}

	state.identity = &result.identity
	state.authenticated = true
	state.tokenExpiry = result.expiresAt

	ar := AuthResponse{
		Authenticated: true,
		Identity:      result.identity.String(),
	}
	if !result.expiresAt.IsZero() {
		ar.ExpiresIn = int(time.Until(result.expiresAt).Seconds())
	}

	data, _ := json.Marshal(ar)
	return Response{Success: true, Type: "auth", Result: data}
}
