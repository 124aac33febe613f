package services

import (
	"context"
	"strconv"
	"time"

	"github.com/dmitrijs2005/medguide/internal/client/repositories/kvstore"
	"github.com/dmitrijs2005/medguide/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// Storage keys, namespaced to avoid collision with the profile blob and
// other app data. The values are data-compatible with earlier releases.
const (
	accessTokenKey  = "@medguide_jwt_token"
	refreshTokenKey = "@medguide_refresh_token"
	tokenExpiryKey  = "@medguide_token_expiry"
)

// expirySkew is the window before the nominal exp at which a token is
// already treated as expired, so callers never send a token that would
// expire mid-flight.
const expirySkew = 60 * time.Second

// TokenData carries the tokens handed back by the remote API after a
// successful authentication.
type TokenData struct {
	AccessToken  string
	RefreshToken string
}

// DecodedToken holds the claims extracted from a JWT-shaped access token.
// The signature is not verified on-device; only the server can do that.
type DecodedToken struct {
	Subject   string
	Email     string
	IssuedAt  int64
	ExpiresAt int64
}

// TokenService persists the bearer-token session in the device key-value
// store. Tokens come in two classes: JWT-shaped ones carry an expiry and
// are purged once it is near, opaque ones never expire client-side.
type TokenService struct {
	kv  kvstore.Repository
	log logging.Logger
	now func() time.Time
}

func NewTokenService(kv kvstore.Repository, log logging.Logger) *TokenService {
	return &TokenService{kv: kv, log: log, now: time.Now}
}

// DecodeToken parses raw as a JWT without verifying its signature and
// returns the claims of interest. It returns nil for anything that is not
// JWT-shaped (wrong segment count, bad base64, bad JSON): that is not an
// error, just an opaque token.
func (s *TokenService) DecodeToken(raw string) *DecodedToken {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil
	}

	decoded := &DecodedToken{}
	if sub, err := claims.GetSubject(); err == nil {
		decoded.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		decoded.Email = email
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		decoded.IssuedAt = iat.Unix()
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		decoded.ExpiresAt = exp.Unix()
	}
	return decoded
}

// expiresAt returns the decodable expiry of raw, or ok=false when the
// token carries none and therefore never expires client-side.
func (s *TokenService) expiresAt(raw string) (int64, bool) {
	decoded := s.DecodeToken(raw)
	if decoded == nil || decoded.ExpiresAt == 0 {
		return 0, false
	}
	return decoded.ExpiresAt, true
}

// SaveToken persists the access token, its expiry when the token is
// JWT-shaped, and the refresh token when present. An access token that
// does not decode is stored as an opaque, non-expiring token.
func (s *TokenService) SaveToken(ctx context.Context, data TokenData) error {
	if exp, ok := s.expiresAt(data.AccessToken); ok {
		err := s.kv.MultiSet(ctx, map[string]string{
			accessTokenKey: data.AccessToken,
			tokenExpiryKey: strconv.FormatInt(exp, 10),
		})
		if err != nil {
			return err
		}
		s.log.Info(ctx, "access token saved", "expires_at", time.Unix(exp, 0).UTC().Format(time.RFC3339))
	} else {
		if err := s.kv.Set(ctx, accessTokenKey, data.AccessToken); err != nil {
			return err
		}
		// drop any expiry left behind by a previous JWT-shaped token
		if err := s.kv.Remove(ctx, tokenExpiryKey); err != nil {
			return err
		}
		s.log.Info(ctx, "opaque access token saved")
	}

	if data.RefreshToken != "" {
		if err := s.kv.Set(ctx, refreshTokenKey, data.RefreshToken); err != nil {
			return err
		}
	}
	return nil
}

// GetToken returns the stored access token, or the empty string when none
// is stored. A JWT-shaped token within expirySkew of its expiry is purged
// and reported as absent; the caller must re-authenticate. Opaque tokens
// are returned unconditionally.
func (s *TokenService) GetToken(ctx context.Context) (string, error) {
	token, err := s.kv.Get(ctx, accessTokenKey)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", nil
	}

	exp, ok := s.expiresAt(token)
	if !ok {
		return token, nil
	}

	if time.Duration(exp-s.now().Unix())*time.Second < expirySkew {
		s.log.Warn(ctx, "access token expired, purging")
		if err := s.RemoveToken(ctx); err != nil {
			return "", err
		}
		return "", nil
	}

	return token, nil
}

// GetRefreshToken returns the stored refresh token, or the empty string
// when none is stored. Refreshing itself is a caller-level retry policy,
// not implemented here.
func (s *TokenService) GetRefreshToken(ctx context.Context) (string, error) {
	return s.kv.Get(ctx, refreshTokenKey)
}

// RemoveToken unconditionally purges all token keys. Used on explicit
// logout and internally on detected expiry.
func (s *TokenService) RemoveToken(ctx context.Context) error {
	return s.kv.MultiRemove(ctx, accessTokenKey, refreshTokenKey, tokenExpiryKey)
}

// HasValidToken reports whether GetToken would currently return a token,
// without exposing its value.
func (s *TokenService) HasValidToken(ctx context.Context) (bool, error) {
	token, err := s.GetToken(ctx)
	if err != nil {
		return false, err
	}
	return token != "", nil
}
