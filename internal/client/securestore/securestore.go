// Package securestore keeps small sensitive values (the remembered
// password, the biometric-unlock flag) in the device key-value store.
// Sensitive values are sealed with AES-GCM before they reach the kv table;
// the sealing key is derived from a per-install secret kept in a file
// readable only by the owner.
package securestore

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/dmitrijs2005/medguide/internal/client/repositories/kvstore"
	"github.com/dmitrijs2005/medguide/internal/common"
	"github.com/dmitrijs2005/medguide/internal/cryptox"
	"github.com/dmitrijs2005/medguide/internal/logging"
)

const (
	passwordKey  = "@medguide_user_password"
	biometricKey = "@medguide_biometric_enabled"
)

const (
	secretLen = 32
	saltLen   = 16
)

type SecureStore struct {
	kv  kvstore.Repository
	key []byte
	log logging.Logger
}

// New loads (or creates on first use) the per-install secret at secretPath
// and derives the sealing key from it.
func New(kv kvstore.Repository, secretPath string, log logging.Logger) (*SecureStore, error) {
	raw, err := os.ReadFile(secretPath)
	if os.IsNotExist(err) {
		raw = common.GenerateRandByteArray(secretLen + saltLen)
		if err := os.WriteFile(secretPath, raw, 0o600); err != nil {
			return nil, fmt.Errorf("failed to write install secret: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read install secret: %w", err)
	}
	if len(raw) != secretLen+saltLen {
		return nil, fmt.Errorf("install secret at %s has unexpected size %d", secretPath, len(raw))
	}

	key := cryptox.DeriveSealKey(raw[:secretLen], raw[secretLen:])
	return &SecureStore{kv: kv, key: key, log: log}, nil
}

// SetPassword seals and stores the remembered password.
func (s *SecureStore) SetPassword(ctx context.Context, password string) error {
	sealed, err := cryptox.Seal([]byte(password), s.key)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, passwordKey, base64.StdEncoding.EncodeToString(sealed)); err != nil {
		return err
	}
	s.log.Info(ctx, "password stored securely")
	return nil
}

// GetPassword returns the remembered password, or the empty string when
// none is stored.
func (s *SecureStore) GetPassword(ctx context.Context) (string, error) {
	encoded, err := s.kv.Get(ctx, passwordKey)
	if err != nil {
		return "", err
	}
	if encoded == "" {
		return "", nil
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("stored password is not valid base64: %w", err)
	}
	plain, err := cryptox.Open(sealed, s.key)
	if err != nil {
		return "", fmt.Errorf("failed to unseal stored password: %w", err)
	}
	return string(plain), nil
}

func (s *SecureStore) RemovePassword(ctx context.Context) error {
	return s.kv.Remove(ctx, passwordKey)
}

// SetBiometricEnabled stores the biometric-unlock preference. The flag is
// not secret, so it is stored unsealed.
func (s *SecureStore) SetBiometricEnabled(ctx context.Context, enabled bool) error {
	value := "0"
	if enabled {
		value = "1"
	}
	return s.kv.Set(ctx, biometricKey, value)
}

func (s *SecureStore) BiometricEnabled(ctx context.Context) (bool, error) {
	value, err := s.kv.Get(ctx, biometricKey)
	if err != nil {
		return false, err
	}
	return value == "1", nil
}
