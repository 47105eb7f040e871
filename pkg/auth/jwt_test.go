package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testService(t *testing.T) *PanelAuthService {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "segredo-de-teste")
	t.Setenv("PANEL_PIN_HASH", "")
	t.Setenv("PANEL_PIN", "4321")

	s, err := NewPanelAuthService()
	require.NoError(t, err)
	return s
}

func TestLoginAndValidate(t *testing.T) {
	s := testService(t)

	token, expiresAt, err := s.Login("4321")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "panel", claims.Scope)
}

func TestLoginWrongPin(t *testing.T) {
	s := testService(t)

	_, _, err := s.Login("0000")
	assert.ErrorIs(t, err, ErrWrongPin)
}

func TestValidateTokenGarbage(t *testing.T) {
	s := testService(t)

	_, err := s.ValidateToken("nem-de-longe-um-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenFromOtherKey(t *testing.T) {
	s := testService(t)
	token, _, err := s.Login("4321")
	require.NoError(t, err)

	other := &PanelAuthService{secretKey: []byte("outro-segredo")}
	_, validateErr := other.ValidateToken(token)
	assert.ErrorIs(t, validateErr, ErrInvalidToken)
}

func TestLoginWithPinHashEnv(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("7777"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET_KEY", "segredo-de-teste")
	t.Setenv("PANEL_PIN_HASH", string(hash))
	// PANEL_PIN é ignorado quando o hash está configurado
	t.Setenv("PANEL_PIN", "9999")

	s, err := NewPanelAuthService()
	require.NoError(t, err)

	token, _, err := s.Login("7777")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = s.Login("9999")
	assert.ErrorIs(t, err, ErrWrongPin)
}

func TestNewPanelAuthServiceMissingEnv(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("PANEL_PIN", "4321")
	_, err := NewPanelAuthService()
	assert.ErrorIs(t, err, ErrMissingJWTKey)

	t.Setenv("JWT_SECRET_KEY", "segredo")
	t.Setenv("PANEL_PIN_HASH", "")
	t.Setenv("PANEL_PIN", "")
	_, err = NewPanelAuthService()
	assert.ErrorIs(t, err, ErrMissingPin)
}
