package token_test

import (
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdash/flowdash-api/pkg/token"
)

const (
	testIssuer  = "flowdash-test"
	sessionTTL  = 24 * time.Hour
	rememberTTL = 30 * 24 * time.Hour
)

func newTestManager(t *testing.T) *token.Manager {
	t.Helper()
	priv, pub, err := token.GenerateKeyPair()
	require.NoError(t, err, "debe generarse un par de llaves RSA")
	m, err := token.NewManager(priv, pub, testIssuer, sessionTTL, rememberTTL)
	require.NoError(t, err)
	return m
}

// Round-trip: los claims firmados se recuperan intactos al verificar.
func TestIssueAndVerify_RoundTrip(t *testing.T) {
	m := newTestManager(t)

	tok, err := m.Issue(1, "maria", "admin", 7, false)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := m.Verify(tok)
	require.NoError(t, err)

	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "maria", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, int64(7), claims.OrganizationID)
	assert.Equal(t, testIssuer, claims.Issuer)
}

// Token por defecto: a las 25 horas debe estar expirado.
func TestVerify_TokenDefaultExpiraA24Horas(t *testing.T) {
	m := newTestManager(t)

	tok, err := m.Issue(1, "maria", "admin", 7, false)
	require.NoError(t, err)

	// Avanzar el reloj 25 horas solo para la verificación
	later := m.WithClock(func() time.Time { return time.Now().Add(25 * time.Hour) })
	_, err = later.Verify(tok)
	assert.ErrorIs(t, err, token.ErrTokenExpired, "a +25h el token de 24h debe rechazarse")

	// A +1h sigue siendo válido
	soon := m.WithClock(func() time.Time { return time.Now().Add(time.Hour) })
	_, err = soon.Verify(tok)
	assert.NoError(t, err)
}

// remember_me: el token sobrevive las 25 horas pero no los 31 días.
func TestVerify_RememberMeExtiendeVigencia(t *testing.T) {
	m := newTestManager(t)

	tok, err := m.Issue(1, "maria", "floor_staff", 7, true)
	require.NoError(t, err)

	later := m.WithClock(func() time.Time { return time.Now().Add(25 * time.Hour) })
	_, err = later.Verify(tok)
	assert.NoError(t, err, "con remember_me el token debe seguir vivo a +25h")

	muchLater := m.WithClock(func() time.Time { return time.Now().Add(31 * 24 * time.Hour) })
	_, err = muchLater.Verify(tok)
	assert.ErrorIs(t, err, token.ErrTokenExpired)
}

// Un token firmado con OTRO par de llaves se rechaza aunque el payload sea válido.
func TestVerify_LlaveDistinta_Rechaza(t *testing.T) {
	m := newTestManager(t)
	otro := newTestManager(t)

	tok, err := otro.Issue(1, "maria", "admin", 7, false)
	require.NoError(t, err)

	_, err = m.Verify(tok)
	assert.Error(t, err, "firma de otra llave debe invalidar el token")
}

// Un token HS256 (algoritmo simétrico) se rechaza sin mirar el payload.
func TestVerify_AlgoritmoHS256_Rechaza(t *testing.T) {
	m := newTestManager(t)

	claims := token.SessionClaims{
		UserID:         1,
		Username:       "maria",
		Role:           "admin",
		OrganizationID: 7,
	}
	claims.ExpiresAt = gojwt.NewNumericDate(time.Now().Add(time.Hour))
	hs, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("secreto"))
	require.NoError(t, err)

	_, err = m.Verify(hs)
	assert.Error(t, err, "algoritmo distinto a RS256 debe rechazarse")
}

// RS384 con la MISMA llave del manager también se rechaza: el alg se fija a
// RS256 exacto, no a la familia RSA.
func TestVerify_AlgoritmoRS384MismaLlave_Rechaza(t *testing.T) {
	priv, pub, err := token.GenerateKeyPair()
	require.NoError(t, err)
	m, err := token.NewManager(priv, pub, testIssuer, sessionTTL, rememberTTL)
	require.NoError(t, err)

	privBlock, _ := pem.Decode(priv)
	require.NotNil(t, privBlock)
	privateKey, err := x509.ParsePKCS1PrivateKey(privBlock.Bytes)
	require.NoError(t, err)

	claims := token.SessionClaims{
		UserID:         1,
		Username:       "maria",
		Role:           "admin",
		OrganizationID: 7,
	}
	claims.ExpiresAt = gojwt.NewNumericDate(time.Now().Add(time.Hour))
	rs384, err := gojwt.NewWithClaims(gojwt.SigningMethodRS384, claims).SignedString(privateKey)
	require.NoError(t, err)

	_, err = m.Verify(rs384)
	assert.ErrorIs(t, err, token.ErrInvalidToken, "RS384 firmado con la llave correcta debe rechazarse igual")
}

func TestVerify_TokenMalformado_Rechaza(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Verify("no.es.un-token")
	assert.Error(t, err)
}

func TestNewManager_LlavesInvalidas(t *testing.T) {
	priv, pub, err := token.GenerateKeyPair()
	require.NoError(t, err)

	_, err = token.NewManager(nil, pub, testIssuer, sessionTTL, rememberTTL)
	assert.Error(t, err, "PEM privado vacío debe fallar")

	_, err = token.NewManager(priv, []byte("basura"), testIssuer, sessionTTL, rememberTTL)
	assert.Error(t, err, "PEM público inválido debe fallar")
}
