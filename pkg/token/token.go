// Package token implementa la credencial de sesión firmada con RS256.
// El payload es mínimo (usuario, rol, organización): nunca incluye hash de
// password ni datos de perfil. Firma con llave privada, verificación con la
// pública; ambas se cargan una sola vez en el arranque y el Manager es
// inmutable, por lo que es seguro para lecturas concurrentes sin locks.
package token

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("token inválido")
	ErrTokenExpired = errors.New("token expirado")
)

// SessionClaims payload de la sesión. Role viaja en el token para que el
// middleware RBAC decida sin consultar la DB; la bandera is_active NO viaja:
// se verifica en vivo en cada request.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID         int64  `json:"user_id"`
	Username       string `json:"username"`
	Role           string `json:"role"` // super_admin | admin | floor_staff
	OrganizationID int64  `json:"organization_id"`
}

// Manager firma y verifica tokens de sesión con un par de llaves RSA fijo.
type Manager struct {
	privateKey  *rsa.PrivateKey
	publicKey   *rsa.PublicKey
	issuer      string
	sessionTTL  time.Duration // vigencia por defecto
	rememberTTL time.Duration // vigencia con remember_me
	now         func() time.Time
}

// NewManager construye el manager parseando ambas llaves PEM.
func NewManager(privateKeyPEM, publicKeyPEM []byte, issuer string, sessionTTL, rememberTTL time.Duration) (*Manager, error) {
	privBlock, _ := pem.Decode(privateKeyPEM)
	if privBlock == nil {
		return nil, errors.New("token: llave privada PEM inválida")
	}
	privateKey, err := x509.ParsePKCS1PrivateKey(privBlock.Bytes)
	if err != nil {
		return nil, fmt.Errorf("token: parsear llave privada: %w", err)
	}

	pubBlock, _ := pem.Decode(publicKeyPEM)
	if pubBlock == nil {
		return nil, errors.New("token: llave pública PEM inválida")
	}
	pubIface, err := x509.ParsePKIXPublicKey(pubBlock.Bytes)
	if err != nil {
		return nil, fmt.Errorf("token: parsear llave pública: %w", err)
	}
	publicKey, ok := pubIface.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("token: la llave pública no es RSA")
	}

	return &Manager{
		privateKey:  privateKey,
		publicKey:   publicKey,
		issuer:      issuer,
		sessionTTL:  sessionTTL,
		rememberTTL: rememberTTL,
		now:         time.Now,
	}, nil
}

// WithClock reemplaza el reloj (tests de expiración).
func (m *Manager) WithClock(now func() time.Time) *Manager {
	clone := *m
	clone.now = now
	return &clone
}

// Issue firma un token de sesión. rememberMe extiende la vigencia de 24h al
// valor configurado (30 días por defecto).
func (m *Manager) Issue(userID int64, username, role string, organizationID int64, rememberMe bool) (string, error) {
	now := m.now()
	ttl := m.sessionTTL
	if rememberMe {
		ttl = m.rememberTTL
	}
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:         userID,
		Username:       username,
		Role:           role,
		OrganizationID: organizationID,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return tok.SignedString(m.privateKey)
}

// TTL devuelve la vigencia que tendría un token (para el MaxAge del cookie).
func (m *Manager) TTL(rememberMe bool) time.Duration {
	if rememberMe {
		return m.rememberTTL
	}
	return m.sessionTTL
}

// Verify valida firma, algoritmo y expiración, y devuelve los claims.
// Cualquier token cuyo alg no sea exactamente RS256 se rechaza sin mirar
// el payload (incluidos RS384/RS512 firmados con la misma llave).
func (m *Manager) Verify(tokenString string) (*SessionClaims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodRS256.Alg() {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return m.publicKey, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := tok.Claims.(*SessionClaims)
	if !ok || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateKeyPair genera un par RSA efímero (desarrollo y tests).
// En producción las llaves vienen de AUTH_PRIVATE_KEY_PATH / AUTH_PUBLIC_KEY_PATH.
func GenerateKeyPair() (privateKeyPEM, publicKeyPEM []byte, err error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, fmt.Errorf("token: generar llave: %w", err)
	}

	privateKeyPEM = pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	pubBytes, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("token: serializar llave pública: %w", err)
	}
	publicKeyPEM = pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubBytes,
	})

	return privateKeyPEM, publicKeyPEM, nil
}
