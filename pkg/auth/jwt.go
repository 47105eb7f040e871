package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Erros específicos
var (
	ErrInvalidToken  = errors.New("token inválido")
	ErrExpiredToken  = errors.New("token expirado")
	ErrInvalidClaims = errors.New("claims inválidas")
	ErrMissingJWTKey = errors.New("chave secreta JWT não configurada")
	ErrMissingPin    = errors.New("PIN do painel não configurado")
	ErrWrongPin      = errors.New("PIN incorreto")
)

// PanelClaims representa as claims do token de acesso ao painel
type PanelClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// PanelAuthService emite e valida tokens de acesso ao painel. O painel
// é protegido por PIN: o operador troca o PIN por um JWT de curta
// duração que autoriza as rotas de escrita
type PanelAuthService struct {
	secretKey  []byte
	pinHash    []byte
	expiration time.Duration
}

// NewPanelAuthService cria uma nova instância de PanelAuthService.
// O PIN é guardado apenas como hash bcrypt: PANEL_PIN_HASH recebe o
// hash pronto; na falta dele, PANEL_PIN é hasheado na inicialização
func NewPanelAuthService() (*PanelAuthService, error) {
	secretKey := os.Getenv("JWT_SECRET_KEY")
	if secretKey == "" {
		return nil, ErrMissingJWTKey
	}

	pinHash := []byte(os.Getenv("PANEL_PIN_HASH"))
	if len(pinHash) == 0 {
		pin := os.Getenv("PANEL_PIN")
		if pin == "" {
			return nil, ErrMissingPin
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		pinHash = hashed
	}

	// Duração padrão de 12 horas se não for configurado
	expiration := 12 * time.Hour
	if expirationStr := os.Getenv("JWT_EXPIRATION_HOURS"); expirationStr != "" {
		if parsed, err := time.ParseDuration(expirationStr + "h"); err == nil {
			expiration = parsed
		}
	}

	return &PanelAuthService{
		secretKey:  []byte(secretKey),
		pinHash:    pinHash,
		expiration: expiration,
	}, nil
}

// Login valida o PIN e emite um token de painel
func (s *PanelAuthService) Login(pin string) (string, time.Time, error) {
	if err := bcrypt.CompareHashAndPassword(s.pinHash, []byte(pin)); err != nil {
		return "", time.Time{}, ErrWrongPin
	}

	expiresAt := time.Now().Add(s.expiration)
	claims := PanelClaims{
		Scope: "panel",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// ValidateToken valida um token de painel e retorna as claims
func (s *PanelAuthService) ValidateToken(tokenString string) (*PanelClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &PanelClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*PanelClaims)
	if !ok || !token.Valid || claims.Scope != "panel" {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}
