package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wakko59/Geata-api/internal/geata/store"
)

var (
	ErrCredentialsRequired = errors.New("password and at least phone or email required")
	ErrUserExists          = errors.New("user with this phone/email already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid or expired token")
)

// Claims is the JWT payload for user tokens.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// AuthService handles registration, login and token verification for app
// users.  Admin authentication (the API key) is a transport concern and
// lives in the HTTP layer.
type AuthService struct {
	users          store.UserStore
	secret         []byte
	tokenTTL       time.Duration
	defaultCountry string
}

func NewAuthService(us store.UserStore, jwtSecret string, tokenTTL time.Duration, defaultCountry string) *AuthService {
	return &AuthService{
		users:          us,
		secret:         []byte(jwtSecret),
		tokenTTL:       tokenTTL,
		defaultCountry: defaultCountry,
	}
}

// Register creates a user with a password credential and returns a signed
// token.  Either email or phone must be present.
func (s *AuthService) Register(ctx context.Context, name, email, phone, password string) (string, *store.UserRecord, error) {
	phone = NormalizePhone(phone, s.defaultCountry)
	if password == "" || (email == "" && phone == "") {
		return "", nil, ErrCredentialsRequired
	}

	if phone != "" {
		existing, err := s.users.GetByPhone(ctx, phone)
		if err != nil {
			return "", nil, err
		}
		if existing != nil {
			return "", nil, ErrUserExists
		}
	}
	if email != "" {
		existing, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return "", nil, err
		}
		if existing != nil {
			return "", nil, ErrUserExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	rec := store.UserRecord{
		ID:           "u_" + uuid.NewString(),
		Name:         pickName(name, email, phone),
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, rec); err != nil {
		if errors.Is(err, store.ErrExists) {
			return "", nil, ErrUserExists
		}
		return "", nil, err
	}

	token, err := s.SignToken(rec.ID)
	if err != nil {
		return "", nil, err
	}
	return token, &rec, nil
}

// Provision creates a password-less user, e.g. when an admin attaches an
// unknown email/phone to a device.  Such users cannot log in until a
// password is set, but they count as members.
func (s *AuthService) Provision(ctx context.Context, name, email, phone string) (*store.UserRecord, error) {
	phone = NormalizePhone(phone, s.defaultCountry)

	rec := store.UserRecord{
		ID:        "u_" + uuid.NewString(),
		Name:      pickName(name, email, phone),
		Email:     email,
		Phone:     phone,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Create(ctx, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Login verifies email-or-phone plus password.  Users without a password
// hash (pre-provisioned) fail with the same error as a wrong password.
func (s *AuthService) Login(ctx context.Context, email, phone, password string) (string, *store.UserRecord, error) {
	if password == "" || (email == "" && phone == "") {
		return "", nil, ErrCredentialsRequired
	}

	var user *store.UserRecord
	var err error
	if phone != "" {
		user, err = s.users.GetByPhone(ctx, NormalizePhone(phone, s.defaultCountry))
	}
	if user == nil && err == nil && email != "" {
		user, err = s.users.GetByEmail(ctx, email)
	}
	if err != nil {
		return "", nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return "", nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.SignToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// FindByEmailOrPhone resolves an existing user by either identifier, phone
// first, normalising the phone the same way Register does.
func (s *AuthService) FindByEmailOrPhone(ctx context.Context, email, phone string) (*store.UserRecord, error) {
	if phone != "" {
		user, err := s.users.GetByPhone(ctx, NormalizePhone(phone, s.defaultCountry))
		if err != nil || user != nil {
			return user, err
		}
	}
	if email != "" {
		return s.users.GetByEmail(ctx, email)
	}
	return nil, nil
}

func (s *AuthService) SignToken(userID string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "geata-api",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyToken parses and validates a bearer token, returning the user id.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

// pickName falls back to email or phone when no display name was given.
func pickName(name, email, phone string) string {
	if name != "" {
		return name
	}
	if email != "" {
		return email
	}
	return phone
}
