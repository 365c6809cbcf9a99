package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"errors"
	"regexp"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goserg/chesstable/auth/storage"
	"github.com/goserg/chesstable/auth/users"
)

var (
	ErrForbidden     = errors.New("access denied")
	ErrNotAuthorized = errors.New("unauthorized")
)

type Service struct {
	storage storage.AuthStorage
	cfg     Config
	rules   []compiledRule
	log     *logrus.Entry
}

type compiledRule struct {
	path    *regexp.Regexp
	methods mapset.Set[string]
	allow   mapset.Set[string]
}

func New(ctx context.Context, cfg Config, st storage.AuthStorage, log *logrus.Logger) (*Service, error) {
	rules := make([]compiledRule, 0, len(cfg.Rules))
	for _, rule := range cfg.Rules {
		r, err := regexp.Compile(rule.Path)
		if err != nil {
			return nil, err
		}
		rules = append(rules, compiledRule{
			path:    r,
			methods: mapset.NewSet(rule.Method...),
			allow:   mapset.NewSet(rule.Allow...),
		})
	}
	s := Service{
		cfg:     cfg,
		storage: st,
		rules:   rules,
		log:     log.WithField("from", "auth"),
	}
	if err := s.ensureRoot(ctx); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Service) ensureRoot(ctx context.Context) error {
	_, err := s.storage.GetUserSecret(ctx, users.User{Name: "root"})
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	salt, err := randomSalt()
	if err != nil {
		return err
	}
	secret := generateSecret(s.cfg.RootPassword, s.cfg.PasswordPepper, salt)
	err = s.storage.CreateUser(ctx, users.User{
		ID:           uuid.New(),
		Name:         "root",
		Role:         users.RoleAdmin,
		RegisteredAt: time.Now(),
	}, secret)
	if err != nil {
		return err
	}
	s.log.Info("root user created")
	return nil
}

func (s *Service) Login(ctx context.Context, name string, password string) (users.User, error) {
	userSecret, err := s.storage.GetUserSecret(ctx, users.User{Name: name})
	if err != nil {
		return users.User{}, err
	}
	secret := generateSecret(password, s.cfg.PasswordPepper, userSecret.Salt)
	return s.storage.SignIn(ctx, name, secret.PasswordHash)
}

// Register creates a regular user account.
func (s *Service) Register(ctx context.Context, name string, password string) (users.User, error) {
	salt, err := randomSalt()
	if err != nil {
		return users.User{}, err
	}
	user := users.User{
		ID:           uuid.New(),
		Name:         name,
		Role:         users.RoleUser,
		RegisteredAt: time.Now(),
	}
	secret := generateSecret(password, s.cfg.PasswordPepper, salt)
	if err := s.storage.CreateUser(ctx, user, secret); err != nil {
		return users.User{}, err
	}
	return user, nil
}

func (s *Service) GenerateJWTCookie(userID uuid.UUID, host string) (*fiber.Cookie, error) {
	expiresIn, err := time.ParseDuration(s.cfg.Expiration)
	if err != nil {
		return nil, err
	}
	expirationTime := time.Now().Add(expiresIn)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		ExpiresAt: expirationTime.Unix(),
		IssuedAt:  time.Now().Unix(),
		Subject:   userID.String(),
	})
	tokenString, err := token.SignedString([]byte(s.cfg.Token))
	if err != nil {
		return nil, err
	}
	return &fiber.Cookie{
		Name:     "token",
		Value:    tokenString,
		Path:     "/",
		Domain:   host,
		Expires:  expirationTime,
		HTTPOnly: true,
	}, nil
}

// Auth resolves the request's user from the token cookie and checks it
// against the configured access rules. The first rule matching path and
// method decides.
func (s *Service) Auth(ctx context.Context, cookie string, method string, url string) (users.User, error) {
	user, err := s.getUserFromToken(ctx, cookie)
	if err != nil {
		return users.User{}, ErrNotAuthorized
	}
	for _, rule := range s.rules {
		if !rule.path.MatchString(url) {
			continue
		}
		if !rule.methods.Contains("*") && !rule.methods.Contains(method) {
			continue
		}
		if rule.allow.Contains("*") || rule.allow.Contains(user.Role) {
			return user, nil
		}
		return users.User{}, ErrForbidden
	}
	return users.User{}, ErrForbidden
}

func (s *Service) getUserFromToken(ctx context.Context, cookie string) (users.User, error) {
	if cookie == "" {
		return users.User{}, nil
	}
	token, err := jwt.ParseWithClaims(cookie, &jwt.StandardClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Token), nil
	})
	if err != nil {
		return users.User{}, err
	}
	if !token.Valid {
		return users.User{}, errors.New("invalid token")
	}
	claims, ok := token.Claims.(*jwt.StandardClaims)
	if !ok {
		return users.User{}, errors.New("bad claims")
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return users.User{}, err
	}
	return s.storage.GetUser(ctx, id)
}

func randomSalt() ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

func generateSecret(password, pepper string, salt []byte) users.Secret {
	h := sha256.New()
	h.Write([]byte(password))
	h.Write([]byte(pepper))
	h.Write(salt)
	return users.Secret{
		PasswordHash: h.Sum(nil),
		Salt:         salt,
	}
}
