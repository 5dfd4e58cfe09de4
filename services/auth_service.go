package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"inmogest/config"
	"inmogest/logging"
	"inmogest/models"
	"inmogest/repositories"
)

// AuthService handles accounts and credential checks. Authenticate
// never says why a login failed: unknown user, deactivated account and
// bad password all come back as (nil, nil).
type AuthService struct {
	repo *repositories.UsuarioRepository
	cost int
	log  *logrus.Entry
}

func NewAuthService(repo *repositories.UsuarioRepository, cost int) *AuthService {
	if cost <= 0 {
		cost = 12
	}
	return &AuthService{
		repo: repo,
		cost: cost,
		log:  logging.L().WithField("service", "auth"),
	}
}

// looksLikeBcrypt filters out garbage before it reaches the bcrypt
// comparator, which would otherwise error on malformed input.
func looksLikeBcrypt(hash string) bool {
	if len(hash) < 60 {
		return false
	}
	return strings.HasPrefix(hash, "$2a$") ||
		strings.HasPrefix(hash, "$2b$") ||
		strings.HasPrefix(hash, "$2y$")
}

func (s *AuthService) HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", &models.ValidationError{Campo: "password", Mensaje: "el password no puede ser vacío"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AuthService) VerifyPassword(plain, hash string) bool {
	if !looksLikeBcrypt(hash) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.Usuario, error) {
	u, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if u == nil || !u.Activo {
		return nil, nil
	}
	if !s.VerifyPassword(password, u.PasswordHash) {
		return nil, nil
	}
	return u, nil
}

func (s *AuthService) CreateUser(ctx context.Context, username, password, rol string, activo bool) (int64, error) {
	username = strings.TrimSpace(username)
	existente, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	if existente != nil {
		return 0, regla("el username ya está en uso")
	}
	hash, err := s.HashPassword(password)
	if err != nil {
		return 0, err
	}
	u := models.Usuario{Username: username, PasswordHash: hash, Rol: rol, Activo: activo}
	if err := u.Validar(); err != nil {
		return 0, err
	}
	id, err := s.repo.Create(ctx, &u)
	if err != nil {
		return 0, err
	}
	s.log.WithFields(logrus.Fields{"id": id, "username": username, "rol": rol}).Info("Usuario creado")
	return id, nil
}

func (s *AuthService) Obtener(ctx context.Context, id int64) (*models.Usuario, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AuthService) Listar(ctx context.Context) ([]models.Usuario, error) {
	return s.repo.FindAll(ctx)
}

func (s *AuthService) CambiarPassword(ctx context.Context, id int64, password string) error {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return noEncontrado("usuario no encontrado")
	}
	hash, err := s.HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return s.repo.Update(ctx, u)
}

// Desactivar is the user "delete": the row stays, logins stop.
func (s *AuthService) Desactivar(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// EnsureAdmin seeds the default administrator once. Re-running against
// an existing username changes nothing, password included.
func (s *AuthService) EnsureAdmin(ctx context.Context, admin config.AdminConfig) (int64, error) {
	existente, err := s.repo.FindByUsername(ctx, admin.Username)
	if err != nil {
		return 0, err
	}
	if existente != nil {
		return existente.ID, nil
	}
	id, err := s.CreateUser(ctx, admin.Username, admin.Password, admin.Rol, true)
	if err != nil {
		return 0, err
	}
	s.log.WithField("username", admin.Username).Info("Administrador inicial creado")
	return id, nil
}
