package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/flowforge/flowforge-api/internal/application/auth"
	"github.com/flowforge/flowforge-api/internal/application/dto"
	"github.com/flowforge/flowforge-api/internal/domain"
	"github.com/flowforge/flowforge-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	byID    map[string]*entity.User
	byEmail map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[string]*entity.User{},
		byEmail: map[string]*entity.User{},
	}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	cp := *u
	r.byID[u.ID] = &cp
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	return r.byID[id], nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	return r.byEmail[email], nil
}

func (r *fakeUserRepo) Update(u *entity.User) error {
	cp := *u
	r.byID[u.ID] = &cp
	r.byEmail[u.Email] = &cp
	return nil
}

// fakeTokens devuelve un token determinista para poder asertar sobre él.
type fakeTokens struct{}

func (fakeTokens) GenerateToken(userID, role string) (string, error) {
	return "token:" + userID + ":" + role, nil
}

func newUseCase() (*auth.AuthUseCase, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return auth.NewAuthUseCase(repo, fakeTokens{}), repo
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_HasheaPasswordYNormalizaEmail(t *testing.T) {
	uc, repo := newUseCase()

	user, err := uc.Register(dto.RegisterRequest{
		Email:    "  Ana@Planta.COM ",
		Password: "secreto-largo",
		Name:     "Ana",
	})
	require.NoError(t, err)

	assert.Equal(t, "ana@planta.com", user.Email, "el email se guarda en minúsculas y sin espacios")
	assert.Equal(t, entity.RoleOperator, user.Role, "sin rol explícito se asigna operator")
	assert.Equal(t, "active", user.Status)

	stored := repo.byEmail["ana@planta.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secreto-largo", stored.PasswordHash, "el password nunca se guarda en claro")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreto-largo")))
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Register(dto.RegisterRequest{Email: "ana@planta.com", Password: "secreto-largo", Name: "Ana"})
	require.NoError(t, err)

	// Mismo email con distinto case: sigue siendo duplicado.
	_, err = uc.Register(dto.RegisterRequest{Email: "ANA@planta.com", Password: "otro-secreto", Name: "Ana 2"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_Invalido(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Register(dto.RegisterRequest{Email: "", Password: "secreto-largo", Name: "Ana"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "email vacío")

	_, err = uc.Register(dto.RegisterRequest{Email: "ana@planta.com", Password: "corto", Name: "Ana"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "password de menos de 8 caracteres")

	_, err = uc.Register(dto.RegisterRequest{Email: "ana@planta.com", Password: "secreto-largo", Name: "Ana", Role: "superuser"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "rol fuera del enum")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_EmiteTokenConRol(t *testing.T) {
	uc, _ := newUseCase()

	user, err := uc.Register(dto.RegisterRequest{
		Email: "jefe@planta.com", Password: "secreto-largo", Name: "Jefa", Role: entity.RoleManager,
	})
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "JEFE@planta.com", Password: "secreto-largo"})
	require.NoError(t, err)

	assert.Equal(t, "token:"+user.ID+":manager", resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
}

// Usuario inexistente y password incorrecto devuelven el mismo error:
// la respuesta no revela cuáles emails existen.
func TestLogin_CredencialesInvalidas_MismoError(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Register(dto.RegisterRequest{Email: "ana@planta.com", Password: "secreto-largo", Name: "Ana"})
	require.NoError(t, err)

	_, errNoUser := uc.Login(dto.LoginRequest{Email: "nadie@planta.com", Password: "secreto-largo"})
	_, errBadPass := uc.Login(dto.LoginRequest{Email: "ana@planta.com", Password: "equivocado"})

	assert.ErrorIs(t, errNoUser, domain.ErrUnauthorized)
	assert.ErrorIs(t, errBadPass, domain.ErrUnauthorized)
	assert.Equal(t, errNoUser, errBadPass)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, repo := newUseCase()

	_, err := uc.Register(dto.RegisterRequest{Email: "ana@planta.com", Password: "secreto-largo", Name: "Ana"})
	require.NoError(t, err)

	user := repo.byEmail["ana@planta.com"]
	user.Status = "suspended"
	require.NoError(t, repo.Update(user))

	_, err = uc.Login(dto.LoginRequest{Email: "ana@planta.com", Password: "secreto-largo"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests GetProfile
// ──────────────────────────────────────────────────────────────────────────────

func TestGetProfile(t *testing.T) {
	uc, _ := newUseCase()

	user, err := uc.Register(dto.RegisterRequest{Email: "ana@planta.com", Password: "secreto-largo", Name: "Ana"})
	require.NoError(t, err)

	got, err := uc.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = uc.GetProfile("no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
