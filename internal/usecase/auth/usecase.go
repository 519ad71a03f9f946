package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mathrent/internal/domain/user"
	"mathrent/pkg/token"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrWeakPassword = errors.New("password must be at least 6 characters")
	ErrNameTooShort = errors.New("name must be at least 2 characters")
)

// Revoker keeps logged-out token ids until they expire.
type Revoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	Revoked(ctx context.Context, jti string) (bool, error)
}

type RegisterInput struct {
	NIM      string
	Name     string
	Password string
}

type UserDTO struct {
	ID        uint64        `json:"id"`
	NIM       string        `json:"nim"`
	Name      string        `json:"name"`
	Role      user.Role     `json:"role"`
	Program   *user.NIMInfo `json:"program,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

type TokenDTO struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	ExpiresIn   int     `json:"expires_in"`
	User        UserDTO `json:"user"`
}

type Usecase struct {
	users   user.Repository
	tokens  *token.Manager
	revoker Revoker
	log     *zap.Logger
	cost    int
}

func NewUsecase(users user.Repository, tokens *token.Manager, revoker Revoker, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{users: users, tokens: tokens, revoker: revoker, log: log.Named("auth"), cost: bcrypt.DefaultCost}
}

func toUserDTO(u *user.User) UserDTO {
	out := UserDTO{ID: u.ID, NIM: u.NIM, Name: u.Name, Role: u.Role, CreatedAt: u.CreatedAt}
	if info, err := user.ParseNIM(u.NIM); err == nil {
		out.Program = &info
	}
	return out
}

// Register creates a student account.
func (uc *Usecase) Register(ctx context.Context, in RegisterInput) (*UserDTO, error) {
	return uc.create(ctx, in, user.RoleStudent)
}

// CreateStaff provisions a staff account under the same identifier and
// password rules as Register.
func (uc *Usecase) CreateStaff(ctx context.Context, in RegisterInput) (*UserDTO, error) {
	return uc.create(ctx, in, user.RoleStaff)
}

func (uc *Usecase) create(ctx context.Context, in RegisterInput, role user.Role) (*UserDTO, error) {
	nim := strings.TrimSpace(in.NIM)
	if _, err := user.ParseNIM(nim); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if len([]rune(name)) < 2 {
		return nil, ErrNameTooShort
	}
	if len(in.Password) < 6 {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &user.User{NIM: nim, Name: name, Role: role, PasswordHash: string(hash)}
	if err := uc.users.Create(ctx, u); err != nil {
		return nil, err
	}
	uc.log.Info("user registered", zap.Uint64("user_id", u.ID), zap.String("nim", u.NIM), zap.String("role", string(role)))
	dto := toUserDTO(u)
	return &dto, nil
}

// NIMCheck reports whether nim is an accepted student number.
type NIMCheck struct {
	Valid   bool          `json:"valid"`
	Info    *user.NIMInfo `json:"info,omitempty"`
	Message string        `json:"message,omitempty"`
}

func (uc *Usecase) ValidateNIM(nim string) NIMCheck {
	info, err := user.ParseNIM(strings.TrimSpace(nim))
	if err != nil {
		return NIMCheck{Message: err.Error()}
	}
	return NIMCheck{Valid: true, Info: &info}
}

// Login checks credentials and issues an access token.
func (uc *Usecase) Login(ctx context.Context, nim, password string) (*TokenDTO, error) {
	u, err := uc.users.GetByNIM(ctx, strings.TrimSpace(nim))
	if errors.Is(err, user.ErrNotFound) {
		return nil, user.ErrBadCredential
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, user.ErrBadCredential
	}

	raw, _, err := uc.tokens.Issue(token.Identity{UserID: u.ID, NIM: u.NIM, Name: u.Name, Role: string(u.Role)})
	if err != nil {
		return nil, err
	}
	return &TokenDTO{
		AccessToken: raw,
		TokenType:   "bearer",
		ExpiresIn:   int(uc.tokens.TTL().Seconds()),
		User:        toUserDTO(u),
	}, nil
}

// Authenticate resolves a bearer token to the principal behind it.
func (uc *Usecase) Authenticate(ctx context.Context, raw string) (user.Principal, *token.Claims, error) {
	claims, err := uc.tokens.Parse(raw)
	if err != nil {
		return user.Principal{}, nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	revoked, err := uc.revoker.Revoked(ctx, claims.ID)
	if err != nil {
		return user.Principal{}, nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return user.Principal{}, nil, fmt.Errorf("%w: token revoked", ErrUnauthorized)
	}

	u, err := uc.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, user.ErrNotFound) {
		return user.Principal{}, nil, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
	}
	if err != nil {
		return user.Principal{}, nil, err
	}
	return u.Principal(), claims, nil
}

func (uc *Usecase) Me(ctx context.Context, p user.Principal) (*UserDTO, error) {
	u, err := uc.users.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

// Logout revokes the token until its own expiry.
func (uc *Usecase) Logout(ctx context.Context, claims *token.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return ErrUnauthorized
	}
	if err := uc.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	uc.log.Info("token revoked", zap.Uint64("user_id", claims.UserID), zap.String("jti", claims.ID))
	return nil
}
