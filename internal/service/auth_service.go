package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"articonnect-backend/internal/domain"
	"articonnect-backend/internal/session"
	"articonnect-backend/pkg/utils"
)

type AuthService struct {
	users    domain.UserRepository
	sessions *session.Store
	log      *zap.Logger
}

func NewAuthService(users domain.UserRepository, sessions *session.Store, log *zap.Logger) *AuthService {
	return &AuthService{users: users, sessions: sessions, log: log}
}

type RegisterInput struct {
	Email    string
	Password string
	Nom      string
	Prenom   string
	Role     string
	// role = artisan 时的扩展资料
	NomEntreprise string
	Bio           string
	PhotoURL      string
}

// Register 校验 → 预查邮箱 → 哈希 → 落库（唯一索引兜底）。不建会话。
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.Utilisateur, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Nom = strings.TrimSpace(in.Nom)
	in.Prenom = strings.TrimSpace(in.Prenom)

	if in.Email == "" || in.Password == "" || in.Nom == "" {
		return nil, domain.Validation("email, password and nom are required")
	}
	if in.Role == "" {
		in.Role = domain.RoleClient
	}
	if !domain.ValidRole(in.Role) {
		return nil, domain.Validation("invalid role")
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		s.log.Error("register: lookup failed", zap.String("email", in.Email), zap.Error(err))
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	u := &domain.Utilisateur{
		Nom:            in.Nom,
		Prenom:         in.Prenom,
		Email:          in.Email,
		MotDePasseHash: utils.HashPassword(in.Password),
		Role:           in.Role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if err == domain.ErrEmailTaken {
			return nil, err
		}
		s.log.Error("register: insert failed", zap.String("email", in.Email), zap.Error(err))
		return nil, fmt.Errorf("create user: %w", err)
	}

	if in.Role == domain.RoleArtisan {
		a := &domain.Artisan{
			ID:            u.ID,
			NomEntreprise: in.NomEntreprise,
			Bio:           in.Bio,
			PhotoURL:      in.PhotoURL,
		}
		if err := s.users.CreateArtisan(ctx, a); err != nil {
			s.log.Error("register: artisan profile insert failed", zap.Uint("user_id", u.ID), zap.Error(err))
			return nil, fmt.Errorf("create artisan profile: %w", err)
		}
	}

	s.log.Info("user registered", zap.Uint("user_id", u.ID), zap.String("role", u.Role))
	return u, nil
}

// Login 未知邮箱与密码错误返回同一个错误（防枚举）
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Utilisateur, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", domain.Validation("email and password are required")
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("login: lookup failed", zap.String("email", email), zap.Error(err))
		return nil, "", fmt.Errorf("find user: %w", err)
	}
	if u == nil || !utils.CheckPassword(password, u.MotDePasseHash) {
		return nil, "", domain.ErrInvalidCredentials
	}

	sid, err := s.sessions.Create(ctx, session.Data{UserID: u.ID, Role: u.Role, Nom: u.Nom})
	if err != nil {
		s.log.Error("login: session create failed", zap.Uint("user_id", u.ID), zap.Error(err))
		return nil, "", fmt.Errorf("create session: %w", err)
	}

	s.log.Info("user logged in", zap.Uint("user_id", u.ID))
	return u, sid, nil
}

// Logout 幂等：没有会话也算成功，redis 故障只记日志
func (s *AuthService) Logout(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		s.log.Warn("logout: session destroy failed", zap.Error(err))
	}
}

// CheckSession (nil, nil) 表示未登录；会话指向已消失的用户时惰性清除
func (s *AuthService) CheckSession(ctx context.Context, sessionID string) (*domain.Utilisateur, error) {
	if sessionID == "" {
		return nil, nil
	}
	d, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		s.log.Error("check session: read failed", zap.Error(err))
		return nil, fmt.Errorf("read session: %w", err)
	}
	if d == nil {
		return nil, nil
	}
	u, err := s.users.FindByID(ctx, d.UserID)
	if err != nil {
		s.log.Error("check session: user lookup failed", zap.Uint("user_id", d.UserID), zap.Error(err))
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		// 用户已不存在，会话不能悬空
		_ = s.sessions.Destroy(ctx, sessionID)
		return nil, nil
	}
	return u, nil
}
