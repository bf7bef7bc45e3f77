package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// 角色集合（注册时校验，缺省 client）
const (
	RoleClient  = "client"
	RoleArtisan = "artisan"
	RoleAdmin   = "admin"
)

func ValidRole(r string) bool {
	return r == RoleClient || r == RoleArtisan || r == RoleAdmin
}

type Utilisateur struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Nom            string         `gorm:"size:255;not null" json:"nom"`
	Prenom         string         `gorm:"size:255" json:"prenom"`
	Email          string         `gorm:"uniqueIndex;size:191;not null" json:"email"`
	MotDePasseHash string         `gorm:"column:mot_de_passe_hash;size:100;not null" json:"-"`
	Role           string         `gorm:"size:16;not null;default:client" json:"role"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"-"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Utilisateur) TableName() string { return "utilisateur" }

// DisplayName 前端展示用：prénom + nom
func (u *Utilisateur) DisplayName() string {
	if u.Prenom == "" {
		return u.Nom
	}
	return u.Prenom + " " + u.Nom
}

// Artisan 与 Utilisateur 一对一（同主键），对应 role = "artisan"
type Artisan struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	NomEntreprise string `gorm:"size:255" json:"nomEntreprise"`
	Bio           string `gorm:"type:text" json:"bio"`
	PhotoURL      string `gorm:"size:255" json:"photoUrl"`
}

func (Artisan) TableName() string { return "artisan" }

type UserRepository interface {
	Create(ctx context.Context, u *Utilisateur) error
	FindByID(ctx context.Context, id uint) (*Utilisateur, error)
	FindByEmail(ctx context.Context, email string) (*Utilisateur, error)
	List(ctx context.Context, q string, offset, limit int) ([]Utilisateur, int64, error)
	SoftDelete(ctx context.Context, id uint) error
	CreateArtisan(ctx context.Context, a *Artisan) error
	FindArtisan(ctx context.Context, id uint) (*Artisan, error)
}
