package domain

import (
	"context"
	"time"
)

type Categorie struct {
	ID  uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Nom string `gorm:"uniqueIndex;size:255;not null" json:"nom"`
}

func (Categorie) TableName() string { return "categorie" }

type Produit struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Titre              string    `gorm:"size:255;not null" json:"titre"`
	Prix               float64   `gorm:"type:decimal(10,2);not null" json:"prix"`
	PhotoPrincipaleURL *string   `gorm:"column:photo_principale_url;size:255" json:"photoPrincipaleUrl"`
	Description        string    `gorm:"type:text" json:"description"`
	Stock              int       `gorm:"not null;default:0" json:"stock"`
	EstActif           bool      `gorm:"not null;default:true" json:"estActif"`
	IDArtisan          uint      `gorm:"column:id_artisan;index;not null" json:"idArtisan"`
	IDCategorie        *uint     `gorm:"column:id_categorie;index" json:"idCategorie"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"-"`
}

func (Produit) TableName() string { return "produit" }

// ProduitRow 连表查询的扫描目标（produit × artisan × utilisateur × categorie）
type ProduitRow struct {
	ID                 uint
	Titre              string
	Prix               float64
	PhotoPrincipaleURL *string
	Description        string
	Stock              int
	IDArtisan          uint
	ArtisanNom         string
	ArtisanPrenom      string
	NomEntreprise      string
	ArtisanBio         string
	ArtisanPhotoURL    string
	Categorie          *string
}

type CatalogRepository interface {
	ListActive(ctx context.Context, categoryID *uint) ([]ProduitRow, error)
	FindActiveByID(ctx context.Context, id uint) (*ProduitRow, error)
	ListByArtisan(ctx context.Context, artisanID uint) ([]Produit, error)
	FindProduit(ctx context.Context, id uint) (*Produit, error)
	Create(ctx context.Context, p *Produit) error
	Update(ctx context.Context, p *Produit) error
	Deactivate(ctx context.Context, id uint) (bool, error)
	FindCategoryByName(ctx context.Context, name string) (*Categorie, error)
	ListCategories(ctx context.Context) ([]Categorie, error)
}
