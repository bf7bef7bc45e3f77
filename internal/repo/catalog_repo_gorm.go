package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"articonnect-backend/internal/domain"
)

type CatalogRepo struct{ db *gorm.DB }

func NewCatalogRepo(db *gorm.DB) *CatalogRepo { return &CatalogRepo{db: db} }

const produitSelect = `p.id, p.titre, p.prix, p.photo_principale_url, p.description, p.stock,
a.id AS id_artisan, u.nom AS artisan_nom, u.prenom AS artisan_prenom,
a.nom_entreprise, a.bio AS artisan_bio, a.photo_url AS artisan_photo_url,
c.nom AS categorie`

func (r *CatalogRepo) joined(ctx context.Context) *gorm.DB {
	// produit → artisan → utilisateur，categorie 可空
	return r.db.WithContext(ctx).
		Table("produit AS p").
		Select(produitSelect).
		Joins("JOIN artisan AS a ON a.id = p.id_artisan").
		Joins("JOIN utilisateur AS u ON u.id = a.id").
		Joins("LEFT JOIN categorie AS c ON c.id = p.id_categorie").
		Where("p.est_actif = ?", true)
}

func (r *CatalogRepo) ListActive(ctx context.Context, categoryID *uint) ([]domain.ProduitRow, error) {
	q := r.joined(ctx)
	if categoryID != nil {
		q = q.Where("p.id_categorie = ?", *categoryID)
	}
	var rows []domain.ProduitRow
	if err := q.Order("p.id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CatalogRepo) FindActiveByID(ctx context.Context, id uint) (*domain.ProduitRow, error) {
	var rows []domain.ProduitRow
	if err := r.joined(ctx).Where("p.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *CatalogRepo) ListByArtisan(ctx context.Context, artisanID uint) ([]domain.Produit, error) {
	var ps []domain.Produit
	err := r.db.WithContext(ctx).
		Where("id_artisan = ?", artisanID).
		Order("created_at DESC").
		Find(&ps).Error
	return ps, err
}

// FindProduit 裸行查询，含未激活（货主管理自己的商品时用）
func (r *CatalogRepo) FindProduit(ctx context.Context, id uint) (*domain.Produit, error) {
	var p domain.Produit
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *CatalogRepo) Create(ctx context.Context, p *domain.Produit) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *CatalogRepo) Update(ctx context.Context, p *domain.Produit) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Deactivate 下架（est_actif = false），返回是否命中行
func (r *CatalogRepo) Deactivate(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Produit{}).
		Where("id = ?", id).
		Update("est_actif", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *CatalogRepo) FindCategoryByName(ctx context.Context, name string) (*domain.Categorie, error) {
	var c domain.Categorie
	err := r.db.WithContext(ctx).First(&c, "LOWER(nom) = LOWER(?)", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *CatalogRepo) ListCategories(ctx context.Context) ([]domain.Categorie, error) {
	var cs []domain.Categorie
	err := r.db.WithContext(ctx).Order("nom").Find(&cs).Error
	return cs, err
}
