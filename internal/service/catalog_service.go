package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"articonnect-backend/internal/core/cache"
	"articonnect-backend/internal/domain"
)

// PlaceholderImage 商品没有主图时的占位图
const PlaceholderImage = "/images/placeholder.png"

const categoriesCacheKey = "catalog:categories"

type ProductSummary struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
	Artisan  string  `json:"artisan"`
	Category *string `json:"category"`
}

type ArtisanProfile struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	CompanyName string `json:"companyName"`
	Bio         string `json:"bio"`
	PhotoURL    string `json:"photoUrl"`
}

type ProductDetail struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Price       float64        `json:"price"`
	ImageURL    string         `json:"imageUrl"`
	Description string         `json:"description"`
	Stock       int            `json:"stock"`
	Artisan     ArtisanProfile `json:"artisan"`
	Category    *string        `json:"category"`
}

type CatalogService struct {
	catalog domain.CatalogRepository
	users   domain.UserRepository
	cache   *cache.Cache
	log     *zap.Logger
}

func NewCatalogService(catalog domain.CatalogRepository, users domain.UserRepository, c *cache.Cache, log *zap.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, users: users, cache: c, log: log}
}

// ListProducts 分类名大小写不敏感；未知分类返回空列表而非错误
func (s *CatalogService) ListProducts(ctx context.Context, categoryName string) ([]ProductSummary, error) {
	var categoryID *uint
	if name := strings.TrimSpace(categoryName); name != "" {
		cat, err := s.catalog.FindCategoryByName(ctx, name)
		if err != nil {
			s.log.Error("list products: category lookup failed", zap.String("category", name), zap.Error(err))
			return nil, fmt.Errorf("resolve category: %w", err)
		}
		if cat == nil {
			return []ProductSummary{}, nil
		}
		categoryID = &cat.ID
	}

	rows, err := s.catalog.ListActive(ctx, categoryID)
	if err != nil {
		s.log.Error("list products: query failed", zap.Error(err))
		return nil, fmt.Errorf("list products: %w", err)
	}

	out := make([]ProductSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, ProductSummary{
			ID:       r.ID,
			Name:     r.Titre,
			Price:    normalizePrice(r.Prix),
			ImageURL: imageOrPlaceholder(r.PhotoPrincipaleURL),
			Artisan:  artisanDisplayName(r.ArtisanPrenom, r.ArtisanNom),
			Category: r.Categorie,
		})
	}
	return out, nil
}

func (s *CatalogService) GetProductDetail(ctx context.Context, id uint) (*ProductDetail, error) {
	row, err := s.catalog.FindActiveByID(ctx, id)
	if err != nil {
		s.log.Error("product detail: query failed", zap.Uint("id", id), zap.Error(err))
		return nil, fmt.Errorf("find product: %w", err)
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}
	return &ProductDetail{
		ID:          row.ID,
		Name:        row.Titre,
		Price:       normalizePrice(row.Prix),
		ImageURL:    imageOrPlaceholder(row.PhotoPrincipaleURL),
		Description: row.Description,
		Stock:       row.Stock,
		Artisan: ArtisanProfile{
			ID:          row.IDArtisan,
			Name:        artisanDisplayName(row.ArtisanPrenom, row.ArtisanNom),
			CompanyName: row.NomEntreprise,
			Bio:         row.ArtisanBio,
			PhotoURL:    row.ArtisanPhotoURL,
		},
		Category: row.Categorie,
	}, nil
}

// ListCategories redis 读穿缓存（singleflight 合并回源）；没配缓存就直查
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Categorie, error) {
	if s.cache == nil {
		return s.catalog.ListCategories(ctx)
	}
	cs, err := cache.GetOrLoadJSON(s.cache, ctx, categoriesCacheKey, 5*time.Minute,
		func(ctx context.Context) ([]domain.Categorie, error) {
			return s.catalog.ListCategories(ctx)
		})
	if err != nil {
		s.log.Error("list categories failed", zap.Error(err))
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cs, nil
}

type ProductInput struct {
	Titre       string
	Prix        float64
	PhotoURL    *string
	Description string
	Stock       int
	CategoryID  *uint
}

func (in *ProductInput) validate() error {
	if strings.TrimSpace(in.Titre) == "" {
		return domain.Validation("titre is required")
	}
	if in.Prix < 0 {
		return domain.Validation("prix must be >= 0")
	}
	if in.Stock < 0 {
		return domain.Validation("stock must be >= 0")
	}
	return nil
}

// CreateProduct 商品必须挂在已有 artisan 名下
func (s *CatalogService) CreateProduct(ctx context.Context, artisanID uint, in ProductInput) (*domain.Produit, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	a, err := s.users.FindArtisan(ctx, artisanID)
	if err != nil {
		s.log.Error("create product: artisan lookup failed", zap.Uint("artisan_id", artisanID), zap.Error(err))
		return nil, fmt.Errorf("find artisan: %w", err)
	}
	if a == nil {
		return nil, domain.ErrForbidden
	}

	p := &domain.Produit{
		Titre:              strings.TrimSpace(in.Titre),
		Prix:               normalizePrice(in.Prix),
		PhotoPrincipaleURL: in.PhotoURL,
		Description:        in.Description,
		Stock:              in.Stock,
		EstActif:           true,
		IDArtisan:          artisanID,
		IDCategorie:        in.CategoryID,
	}
	if err := s.catalog.Create(ctx, p); err != nil {
		s.log.Error("create product failed", zap.Uint("artisan_id", artisanID), zap.Error(err))
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, artisanID, id uint, in ProductInput) (*domain.Produit, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.catalog.FindProduit(ctx, id)
	if err != nil {
		s.log.Error("update product: load failed", zap.Uint("id", id), zap.Error(err))
		return nil, fmt.Errorf("find product: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.IDArtisan != artisanID {
		return nil, domain.ErrForbidden
	}

	p.Titre = strings.TrimSpace(in.Titre)
	p.Prix = normalizePrice(in.Prix)
	p.PhotoPrincipaleURL = in.PhotoURL
	p.Description = in.Description
	p.Stock = in.Stock
	p.IDCategorie = in.CategoryID
	if err := s.catalog.Update(ctx, p); err != nil {
		s.log.Error("update product failed", zap.Uint("id", id), zap.Error(err))
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// DeactivateProduct 下架而非删除：历史订单还要引用商品行
func (s *CatalogService) DeactivateProduct(ctx context.Context, artisanID, id uint) error {
	p, err := s.catalog.FindProduit(ctx, id)
	if err != nil {
		s.log.Error("deactivate product: load failed", zap.Uint("id", id), zap.Error(err))
		return fmt.Errorf("find product: %w", err)
	}
	if p == nil {
		return domain.ErrNotFound
	}
	if p.IDArtisan != artisanID {
		return domain.ErrForbidden
	}
	if _, err := s.catalog.Deactivate(ctx, id); err != nil {
		s.log.Error("deactivate product failed", zap.Uint("id", id), zap.Error(err))
		return fmt.Errorf("deactivate product: %w", err)
	}
	return nil
}

func (s *CatalogService) ListMyProducts(ctx context.Context, artisanID uint) ([]domain.Produit, error) {
	ps, err := s.catalog.ListByArtisan(ctx, artisanID)
	if err != nil {
		s.log.Error("list artisan products failed", zap.Uint("artisan_id", artisanID), zap.Error(err))
		return nil, fmt.Errorf("list artisan products: %w", err)
	}
	return ps, nil
}

// normalizePrice DECIMAL → float64 传输前收敛到两位小数
func normalizePrice(p float64) float64 {
	return math.Round(p*100) / 100
}

func imageOrPlaceholder(url *string) string {
	if url == nil || strings.TrimSpace(*url) == "" {
		return PlaceholderImage
	}
	return *url
}

func artisanDisplayName(prenom, nom string) string {
	return strings.TrimSpace(prenom + " " + nom)
}
