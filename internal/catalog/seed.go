package catalog

import (
	"context"

	"github.com/joao-fontenele/storefront/internal/domain"
)

type seedStore interface {
	Count(ctx context.Context) (int, error)
	InsertMany(ctx context.Context, products []domain.Product) error
}

// Seed inserts products when the catalog is empty and returns how many were
// inserted. The emptiness check and the insert are separate statements, so
// two processes seeding at once can both insert.
func Seed(ctx context.Context, store seedStore, products []domain.Product) (int, error) {
	count, err := store.Count(ctx)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		return 0, nil
	}

	batch := make([]domain.Product, len(products))
	copy(batch, products)

	if err := store.InsertMany(ctx, batch); err != nil {
		return 0, err
	}

	return len(batch), nil
}

// DefaultProducts is the storefront's starter catalog. Prices are in paise.
func DefaultProducts() []domain.Product {
	return []domain.Product{
		{
			Name:        "Classic White T-Shirt",
			Price:       499,
			Description: "Comfortable cotton t-shirt perfect for everyday wear",
			Image:       "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=400",
			Category:    "Clothing",
		},
		{
			Name:        "Denim Jeans",
			Price:       1299,
			Description: "Premium quality denim jeans with modern fit",
			Image:       "https://images.unsplash.com/photo-1542272604-787c3835535d?w=400",
			Category:    "Clothing",
		},
		{
			Name:        "Leather Wallet",
			Price:       799,
			Description: "Genuine leather wallet with multiple card slots",
			Image:       "https://images.unsplash.com/photo-1627123424574-724758594e93?w=400",
			Category:    "Accessories",
		},
		{
			Name:        "Wireless Headphones",
			Price:       2499,
			Description: "High-quality wireless headphones with noise cancellation",
			Image:       "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400",
			Category:    "Electronics",
		},
		{
			Name:        "Smart Watch",
			Price:       3999,
			Description: "Feature-rich smartwatch with fitness tracking",
			Image:       "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=400",
			Category:    "Electronics",
		},
		{
			Name:        "Running Shoes",
			Price:       1899,
			Description: "Comfortable running shoes with excellent cushioning",
			Image:       "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=400",
			Category:    "Footwear",
		},
		{
			Name:        "Backpack",
			Price:       1199,
			Description: "Spacious backpack with laptop compartment",
			Image:       "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=400",
			Category:    "Accessories",
		},
		{
			Name:        "Sunglasses",
			Price:       899,
			Description: "Stylish sunglasses with UV protection",
			Image:       "https://images.unsplash.com/photo-1572635196237-14b3f281503f?w=400",
			Category:    "Accessories",
		},
		{
			Name:        "Coffee Mug",
			Price:       299,
			Description: "Ceramic coffee mug with ergonomic handle",
			Image:       "https://images.unsplash.com/photo-1514228742587-6b1558fcca3d?w=400",
			Category:    "Home",
		},
		{
			Name:        "Notebook Set",
			Price:       399,
			Description: "Set of 3 premium quality notebooks",
			Image:       "https://images.unsplash.com/photo-1531346878377-a5be20888e57?w=400",
			Category:    "Stationery",
		},
	}
}
