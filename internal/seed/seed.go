package seed

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, category domain.Category) (*domain.Category, error)
}

type UserWriter interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
}

// Account is a staff login created by the seed.
type Account struct {
	Email    string
	Password string
	Role     domain.Role
}

var categories = []string{"Photo Frames", "Mugs", "Cushions", "Keychains"}

func price(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func offer(v int64) decimal.NullDecimal { return decimal.NewNullDecimal(decimal.NewFromInt(v)) }

var products = []domain.Product{
	{
		SKU: "SEED-FRM-COLLAGE", Name: "Collage Photo Frame", Category: "Photo Frames",
		Description: "Wooden frame holding two personalised prints",
		Tags:        []string{"gift", "anniversary"}, Rating: 4.6, Reviews: 38,
		RetailPrice: price(1299), ResellerPrice: price(899), DiscountPrice: offer(1099), CostPrice: offer(520),
		OnOffer: true, Stock: 25,
		NeedsCustomerName: true, NeedsCustomerPhoto: true, NumberOfImagesRequired: 2,
	},
	{
		SKU: "SEED-MUG-NAME", Name: "Name Print Mug", Category: "Mugs",
		Description: "Ceramic mug printed with a name of your choice",
		Tags:        []string{"birthday"}, Rating: 4.2, Reviews: 91,
		RetailPrice: price(499), ResellerPrice: price(320), SellingPrice: offer(449),
		Stock: 120, NeedsCustomerName: true,
	},
	{
		SKU: "SEED-MUG-PHOTO", Name: "Photo Mug", Category: "Mugs",
		Description: "Mug wrapped with one customer photo",
		Tags:        []string{"gift"}, Rating: 4.4, Reviews: 57,
		RetailPrice: price(549), ResellerPrice: price(360),
		Stock: 80, NeedsCustomerPhoto: true, NumberOfImagesRequired: 1,
	},
	{
		SKU: "SEED-CUSH-PLAIN", Name: "Velvet Cushion", Category: "Cushions",
		Description: "Soft velvet cushion cover",
		Rating:      3.9, Reviews: 14,
		RetailPrice: price(799), ResellerPrice: price(560), Discount: 15,
		Stock: 0,
	},
	{
		SKU: "SEED-KEY-WOOD", Name: "Engraved Keychain", Category: "Keychains",
		Description: "Laser engraved wooden keychain",
		Tags:        []string{"gift", "budget"}, Rating: 4.8, Reviews: 203,
		RetailPrice: price(199), ResellerPrice: price(120), DiscountPrice: offer(149),
		OnOffer: true, Stock: 400, NeedsCustomerName: true,
	},
}

// Apply inserts demo data for manual testing. Running it again updates products in place
// and leaves existing accounts untouched.
func Apply(ctx context.Context, cats CategoryWriter, prods ProductWriter, users UserWriter, accounts []Account, logger zerolog.Logger) error {
	for _, name := range categories {
		if _, err := cats.Upsert(ctx, domain.Category{Name: name}); err != nil {
			return fmt.Errorf("upsert category %s: %w", name, err)
		}
	}

	for _, p := range products {
		if _, err := prods.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.SKU, err)
		}
	}

	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", a.Email, err)
		}
		_, err = users.Create(ctx, domain.User{Email: a.Email, PasswordHash: string(hash), Role: a.Role})
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			logger.Info().Str("email", a.Email).Msg("account exists, skipped")
		case err != nil:
			return fmt.Errorf("create account %s: %w", a.Email, err)
		}
	}

	logger.Info().Int("categories", len(categories)).Int("products", len(products)).Int("accounts", len(accounts)).Msg("seed applied")
	return nil
}
