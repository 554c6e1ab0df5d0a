package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Yaseer123/etc-ecommerce-sub001/internal/handler"
	"github.com/Yaseer123/etc-ecommerce-sub001/internal/storage/postgres"
)

type categoryJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parentId"`
}

type productJSON struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  string          `json:"categoryId"`
	Image       struct {
		Thumbnail string `json:"thumbnail"`
		Mobile    string `json:"mobile"`
		Tablet    string `json:"tablet"`
		Desktop   string `json:"desktop"`
	} `json:"image"`
}

type catalogJSON struct {
	Categories []categoryJSON `json:"categories"`
	Products   []productJSON  `json:"products"`
}

func main() {
	var (
		databaseURL   string
		catalogFile   string
		adminEmail    string
		adminKey      string
		customerEmail string
		customerKey   string
		apiKeyPepper  string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&catalogFile, "catalog-file", "db/seed/catalog.json", "path to the catalog JSON file")
	flag.StringVar(&adminEmail, "admin-email", "admin@store.local", "email for the seeded admin user")
	flag.StringVar(&adminKey, "admin-key", "", "API key to seed for the admin user (or STORE_SEED_ADMIN_KEY env)")
	flag.StringVar(&customerEmail, "customer-email", "customer@store.local", "email for the seeded demo customer")
	flag.StringVar(&customerKey, "customer-key", "", "API key to seed for a demo customer; empty skips (or STORE_SEED_CUSTOMER_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or STORE_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminKey == "" {
		adminKey = os.Getenv("STORE_SEED_ADMIN_KEY")
	}
	if adminKey == "" {
		slog.Error("admin API key is required: set --admin-key or STORE_SEED_ADMIN_KEY")
		os.Exit(1)
	}
	if customerKey == "" {
		customerKey = os.Getenv("STORE_SEED_CUSTOMER_KEY")
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("STORE_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, catalogFile, adminEmail, adminKey, customerEmail, customerKey, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, catalogFile, adminEmail, adminKey, customerEmail, customerKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedCatalog(ctx, pool, catalogFile); err != nil {
		return errors.Wrap(err, "seed catalog")
	}

	if err := seedAdmin(ctx, pool, adminEmail, adminKey, pepper); err != nil {
		return errors.Wrap(err, "seed admin")
	}

	if customerKey != "" {
		if err := seedCustomer(ctx, pool, customerEmail, customerKey, pepper); err != nil {
			return errors.Wrap(err, "seed customer")
		}
	}

	return nil
}

const (
	upsertCategorySQL = `
INSERT INTO categories (id, name, parent_id)
VALUES ($1, $2, NULLIF($3, ''))
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, parent_id = EXCLUDED.parent_id`

	upsertProductSQL = `
INSERT INTO products (id, title, description, price, stock, category_id,
                      image_thumbnail, image_mobile, image_tablet, image_desktop)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
    title           = EXCLUDED.title,
    description     = EXCLUDED.description,
    price           = EXCLUDED.price,
    stock           = EXCLUDED.stock,
    category_id     = EXCLUDED.category_id,
    image_thumbnail = EXCLUDED.image_thumbnail,
    image_mobile    = EXCLUDED.image_mobile,
    image_tablet    = EXCLUDED.image_tablet,
    image_desktop   = EXCLUDED.image_desktop`

	upsertAdminSQL = `
INSERT INTO users (id, email, name, role)
VALUES ('admin', $1, 'Store admin', 'admin')
ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, role = 'admin'`

	upsertAdminKeySQL = `
INSERT INTO api_keys (id, key_hash, user_id, name, active)
VALUES ('admin-default', $1, 'admin', 'Default admin key', TRUE)
ON CONFLICT (id) DO UPDATE SET key_hash = EXCLUDED.key_hash, active = TRUE`

	upsertCustomerSQL = `
INSERT INTO users (id, email, name, role)
VALUES ('customer', $1, 'Demo customer', 'customer')
ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email`

	upsertCustomerKeySQL = `
INSERT INTO api_keys (id, key_hash, user_id, name, active)
VALUES ('customer-default', $1, 'customer', 'Demo customer key', TRUE)
ON CONFLICT (id) DO UPDATE SET key_hash = EXCLUDED.key_hash, active = TRUE`
)

func seedCatalog(ctx context.Context, pool *pgxpool.Pool, catalogFile string) error {
	slog.Info("reading catalog file", slog.String("path", catalogFile))

	data, err := os.ReadFile(catalogFile)
	if err != nil {
		return errors.Wrap(err, "read catalog file")
	}

	var catalog catalogJSON
	if err := json.Unmarshal(data, &catalog); err != nil {
		return errors.Wrap(err, "parse catalog JSON")
	}

	slog.Info("upserting categories", slog.Int("count", len(catalog.Categories)))

	// Parents must exist before children because of the self-referencing FK.
	for _, c := range catalog.Categories {
		if _, err := pool.Exec(ctx, upsertCategorySQL, c.ID, c.Name, c.ParentID); err != nil {
			return errors.Wrapf(err, "upsert category %s", c.ID)
		}
	}

	slog.Info("upserting products", slog.Int("count", len(catalog.Products)))

	for _, p := range catalog.Products {
		if _, err := pool.Exec(ctx, upsertProductSQL,
			p.ID, p.Title, p.Description, p.Price, p.Stock, p.CategoryID,
			p.Image.Thumbnail, p.Image.Mobile, p.Image.Tablet, p.Image.Desktop,
		); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("title", p.Title))
	}

	return nil
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, email, apiKey, pepper string) error {
	slog.Info("seeding admin user", slog.String("email", email))

	if _, err := pool.Exec(ctx, upsertAdminSQL, email); err != nil {
		return errors.Wrap(err, "upsert admin user")
	}

	keyHash := handler.HashKey([]byte(pepper), apiKey)
	if _, err := pool.Exec(ctx, upsertAdminKeySQL, keyHash); err != nil {
		return errors.Wrap(err, "upsert admin API key")
	}

	slog.Info("upserted admin API key", slog.String("id", "admin-default"))

	return nil
}

func seedCustomer(ctx context.Context, pool *pgxpool.Pool, email, apiKey, pepper string) error {
	slog.Info("seeding demo customer", slog.String("email", email))

	if _, err := pool.Exec(ctx, upsertCustomerSQL, email); err != nil {
		return errors.Wrap(err, "upsert customer user")
	}

	keyHash := handler.HashKey([]byte(pepper), apiKey)
	if _, err := pool.Exec(ctx, upsertCustomerKeySQL, keyHash); err != nil {
		return errors.Wrap(err, "upsert customer API key")
	}

	slog.Info("upserted customer API key", slog.String("id", "customer-default"))

	return nil
}
