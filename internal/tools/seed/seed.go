// Package seed fills a storefront database with an admin account, a demo
// catalog and default settings.
package seed

import (
	"bytes"
	"context"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/platform/id"
	"github.com/louisbranch/storefront/internal/platform/requestctx"
	"github.com/louisbranch/storefront/internal/services/api/access"
	"github.com/louisbranch/storefront/internal/services/api/catalog"
	"github.com/louisbranch/storefront/internal/services/api/settings"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/louisbranch/storefront/internal/services/api/storage/sqlite"
	"golang.org/x/crypto/bcrypt"
)

//go:embed fixtures/*.csv
var fixtures embed.FS

// Config controls a seed run.
type Config struct {
	DBPath        string
	AdminEmail    string
	AdminPassword string
	// Generate adds this many random products on top of the fixtures.
	Generate int
	// Seed makes generated products reproducible; zero picks a random seed.
	Seed    uint64
	Verbose bool
}

// DefaultConfig returns defaults for local development.
func DefaultConfig() Config {
	return Config{
		DBPath:     "data/storefront.db",
		AdminEmail: "admin@storefront.local",
	}
}

// Run seeds the database at cfg.DBPath. It is idempotent: existing accounts
// and categories are kept and products are upserted by slug.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if strings.TrimSpace(cfg.AdminPassword) == "" {
		return errors.New("admin password is required")
	}
	if cfg.Generate < 0 {
		return errors.New("generate must not be negative")
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	admin, created, err := ensureAdmin(ctx, store, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(out, "created superadmin %s\n", admin.Email)
	} else {
		fmt.Fprintf(out, "superadmin %s already exists\n", admin.Email)
	}

	staff := requestctx.User{ID: admin.ID, Email: admin.Email, Role: string(access.RoleSuperadmin)}
	catalogSvc := catalog.NewService(store, catalog.Config{})
	if err := seedCategories(ctx, catalogSvc, staff, out, cfg.Verbose); err != nil {
		return err
	}

	products, err := fixtures.ReadFile("fixtures/products.csv")
	if err != nil {
		return fmt.Errorf("read product fixtures: %w", err)
	}
	if err := importProducts(ctx, catalogSvc, staff, products, "fixtures", out, cfg.Verbose); err != nil {
		return err
	}
	if cfg.Generate > 0 {
		seed := cfg.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		fmt.Fprintf(out, "generating %d products (seed %d)\n", cfg.Generate, seed)
		generated, err := GenerateProducts(rand.New(rand.NewPCG(seed, seed)), cfg.Generate)
		if err != nil {
			return err
		}
		if err := importProducts(ctx, catalogSvc, staff, generated, "generated", out, cfg.Verbose); err != nil {
			return err
		}
	}

	return seedSettings(ctx, store, staff, out)
}

func ensureAdmin(ctx context.Context, store *sqlite.Store, email, password string) (storage.Profile, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return storage.Profile{}, false, errors.New("admin email is required")
	}
	account, err := store.GetAccountByEmail(ctx, email)
	if err == nil {
		profile, err := store.GetProfile(ctx, account.ID)
		if err != nil {
			return storage.Profile{}, false, fmt.Errorf("load admin profile: %w", err)
		}
		if profile.Role != access.RoleSuperadmin {
			profile.Role = access.RoleSuperadmin
			profile.UpdatedAt = time.Now().UTC()
			if err := store.UpdateProfile(ctx, profile); err != nil {
				return storage.Profile{}, false, fmt.Errorf("promote admin: %w", err)
			}
		}
		return profile, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return storage.Profile{}, false, fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return storage.Profile{}, false, fmt.Errorf("hash password: %w", err)
	}
	userID, err := id.NewID()
	if err != nil {
		return storage.Profile{}, false, fmt.Errorf("generate admin id: %w", err)
	}
	now := time.Now().UTC()
	profile := storage.Profile{
		ID:        userID,
		Email:     email,
		FirstName: "Store",
		LastName:  "Admin",
		Role:      access.RoleSuperadmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	account = storage.Account{ID: userID, Email: email, PasswordHash: string(hash), CreatedAt: now}
	if err := store.CreateAccount(ctx, account, profile); err != nil {
		return storage.Profile{}, false, fmt.Errorf("create admin: %w", err)
	}
	return profile, true, nil
}

func seedCategories(ctx context.Context, svc *catalog.Service, staff requestctx.User, out io.Writer, verbose bool) error {
	raw, err := fixtures.ReadFile("fixtures/categories.csv")
	if err != nil {
		return fmt.Errorf("read category fixtures: %w", err)
	}
	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		return fmt.Errorf("parse category fixtures: %w", err)
	}
	for _, record := range records[1:] {
		name, slug := record[0], record[1]
		_, err := svc.CreateCategory(ctx, staff, catalog.CategoryInput{Name: &name, Slug: &slug})
		switch {
		case err == nil:
			if verbose {
				fmt.Fprintf(out, "  category %s created\n", slug)
			}
		case apperrors.CodeOf(err) == apperrors.CodeAlreadyExists:
			if verbose {
				fmt.Fprintf(out, "  category %s exists\n", slug)
			}
		default:
			return fmt.Errorf("create category %s: %w", slug, err)
		}
	}
	return nil
}

func importProducts(ctx context.Context, svc *catalog.Service, staff requestctx.User, data []byte, label string, out io.Writer, verbose bool) error {
	summary, err := svc.Import(ctx, staff, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("import %s products: %w", label, err)
	}
	fmt.Fprintf(out, "%s products: %d created, %d updated, %d failed\n", label, summary.Created, summary.Updated, summary.Failed)
	for _, result := range summary.Results {
		if result.Status == catalog.ImportFailed || verbose {
			fmt.Fprintf(out, "  line %d %s: %s %s\n", result.Line, result.Slug, result.Status, result.Error)
		}
	}
	return nil
}

func seedSettings(ctx context.Context, store *sqlite.Store, staff requestctx.User, out io.Writer) error {
	if _, err := store.GetSettings(ctx); err == nil {
		fmt.Fprintln(out, "settings already saved")
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("load settings: %w", err)
	}
	defaults := settings.Defaults()
	defaults.SiteDescription = "Handpicked goods, shipped across Tunisia"
	defaults.ContactEmail = "hello@storefront.local"
	defaults.Slides = []storage.Slide{
		{Title: "Summer linen", Subtitle: "Light shirts for hot days", ButtonText: "Shop shirts", ButtonLink: "/store?category=shirts", ImageURL: "/static/img/slide-linen.jpg", IsActive: true},
		{Title: "For the home", Subtitle: "Olive wood and stoneware", ButtonText: "Shop home", ButtonLink: "/store?category=home", ImageURL: "/static/img/slide-home.jpg", IsActive: true},
	}
	if _, err := settings.NewService(store, nil).Update(ctx, staff, defaults); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	fmt.Fprintln(out, "saved default settings")
	return nil
}
