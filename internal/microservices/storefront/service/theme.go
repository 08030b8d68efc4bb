package service

import (
	"context"
	"net/url"

	"restaurant-storefront/internal/common/logger"
	"restaurant-storefront/internal/microservices/storefront/domain/dto"
	"restaurant-storefront/internal/microservices/storefront/repository"
	"restaurant-storefront/internal/theme"
)

type ThemeServiceInterface interface {
	Resolve(ctx context.Context, restaurantID string, params url.Values) (dto.ThemeResponse, error)
	Stylesheet(ctx context.Context, restaurantID string, params url.Values) (string, error)
}

type ThemeService struct {
	db        repository.MenuRepositoryInterface
	def       theme.Config
	strictCSS bool
	lg        *logger.Logger
}

func NewThemeService(db repository.MenuRepositoryInterface, def theme.Config, strictCSS bool, lg *logger.Logger) *ThemeService {
	return &ThemeService{db: db, def: def, strictCSS: strictCSS, lg: lg}
}

func (ts *ThemeService) Resolve(ctx context.Context, restaurantID string, params url.Values) (dto.ThemeResponse, error) {
	r, err := ts.resolver(ctx, restaurantID, params, nil)
	if err != nil {
		return dto.ThemeResponse{}, err
	}
	cur := r.Current()
	return dto.ThemeResponse{
		Theme:     cur,
		Variables: theme.ToVariableMap(cur),
		Preview:   r.Preview(),
	}, nil
}

func (ts *ThemeService) Stylesheet(ctx context.Context, restaurantID string, params url.Values) (string, error) {
	doc := theme.NewDocument(theme.WithStrictCSS(ts.strictCSS))
	if _, err := ts.resolver(ctx, restaurantID, params, doc); err != nil {
		return "", err
	}
	return doc.CSS(), nil
}

// resolver feeds the tenant record and the request parameters into a fresh
// Resolver. When target is set it follows every recomputation.
func (ts *ThemeService) resolver(ctx context.Context, restaurantID string, params url.Values, target theme.StyleTarget) (*theme.Resolver, error) {
	if _, err := ts.db.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	tenant, err := ts.db.GetTheme(ctx, restaurantID)
	if err != nil {
		ts.lg.Error("theme_load_failed", err, map[string]any{"restaurant_id": restaurantID})
		tenant = nil
	}

	r := theme.NewResolver(ts.def)
	if target != nil {
		r.Subscribe(func(c theme.Config) { theme.Apply(target, c) })
	}
	r.SetTenant(tenant)
	r.SetParams(params)
	return r, nil
}
