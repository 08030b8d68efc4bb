package service

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-storefront/internal/common/logger"
	"restaurant-storefront/internal/microservices/storefront/repository"
	"restaurant-storefront/internal/theme"
)

func themedRepo() repository.MenuRepositoryInterface {
	m := repository.SeedMenu()
	css := ".menu{gap:1rem}</style>"
	m.Theme = &theme.RestaurantTheme{
		RestaurantID: repository.DemoRestaurantID,
		Layout:       "list",
		Colors:       theme.Colors{Primary: "#e53e3e"},
		CustomCSS:    &css,
	}
	return repository.NewMemoryMenuRepository(m)
}

func TestThemeService_Resolve(t *testing.T) {
	svc := NewThemeService(themedRepo(), theme.Default(), true, logger.NewNop())
	params, _ := url.ParseQuery("preview=true&layout_type=grid&primary_color=%23123456")

	resp, err := svc.Resolve(context.Background(), repository.DemoRestaurantID, params)
	require.NoError(t, err)
	assert.True(t, resp.Preview)
	assert.Equal(t, theme.LayoutGrid, resp.Theme.Layout)
	assert.Equal(t, "#123456", resp.Theme.Colors.Primary)
	assert.Equal(t, "210 65% 20%", resp.Variables["--theme-primary"])
}

func TestThemeService_ResolveWithoutPreview(t *testing.T) {
	svc := NewThemeService(themedRepo(), theme.Default(), true, logger.NewNop())
	params, _ := url.ParseQuery("layout_type=grid")

	resp, err := svc.Resolve(context.Background(), repository.DemoRestaurantID, params)
	require.NoError(t, err)
	assert.False(t, resp.Preview)
	assert.Equal(t, theme.LayoutList, resp.Theme.Layout)
}

func TestThemeService_Stylesheet(t *testing.T) {
	svc := NewThemeService(themedRepo(), theme.Default(), true, logger.NewNop())

	css, err := svc.Stylesheet(context.Background(), repository.DemoRestaurantID, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(css, ":root {"))
	assert.Contains(t, css, "--layout-type: list;")
	assert.Contains(t, css, ".menu{gap:1rem}")
	assert.NotContains(t, css, "</style>")
	assert.Equal(t, 1, strings.Count(css, theme.CustomCSSID))
}

func TestThemeService_UnknownRestaurant(t *testing.T) {
	svc := NewThemeService(themedRepo(), theme.Default(), true, logger.NewNop())
	_, err := svc.Resolve(context.Background(), "nope", nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestThemeService_BrokenThemeDegrades(t *testing.T) {
	repo := brokenMenu{MenuRepositoryInterface: repository.NewMemory().MenuRepo}
	svc := NewThemeService(repo, theme.Default(), true, logger.NewNop())

	resp, err := svc.Resolve(context.Background(), repository.DemoRestaurantID, nil)
	require.NoError(t, err)
	assert.Equal(t, theme.Default(), resp.Theme)
}
