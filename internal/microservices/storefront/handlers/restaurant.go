package handlers

import (
	"errors"
	"net/http"

	"restaurant-storefront/internal/microservices/storefront/repository"
	"restaurant-storefront/internal/microservices/storefront/service"
	"restaurant-storefront/internal/theme"
)

type RestaurantHandler struct {
	menu  service.MenuServiceInterface
	theme service.ThemeServiceInterface
}

func NewRestaurantHandler(menu service.MenuServiceInterface, th service.ThemeServiceInterface) *RestaurantHandler {
	return &RestaurantHandler{menu: menu, theme: th}
}

func (rh *RestaurantHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	resp, err := rh.menu.GetRestaurant(r.Context(), param(r, "id"))
	if err != nil {
		restaurantError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (rh *RestaurantHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	resp, err := rh.theme.Resolve(r.Context(), param(r, "id"), r.URL.Query())
	if err != nil {
		restaurantError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetStylesheet отдаёт :root с переменными темы и custom CSS.
func (rh *RestaurantHandler) GetStylesheet(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	css, err := rh.theme.Stylesheet(r.Context(), param(r, "id"), params)
	if err != nil {
		restaurantError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	if theme.IsPreview(params) {
		w.Header().Set("Cache-Control", "no-store")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=60")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(css))
}

func restaurantError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "not_found", "Restaurant not found", err)
		return
	}
	writeProblem(w, http.StatusInternalServerError, "db_error", "Failed to load restaurant", err)
}
