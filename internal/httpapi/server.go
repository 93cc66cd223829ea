// Package httpapi serves the app over JSON/HTTP.
package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"recipe-finder/internal/app"
	"recipe-finder/internal/recipe"
	"recipe-finder/internal/shopping"
)

// Server holds the HTTP handlers.
type Server struct {
	app    *app.App
	logger *zap.Logger
}

// NewServer creates a Server for a.
func NewServer(a *app.App, logger *zap.Logger) *Server {
	return &Server{app: a, logger: logger}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return s.logRequests(mux)
}

// Register adds the routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/ingredients", s.handleIngredients)
	mux.HandleFunc("GET /api/recipes", s.handleRecipes)
	mux.HandleFunc("GET /api/recipes/{id}", s.handleRecipe)
	mux.HandleFunc("POST /api/recipes/{id}/shopping", s.handleRecipeToShopping)
	mux.HandleFunc("GET /api/search", s.handleSearch)

	mux.HandleFunc("GET /api/favorites", s.handleFavorites)
	mux.HandleFunc("PUT /api/favorites/{id}", s.handleSetFavorite(true))
	mux.HandleFunc("DELETE /api/favorites/{id}", s.handleSetFavorite(false))

	mux.HandleFunc("GET /api/shopping", s.handleShoppingList)
	mux.HandleFunc("POST /api/shopping", s.handleShoppingAdd)
	mux.HandleFunc("DELETE /api/shopping", s.handleShoppingClearAll)
	mux.HandleFunc("PATCH /api/shopping/{id}", s.handleShoppingUpdate)
	mux.HandleFunc("DELETE /api/shopping/{id}", s.handleShoppingRemove)
	mux.HandleFunc("POST /api/shopping/{id}/toggle", s.handleShoppingToggle)
	mux.HandleFunc("POST /api/shopping/clear-completed", s.handleShoppingClearCompleted)
	mux.HandleFunc("GET /api/shopping/export", s.handleShoppingExport)
	mux.HandleFunc("GET /api/shopping/export.xlsx", s.handleShoppingExportXLSX)
}

type favoriteRecipe struct {
	recipe.Recipe
	Favorite bool `json:"favorite"`
}

type shoppingResponse struct {
	Items     []shopping.Item `json:"items"`
	Total     int             `json:"total"`
	Completed int             `json:"completed"`
}

type addItemRequest struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"system": s.app.Health(),
	})
}

func (s *Server) handleIngredients(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Catalog().Ingredients)
}

func (s *Server) handleRecipes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.withFavorites(s.app.Catalog().Recipes))
}

func (s *Server) handleRecipe(w http.ResponseWriter, r *http.Request) {
	rec, err := s.app.Catalog().Recipe(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, favoriteRecipe{Recipe: rec, Favorite: s.app.Favorites().IsFavorite(rec.ID)})
}

func (s *Server) handleRecipeToShopping(w http.ResponseWriter, r *http.Request) {
	if _, err := s.app.AddRecipeToShoppingList(r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeShopping(w, http.StatusOK)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var ids []string
	for _, v := range r.URL.Query()["ingredients"] {
		ids = append(ids, strings.Split(v, ",")...)
	}

	res, err := s.app.Search(ids)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ingredients": res.Ingredients,
		"chart":       res.Chart,
		"recipes":     s.withFavorites(res.Recipes),
	})
}

func (s *Server) handleFavorites(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"recipeIds": s.app.Favorites().IDs(),
		"recipes":   s.app.FavoriteRecipes(),
	})
}

func (s *Server) handleSetFavorite(favorite bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.app.SetFavorite(r.PathValue("id"), favorite); err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"recipeIds": s.app.Favorites().IDs()})
	}
}

func (s *Server) handleShoppingList(w http.ResponseWriter, _ *http.Request) {
	s.writeShopping(w, http.StatusOK)
}

func (s *Server) handleShoppingAdd(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	item, err := s.app.Shopping().AddItem(req.Name, req.Quantity, req.Unit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleShoppingClearAll(w http.ResponseWriter, _ *http.Request) {
	s.app.Shopping().ClearAll()
	s.writeShopping(w, http.StatusOK)
}

func (s *Server) handleShoppingUpdate(w http.ResponseWriter, r *http.Request) {
	var update shopping.ItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		s.writeError(w, shopping.ErrEmptyName)
		return
	}
	if update.Quantity != nil && *update.Quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("quantity must be positive"))
		return
	}

	item, ok := s.app.Shopping().UpdateItem(r.PathValue("id"), update)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("item not found"))
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleShoppingRemove(w http.ResponseWriter, r *http.Request) {
	s.app.Shopping().RemoveItem(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleShoppingToggle(w http.ResponseWriter, r *http.Request) {
	item, ok := s.app.Shopping().ToggleCompleted(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("item not found"))
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleShoppingClearCompleted(w http.ResponseWriter, _ *http.Request) {
	s.app.Shopping().ClearCompleted()
	s.writeShopping(w, http.StatusOK)
}

func (s *Server) handleShoppingExport(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(s.app.Shopping().Export()))
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleShoppingExportXLSX(w http.ResponseWriter, _ *http.Request) {
	s.writeAttachment(w, "shopping-list.xlsx", xlsxContentType, s.app.Shopping().ExportXLSX)
}

// writeAttachment renders the whole file before sending any header, so a
// failed render is answered with an error status.
func (s *Server) writeAttachment(w http.ResponseWriter, filename, contentType string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		s.writeError(w, fmt.Errorf("failed to render %s: %w", filename, err))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) writeShopping(w http.ResponseWriter, status int) {
	items := s.app.Shopping().Items()
	total, completed := s.app.Shopping().Counts()
	writeJSON(w, status, shoppingResponse{Items: items, Total: total, Completed: completed})
}

func (s *Server) withFavorites(recipes []recipe.Recipe) []favoriteRecipe {
	out := make([]favoriteRecipe, len(recipes))
	for i, r := range recipes {
		out[i] = favoriteRecipe{Recipe: r, Favorite: s.app.Favorites().IsFavorite(r.ID)}
	}
	return out
}

// writeError maps domain errors to 400/404 and anything else to 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recipe.ErrRecipeNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, recipe.ErrUnknownIngredient),
		errors.Is(err, app.ErrTooFewIngredients),
		errors.Is(err, app.ErrTooManyIngredients),
		errors.Is(err, shopping.ErrEmptyName):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request served",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
