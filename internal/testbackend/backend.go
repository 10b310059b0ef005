// Package testbackend is an in-memory stand-in for the Culinary Companion API
// used by tests. It speaks the same routes and JSON shapes as the real
// backend, checks bearer tokens, and records what it saw.
package testbackend

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/culinarycompanion/culinary/internal/cli/client"
	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
	ErrInvalidToken      = errors.New("invalid token")
)

// Backend is a fake API server
type Backend struct {
	server *httptest.Server

	mu              sync.Mutex
	tokens          map[string]string // token -> email
	users           map[string]client.User
	recipes         map[int]client.Recipe
	ratings         map[int]map[string]client.Rating // recipe -> email -> rating
	pantry          map[string][]client.PantryItem
	recommendations []client.Recommendation
	nextID          int
	requests        []Request
	failUsers       int
}

// Request is a request the backend received
type Request struct {
	Method        string
	Path          string
	Authorization []string
	RequestID     string
}

// New starts a backend. Call Close when done.
func New() *Backend {
	gin.SetMode(gin.TestMode)

	b := &Backend{
		tokens:  make(map[string]string),
		users:   make(map[string]client.User),
		recipes: make(map[int]client.Recipe),
		ratings: make(map[int]map[string]client.Rating),
		pantry:  make(map[string][]client.PantryItem),
		nextID:  1,
	}
	b.server = httptest.NewServer(b.router())
	return b
}

// URL is the API base URL, including the /api prefix
func (b *Backend) URL() string {
	return b.server.URL + "/api"
}

// Close shuts the server down
func (b *Backend) Close() {
	b.server.Close()
}

// AddUser registers a user reachable with token
func (b *Backend) AddUser(email, fullName, token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[email] = client.User{UserID: len(b.users) + 1, FullName: fullName, Email: email, JoinDate: "2024-03-01"}
	if token != "" {
		b.tokens[token] = email
	}
}

// RevokeToken makes token invalid
func (b *Backend) RevokeToken(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.tokens, token)
}

// FailUserLookups makes the next n user lookups answer 500
func (b *Backend) FailUserLookups(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failUsers = n
}

// SetRecommendations sets what the recommender returns
func (b *Backend) SetRecommendations(recs []client.Recommendation) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recommendations = recs
}

// SeedRecipe stores a recipe and returns its ID
func (b *Backend) SeedRecipe(r client.Recipe) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	r.RecipeID = b.nextID
	b.nextID++
	b.recipes[r.RecipeID] = r
	return r.RecipeID
}

// Recipe returns a stored recipe
func (b *Backend) Recipe(id int) (client.Recipe, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.recipes[id]
	return r, ok
}

// Ratings returns the ratings of a recipe keyed by email
func (b *Backend) Ratings(recipeID int) map[string]client.Rating {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]client.Rating)
	for k, v := range b.ratings[recipeID] {
		out[k] = v
	}
	return out
}

// Pantry returns a user's pantry
func (b *Backend) Pantry(email string) []client.PantryItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]client.PantryItem(nil), b.pantry[email]...)
}

// Requests returns the requests received so far
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// RequestsTo counts requests with the given method and path prefix
func (b *Backend) RequestsTo(method, pathPrefix string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && strings.HasPrefix(r.Path, pathPrefix) {
			n++
		}
	}
	return n
}

func (b *Backend) router() *gin.Engine {
	router := gin.New()
	router.Use(b.record, b.authMiddleware)

	api := router.Group("/api")
	{
		api.GET("/users/:email", b.getUser)

		api.GET("/recipes", b.listRecipes)
		api.POST("/recipes", b.createRecipe)
		api.POST("/recipes/recommendations", b.recommend)
		api.GET("/recipes/user/:email", b.listUserRecipes)
		api.GET("/recipes/:id", b.getRecipe)
		api.PUT("/recipes/:id", b.updateRecipe)
		api.DELETE("/recipes/:id", b.deleteRecipe)
		api.POST("/recipes/:id/ingredients/batch", b.addRecipeIngredients)
		api.PUT("/recipes/:id/ingredients", b.updateRecipeIngredients)
		api.GET("/recipes/:id/rating", b.getRecipeRating)
		api.DELETE("/recipes/:id/ratings", b.deleteRatings)
		api.PUT("/recipes/ratings/:ratingId/update", b.updateRating)

		api.GET("/ratings/:recipeId/:email", b.getUserRating)
		api.POST("/ratings/add/:recipeId/:email", b.createRating)

		api.GET("/ingredients", b.listIngredients)

		api.GET("/myingredients/:email", b.listPantry)
		api.PUT("/myingredients/:email", b.replacePantry)
		api.POST("/myingredients/batch/:email", b.addPantry)
		api.DELETE("/myingredients/:email/:name", b.removePantry)
	}

	return router
}

func (b *Backend) record(c *gin.Context) {
	b.mu.Lock()
	b.requests = append(b.requests, Request{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		Authorization: c.Request.Header.Values("Authorization"),
		RequestID:     c.GetHeader("X-Request-ID"),
	})
	b.mu.Unlock()
	c.Next()
}

func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthFormat
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}

func (b *Backend) authMiddleware(c *gin.Context) {
	token, err := extractBearerToken(c.GetHeader("Authorization"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	b.mu.Lock()
	email, ok := b.tokens[token]
	b.mu.Unlock()
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidToken.Error()})
		return
	}

	c.Set("email", email)
	c.Next()
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
