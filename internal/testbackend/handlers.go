package testbackend

import (
	"net/http"
	"sort"

	"github.com/culinarycompanion/culinary/internal/cli/client"
	"github.com/gin-gonic/gin"
)

// userResponse mirrors the backend's user payload, whose username is the email
type userResponse struct {
	UserID   int    `json:"userId"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	JoinDate string `json:"joinDate"`
}

func (b *Backend) getUser(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failUsers > 0 {
		b.failUsers--
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database unavailable"})
		return
	}

	user, ok := b.users[c.Param("email")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, userResponse{
		UserID:   user.UserID,
		Username: user.Email,
		FullName: user.FullName,
		Email:    user.Email,
		JoinDate: user.JoinDate,
	})
}

func (b *Backend) sortedRecipes(filter func(client.Recipe) bool) []client.Recipe {
	recipes := []client.Recipe{}
	for _, r := range b.recipes {
		if filter == nil || filter(r) {
			recipes = append(recipes, r)
		}
	}
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].RecipeID < recipes[j].RecipeID })
	return recipes
}

func (b *Backend) listRecipes(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c.JSON(http.StatusOK, b.sortedRecipes(nil))
}

func (b *Backend) listUserRecipes(c *gin.Context) {
	email := c.Param("email")
	b.mu.Lock()
	defer b.mu.Unlock()
	c.JSON(http.StatusOK, b.sortedRecipes(func(r client.Recipe) bool { return r.UserEmail == email }))
}

func (b *Backend) getRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.recipes[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	c.JSON(http.StatusOK, r)
}

func (b *Backend) createRecipe(c *gin.Context) {
	var r client.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	r.RecipeID = b.nextID
	b.nextID++
	r.CreatedDate = "2024-03-01"
	b.recipes[r.RecipeID] = r
	c.JSON(http.StatusCreated, r)
}

func (b *Backend) updateRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var r client.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	existing, ok := b.recipes[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	existing.Title = r.Title
	existing.Description = r.Description
	existing.Instructions = r.Instructions
	existing.LastModifiedDate = "2024-03-02"
	b.recipes[id] = existing
	c.JSON(http.StatusOK, existing)
}

func (b *Backend) deleteRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.recipes[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	if len(b.ratings[id]) > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "recipe still has ratings"})
		return
	}
	delete(b.recipes, id)
	c.Status(http.StatusOK)
}

func (b *Backend) addRecipeIngredients(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var ingredients []client.RecipeIngredient
	if err := c.ShouldBindJSON(&ingredients); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.recipes[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	r.Ingredients = append(r.Ingredients, ingredients...)
	b.recipes[id] = r
	c.JSON(http.StatusCreated, r)
}

func (b *Backend) updateRecipeIngredients(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var ingredients []client.RecipeIngredient
	if err := c.ShouldBindJSON(&ingredients); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.recipes[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	r.Ingredients = ingredients
	b.recipes[id] = r
	c.Status(http.StatusOK)
}

func (b *Backend) getRecipeRating(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	var sum, count int64
	for _, r := range b.ratings[id] {
		sum += r.Rating
		count++
	}
	avg := int64(0)
	if count > 0 {
		avg = sum / count
	}
	c.JSON(http.StatusOK, []int64{avg, count})
}

func (b *Backend) deleteRatings(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.ratings, id)
	c.Status(http.StatusOK)
}

func (b *Backend) getUserRating(c *gin.Context) {
	id, ok := pathID(c, "recipeId")
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.ratings[id][c.Param("email")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "rating not found"})
		return
	}
	c.JSON(http.StatusOK, r)
}

func (b *Backend) createRating(c *gin.Context) {
	id, ok := pathID(c, "recipeId")
	if !ok {
		return
	}
	var r client.Rating
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.recipes[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	if b.ratings[id] == nil {
		b.ratings[id] = make(map[string]client.Rating)
	}
	r.RatingID = int64(b.nextID)
	b.nextID++
	b.ratings[id][c.Param("email")] = r
	c.JSON(http.StatusCreated, r)
}

func (b *Backend) updateRating(c *gin.Context) {
	ratingID, ok := pathID(c, "ratingId")
	if !ok {
		return
	}
	var update client.Rating
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for recipeID, byUser := range b.ratings {
		for email, r := range byUser {
			if r.RatingID == int64(ratingID) {
				r.Rating = update.Rating
				if update.Comment != "" {
					r.Comment = update.Comment
				}
				b.ratings[recipeID][email] = r
				c.Status(http.StatusOK)
				return
			}
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "rating not found"})
}

func (b *Backend) listIngredients(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := make(map[string]bool)
	ingredients := []client.Ingredient{}
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			ingredients = append(ingredients, client.Ingredient{IngredientID: len(ingredients) + 1, Name: name})
		}
	}
	for _, r := range b.sortedRecipes(nil) {
		for _, ing := range r.Ingredients {
			add(ing.Ingredient.Name)
		}
	}
	for _, items := range b.pantry {
		for _, item := range items {
			add(item.Ingredient.Name)
		}
	}
	c.JSON(http.StatusOK, ingredients)
}

func (b *Backend) recommend(c *gin.Context) {
	var names []string
	if err := c.ShouldBindJSON(&names); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	recs := b.recommendations
	if recs == nil {
		recs = []client.Recommendation{}
	}
	c.JSON(http.StatusOK, recs)
}

func (b *Backend) listPantry(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := b.pantry[c.Param("email")]
	if items == nil {
		items = []client.PantryItem{}
	}
	c.JSON(http.StatusOK, items)
}

func (b *Backend) addPantry(c *gin.Context) {
	var items []client.PantryItem
	if err := c.ShouldBindJSON(&items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := c.Param("email")
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pantry[email] = append(b.pantry[email], items...)
	c.JSON(http.StatusCreated, items)
}

func (b *Backend) replacePantry(c *gin.Context) {
	var items []client.PantryItem
	if err := c.ShouldBindJSON(&items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pantry[c.Param("email")] = items
	c.Status(http.StatusOK)
}

func (b *Backend) removePantry(c *gin.Context) {
	email, name := c.Param("email"), c.Param("name")
	b.mu.Lock()
	defer b.mu.Unlock()
	items := b.pantry[email]
	for i, item := range items {
		if item.Ingredient.Name == name {
			b.pantry[email] = append(items[:i], items[i+1:]...)
			c.Status(http.StatusOK)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "ingredient not in pantry"})
}
