package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUser(t *testing.T) {
	t.Run("username field", func(t *testing.T) {
		server, seen := recordingServer(t, http.StatusOK, `{"username":"a@b.com","fullName":"A B"}`)
		user, err := New(server.URL).GetUser(context.Background(), "a@b.com")
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", user.Name())
		assert.Equal(t, "A B", user.FullName)
		assert.Equal(t, "/users/a@b.com", seen()[0].path)
	})

	t.Run("falls back to email", func(t *testing.T) {
		server, _ := recordingServer(t, http.StatusOK, `{"email":"a@b.com","fullName":"A B","userId":4}`)
		user, err := New(server.URL).GetUser(context.Background(), "a@b.com")
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", user.Username)
	})

	t.Run("non-200 success is rejected", func(t *testing.T) {
		server, _ := recordingServer(t, http.StatusNoContent, ``)
		_, err := New(server.URL).GetUser(context.Background(), "a@b.com")
		require.Error(t, err)
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNoContent, statusErr.StatusCode)
	})

	t.Run("unauthorized", func(t *testing.T) {
		server, _ := recordingServer(t, http.StatusUnauthorized, ``)
		_, err := New(server.URL).GetUser(context.Background(), "a@b.com")
		assert.Error(t, err)
	})
}

func TestGetRecipeRating(t *testing.T) {
	server, seen := recordingServer(t, http.StatusOK, `[4, 12]`)
	summary, err := New(server.URL).GetRecipeRating(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, &RatingSummary{Average: 4, Count: 12}, summary)
	assert.Equal(t, "/recipes/3/rating", seen()[0].path)

	server, _ = recordingServer(t, http.StatusOK, `[null, 0]`)
	summary, err = New(server.URL).GetRecipeRating(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, &RatingSummary{}, summary)
}

func TestGetUserRating(t *testing.T) {
	server, _ := recordingServer(t, http.StatusOK, `{"ratingId":5,"rating":3}`)
	rating, err := New(server.URL).GetUserRating(context.Background(), 1, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, &Rating{RatingID: 5, Rating: 3}, rating)

	for _, tc := range []struct {
		status int
		body   string
	}{
		{http.StatusNotFound, `{"error":"not found"}`},
		{http.StatusOK, `null`},
		{http.StatusOK, ``},
		{http.StatusOK, `{"rating":0}`},
	} {
		server, _ := recordingServer(t, tc.status, tc.body)
		rating, err := New(server.URL).GetUserRating(context.Background(), 1, "a@b.com")
		require.NoError(t, err, tc.body)
		assert.Nil(t, rating, tc.body)
	}

	server, _ = recordingServer(t, http.StatusInternalServerError, `boom`)
	_, err = New(server.URL).GetUserRating(context.Background(), 1, "a@b.com")
	assert.Error(t, err)
}

func TestRecommend(t *testing.T) {
	server, seen := recordingServer(t, http.StatusOK,
		`[{"title":"Omelette","description":"eggs","ingredients":"['egg']","instructions":"['whisk']"}]`)

	recs, err := New(server.URL).Recommend(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Omelette", recs[0].Title)

	reqs := seen()
	assert.Equal(t, "/recipes/recommendations", reqs[0].path)
	assert.JSONEq(t, `[]`, string(reqs[0].body), "nil names are sent as an empty list")
}

func TestPantryOwner(t *testing.T) {
	server, seen := recordingServer(t, http.StatusCreated, `[]`)
	_, err := New(server.URL).AddPantryItems(context.Background(), "a@b.com", []PantryItem{
		{Ingredient: Ingredient{Name: "rice"}, Quantity: 1, Unit: Kilogram},
	})
	require.NoError(t, err)

	reqs := seen()
	assert.Equal(t, "/myingredients/batch/a@b.com", reqs[0].path)
	assert.JSONEq(t,
		`[{"user":{"email":"a@b.com"},"ingredient":{"name":"rice"},"quantity":1,"unit":"KILOGRAM"}]`,
		string(reqs[0].body))
}

func TestRemovePantryItem_EscapesName(t *testing.T) {
	server, seen := recordingServer(t, http.StatusOK, ``)
	require.NoError(t, New(server.URL).RemovePantryItem(context.Background(), "a@b.com", "brown sugar"))
	assert.Equal(t, "/myingredients/a@b.com/brown%20sugar", seen()[0].rawPath)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&StatusError{StatusCode: http.StatusNotFound}))
	assert.False(t, IsNotFound(&StatusError{StatusCode: http.StatusInternalServerError}))
	assert.False(t, IsNotFound(assert.AnError))
}

func TestParseCookingUnit(t *testing.T) {
	tests := map[string]CookingUnit{
		"TEASPOON":    Teaspoon,
		"tsp":         Teaspoon,
		"Tablespoon":  Tablespoon,
		"fl oz":       FluidOunce,
		"fluid_ounce": FluidOunce,
		"Fluid Ounce": FluidOunce,
		" kg ":        Kilogram,
		"ct":          Count,
		"l":           Liter,
	}
	for in, want := range tests {
		got, err := ParseCookingUnit(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseCookingUnit("bucket")
	assert.EqualError(t, err, "unknown cooking unit 'bucket'")
	_, err = ParseCookingUnit("  ")
	assert.Error(t, err)

	assert.True(t, Gram.Valid())
	assert.False(t, CookingUnit("BUCKET").Valid())
	assert.Equal(t, "Fluid Ounce", FluidOunce.FullName())
	assert.Equal(t, "fl oz", FluidOunce.Abbreviation())
}
