package remote

type Ingredient struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"ingredient_code"`
}

type NewIngredient struct {
	Name string `json:"name"`
	Code string `json:"ingredient_code"`
}

type RecipeIngredient struct {
	Ingredient Ingredient `json:"ingredient"`
	// Amount in ml
	Amount int `json:"amount"`
}

type Recipe struct {
	ID          int                `json:"id"`
	Name        string             `json:"name"`
	Available   bool               `json:"available"`
	Ingredients []RecipeIngredient `json:"ingredients"`
}

type NewRecipeIngredient struct {
	Code   string `json:"ingredient_code"`
	Amount int    `json:"amount"`
}

type NewRecipe struct {
	Name        string                `json:"name"`
	Available   bool                  `json:"available"`
	Ingredients []NewRecipeIngredient `json:"ingredients"`
}

type User struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// NewUser is the only place a password travels; it is never read back.
type NewUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	Username    string   `json:"username"`
	Permissions []string `json:"permissions"`
}

type TokenInfo struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
