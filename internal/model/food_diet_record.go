package model

import "time"

// FoodDietRecord is one logged meal item.  Nutritional values are optional;
// macro nutrients are stored as DECIMAL(5,2) grams.
type FoodDietRecord struct {
	ID        int64     `json:"id"`
	UserID    *string   `json:"user_id"`
	MealType  string    `json:"meal_type"`
	FoodName  string    `json:"food_name"`
	Calories  *int64    `json:"calories"`
	Protein   *float64  `json:"protein"`
	Carbs     *float64  `json:"carbs"`
	Fat       *float64  `json:"fat"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}
