package analysis

import "fmt"

// resultSchema is the JSON shape both prompts ask the model to fill in.
const resultSchema = `{
  "food_name": "%s",
  "description": "%s",
  "confidence": "High/Medium/Low - %s",
  "nutrition": {
    "calories": 250,
    "protein_g": 15,
    "fat_g": 8,
    "carbs_g": 30,
    "sugar_g": 5,
    "fiber_g": 3,
    "sodium_mg": 400,
    "calcium_mg": 100,
    "iron_mg": 2
  },
  "ingredients": ["list", "of", "%s", "ingredients"],
  "health_insights": [
    "Detailed health benefit or concern",
    "Nutritional highlight",
    "Dietary consideration"
  ],
  "dietary_tags": ["vegetarian", "gluten-free", "high-protein", "etc"],
  "serving_size": "%s",
  "preparation_method": "%s"
}`

// ImagePrompt asks for nutrition observed in a photo.
var ImagePrompt = `You are an expert nutritionist and food analyst. Analyze this food image in detail and return ONLY valid JSON with this exact structure:
` + fmt.Sprintf(resultSchema,
	"Specific name of the food item(s) identified",
	"Detailed description of what you see in the image, including cooking method, ingredients visible, portion size, and presentation",
	"your confidence in the identification",
	"visible",
	"Estimated serving size description",
	"How the food appears to be prepared",
) + `

Important:
- Analyze the actual food in the image carefully
- Provide realistic nutrition estimates based on what you see
- Be specific about ingredients and preparation methods visible
- Return only the JSON object, no additional text or formatting
- If you're unsure about something, indicate it in the confidence level
`

// SearchPrompt asks for typical nutrition of a named food.
func SearchPrompt(foodName string) string {
	return fmt.Sprintf(`You are an expert nutritionist and food analyst. Analyze the food item "%s" and return ONLY valid JSON with this exact structure:
`, foodName) + fmt.Sprintf(resultSchema,
		"Specific name of the food item",
		"Detailed description of the food, including typical preparation methods, common ingredients, and nutritional characteristics",
		"your confidence in the nutritional data",
		"typical",
		"Standard serving size description (e.g., '1 medium apple', '100g cooked')",
		"Common preparation methods for this food",
	) + fmt.Sprintf(`

Important:
- Provide accurate nutrition data for a standard serving of "%s"
- Be specific about typical ingredients and preparation methods
- Include relevant dietary tags and health insights
- Return only the JSON object, no additional text or formatting
- If the food name is unclear, make reasonable assumptions and indicate in confidence level
- Base nutrition values on commonly available versions of this food
`, foodName)
}
