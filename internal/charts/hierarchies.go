package charts

func leaves(value int, names ...string) []Node {
	out := make([]Node, len(names))
	for i, n := range names {
		out[i] = Node{Name: n, Value: value}
	}
	return out
}

func branch(name string, children ...Node) Node {
	return Node{Name: name, Children: children}
}

// FoodHierarchy is the healthy vs junk food sunburst. Every leaf weighs the same.
func FoodHierarchy() []Node {
	return []Node{
		branch("Healthy Food",
			Node{Name: "Fruits", Children: leaves(5, "Mango", "Papaya", "Guava")},
			Node{Name: "Vegetables", Children: leaves(5, "Spinach", "Okra", "Eggplant")},
			Node{Name: "Whole Grains", Children: leaves(5, "Chapati", "Brown Rice", "Millet")},
		),
		branch("Junk Food",
			Node{Name: "Fast Food", Children: leaves(5, "Samosa", "Vada Pav", "Pani Puri")},
			Node{Name: "Sugary Snacks", Children: leaves(5, "Jalebi", "Gulab Jamun", "Rasgulla")},
			Node{Name: "Fried Foods", Children: leaves(5, "Pakora", "Bhatura", "Poori")},
		),
	}
}

// DietTypes is the diet-type overview tree.
func DietTypes() Node {
	traits := func(name string, t ...string) Node {
		return Node{Name: name, Children: leaves(0, t...)}
	}
	return branch("Diet Types",
		branch("Vegetarian",
			traits("Lacto-vegetarian", "Dairy products included", "No eggs or meat"),
			traits("Ovo-vegetarian", "Eggs included", "No dairy or meat"),
			traits("Lacto-ovo vegetarian", "Includes dairy and eggs", "No meat"),
			traits("Flexitarian", "Primarily vegetarian", "Occasional meat consumption"),
		),
		branch("Vegan",
			traits("Raw vegan", "Only uncooked foods", "No animal products"),
			traits("Whole-food vegan", "Whole plant foods", "Minimally processed"),
		),
		branch("Pescatarian",
			traits("Mediterranean", "Fish and seafood", "Plant-based with olive oil"),
			traits("Nordic", "Seafood-rich", "Includes root vegetables"),
		),
		branch("Ketogenic",
			traits("Standard Ketogenic", "High fat", "Low carb", "Moderate protein"),
			traits("Targeted Ketogenic", "Carbs around workouts", "High fat"),
		),
		branch("Paleo",
			traits("Primal", "Includes dairy", "Grain-free"),
			traits("Autoimmune Paleo", "Avoids inflammatory foods", "Focus on nutrient density"),
		),
		branch("Fast Food Diet",
			traits("Convenience-focused", "Readily available meals", "Includes processed foods"),
			traits("Snack-oriented", "High in snacks", "Low in whole foods"),
		),
		branch("Junk Food Diet",
			traits("High Sugar", "Soda and candies", "Processed sweet snacks"),
			traits("High Fat", "Fried foods", "Processed meat products"),
		),
		branch("Gluten-Free Diet",
			traits("Celiac-friendly", "Strictly no gluten", "Focus on gluten-free grains"),
			traits("Non-Celiac Gluten Sensitivity", "Reduced gluten intake", "Emphasis on whole foods"),
		),
		branch("Low Carb Diet",
			traits("Atkins Diet", "Phases of carb intake", "High protein and fat"),
			traits("South Beach Diet", "Low glycemic index foods", "Phased approach to carbs"),
		),
		branch("Mediterranean Diet",
			traits("Heart-healthy", "Rich in fruits and vegetables", "Includes whole grains and lean proteins"),
			traits("Wine-inclusive", "Moderate wine consumption", "Balanced diet with healthy fats"),
		),
	)
}
