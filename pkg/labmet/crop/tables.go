package crop

// Harvested part and humidity limits after Doorenbos & Kassam (1994) and
// Barbieri & Tuon (1992); Ky after FAO Irrigation and Drainage Paper 33.
var profiles = map[string]Profile{
	"banana_tropical":    {Ky: 1.2, Pathway: C3, HarvestedPart: "fruit", HarvestLimits: Limits{1.0, 1.0}, Humidity: Limits{70.0, 80.0}},
	"banana_subtropical": {Ky: 1.35, Pathway: C3, HarvestedPart: "fruit", HarvestLimits: Limits{1.0, 1.0}, Humidity: Limits{70.0, 80.0}},
	"citrus":             {Ky: 1.1, Pathway: C3, HarvestedPart: "fruit", HarvestLimits: Limits{1.0, 1.0}, Humidity: Limits{70.0, 85.0}},
	"pineapple":          {Ky: 0.8, Pathway: C3, HarvestedPart: "fruit", HarvestLimits: Limits{0.5, 0.6}, Humidity: Limits{80.0, 85.0}},
	"alfalfa1":           {Ky: 1.1, Pathway: C3, HarvestedPart: "hay", HarvestLimits: Limits{0.4, 0.5}, Humidity: Limits{10.0, 15.0}},
	"alfalfa2":           {Ky: 1.1, Pathway: C3, HarvestedPart: "hay", HarvestLimits: Limits{0.8, 0.9}, Humidity: Limits{10.0, 15.0}},
	"grape":              {Ky: 0.85, Pathway: C3, HarvestedPart: "fruit", HarvestLimits: Limits{1.0, 1.0}, Humidity: Limits{20.0, 20.0}},
	"cotton":             {Ky: 0.85, Pathway: C3, HarvestedPart: "fiber", HarvestLimits: Limits{0.08, 0.12}, Humidity: Limits{0.0, 0.0}},
	"peanut":             {Ky: 0.7, Pathway: C3, HarvestedPart: "grain", HarvestLimits: Limits{0.25, 0.35}, Humidity: Limits{15.0, 15.0}},
	"rice":               {Ky: 1.2, Pathway: C3, HarvestedPart: "grain", HarvestLimits: Limits{0.4, 0.5}, Humidity: Limits{15.0, 20.0}},
	"potato":             {Ky: 1.1, Pathway: C3, HarvestedPart: "tuber", HarvestLimits: Limits{0.55, 0.65}, Humidity: Limits{70.0, 75.0}},
	"beet":               {Ky: 1.0, Pathway: C3, HarvestedPart: "sugar", HarvestLimits: Limits{0.35, 0.45}, Humidity: Limits{80.0, 85.0}},
	"sugarcane":          {Ky: 1.2, Pathway: C4, HarvestedPart: "sugar", HarvestLimits: Limits{0.7, 0.8}, Humidity: Limits{80.0, 80.0}},
	"onion":              {Ky: 1.1, Pathway: C3, HarvestedPart: "bulb", HarvestLimits: Limits{0.2, 0.3}, Humidity: Limits{85.0, 90.0}},
	"pea_grain":          {Ky: 1.15, Pathway: C3, HarvestedPart: "grain", HarvestLimits: Limits{0.3, 0.4}, Humidity: Limits{10.0, 10.0}},
	"pea_legume":         {Ky: 1.15, Pathway: C3, HarvestedPart: "legume", HarvestLimits: Limits{0.3, 0.4}, Humidity: Limits{10.0, 10.0}},
	"bean":               {Ky: 1.15, Pathway: C3, HarvestedPart: "grain", HarvestLimits: Limits{1.0, 1.0}, Humidity: Limits{70.0, 80.0}},
	"olive":              {Ky: 1.0, Pathway: C3, HarvestedPart: "fruit", HarvestLimits: Limits{1.0, 1.0}, Humidity: Limits{30.0, 30.0}},
	"sunflower":          {Ky: 0.95, Pathway: C3, HarvestedPart: "seed", HarvestLimits: Limits{0.2, 0.3}, Humidity: Limits{10.0, 15.0}},
	"corn":               {Ky: 1.25, Pathway: C4, HarvestedPart: "grain", HarvestLimits: Limits{0.35, 0.45}, Humidity: Limits{10.0, 13.0}},
	"pepper":             {Ky: 1.1, Pathway: C3, HarvestedPart: "fruit", HarvestLimits: Limits{0.2, 0.4}, Humidity: Limits{90.0, 90.0}},
	"cabbage":            {Ky: 0.95, Pathway: C3, HarvestedPart: "head", HarvestLimits: Limits{0.6, 0.7}, Humidity: Limits{90.0, 90.0}},
	"soy":                {Ky: 0.85, Pathway: C3, HarvestedPart: "grain", HarvestLimits: Limits{0.3, 0.4}, Humidity: Limits{6.0, 10.0}},
	"sorghum":            {Ky: 0.9, Pathway: C4, HarvestedPart: "grain", HarvestLimits: Limits{0.3, 0.4}, Humidity: Limits{12.0, 15.0}},
	"tomato":             {Ky: 1.05, Pathway: C3, HarvestedPart: "fruit", HarvestLimits: Limits{0.25, 0.35}, Humidity: Limits{80.0, 90.0}},
	"watermelon":         {Ky: 1.1, Pathway: C3, HarvestedPart: "fruit", HarvestLimits: Limits{1.0, 1.0}, Humidity: Limits{90.0, 90.0}},
	"wheat":              {Ky: 1.05, Pathway: C3, HarvestedPart: "grain", HarvestLimits: Limits{0.35, 0.45}, Humidity: Limits{12.0, 15.0}},
}

// Kc ranges per growth stage (FAO 24/33).
var kcTable = map[string]map[Stage]Limits{
	"alfalfa1": {
		Establishment:    Limits{0.3, 0.4},
		VegetativeGrowth: Limits{1.0, 1.0},
		Flowering:        Limits{1.0, 1.0},
		Fruiting:         Limits{1.0, 1.0},
		Ripening:         Limits{1.05, 1.2},
	},
	"alfalfa2": {
		Establishment:    Limits{0.3, 0.4},
		VegetativeGrowth: Limits{1.0, 1.0},
		Flowering:        Limits{1.0, 1.0},
		Fruiting:         Limits{1.0, 1.0},
		Ripening:         Limits{1.05, 1.2},
	},
	"cotton": {
		Establishment:    Limits{0.4, 0.5},
		VegetativeGrowth: Limits{0.7, 0.8},
		Flowering:        Limits{0.7, 0.8},
		Fruiting:         Limits{0.8, 0.9},
		Ripening:         Limits{0.65, 0.7},
	},
	"peanut": {
		Establishment:    Limits{0.4, 0.5},
		VegetativeGrowth: Limits{0.7, 0.8},
		Flowering:        Limits{0.95, 1.1},
		Fruiting:         Limits{0.75, 0.85},
		Ripening:         Limits{0.55, 0.6},
	},
	"rice": {
		Establishment:    Limits{0.4, 0.5},
		VegetativeGrowth: Limits{0.7, 0.8},
		Flowering:        Limits{0.9, 1.2},
		Fruiting:         Limits{0.8, 0.9},
		Ripening:         Limits{0.5, 0.6},
	},
	"banana_tropical": {
		Establishment:    Limits{0.4, 0.5},
		VegetativeGrowth: Limits{0.7, 0.85},
		Flowering:        Limits{1.0, 1.1},
		Fruiting:         Limits{0.9, 1.0},
		Ripening:         Limits{0.75, 0.85},
	},
	"banana_subtropical": {
		Establishment:    Limits{0.5, 0.65},
		VegetativeGrowth: Limits{0.8, 0.9},
		Flowering:        Limits{1.0, 1.2},
		Fruiting:         Limits{1.0, 1.15},
		Ripening:         Limits{1.0, 1.15},
	},
	"potato": {
		Establishment:    Limits{0.4, 0.5},
		VegetativeGrowth: Limits{0.7, 0.8},
		Flowering:        Limits{1.05, 1.2},
		Fruiting:         Limits{0.85, 0.95},
		Ripening:         Limits{0.7, 0.75},
	},
	"beet": {
		Establishment:    Limits{0.4, 0.5},
		VegetativeGrowth: Limits{0.75, 0.85},
		Flowering:        Limits{1.05, 1.2},
		Fruiting:         Limits{0.9, 1.0},
		Ripening:         Limits{0.6, 0.7},
	},
	"sugarcane": {
		Establishment:    Limits{0.4, 0.5},
		VegetativeGrowth: Limits{0.7, 1.0},
		Flowering:        Limits{1.0, 1.3},
		Fruiting:         Limits{0.75, 0.8},
		Ripening:         Limits{0.5, 0.6},
	},
	"onion": {
		Establishment:    Limits{0.4, 0.6},
		VegetativeGrowth: Limits{0.7, 0.8},
		Flowering:        Limits{0.95, 1.1},
		Fruiting:         Limits{0.85, 0.9},
		Ripening:         Limits{0.85, 0.9},
	},
	"onion_wet": {
		Establishment:    Limits{0.4, 0.6},
		VegetativeGrowth: Limits{0.6, 0.75},
		Flowering:        Limits{0.95, 1.05},
		Fruiting:         Limits{0.95, 1.05},
		Ripening:         Limits{0.95, 1.05},
	},
	"coffee": {
		Establishment:    Limits{1.0, 1.0},
		VegetativeGrowth: Limits{1.0, 1.0},
		Flowering:        Limits{0.65, 0.8},
		Fruiting:         Limits{1.0, 1.0},
		Ripening:         Limits{1.0, 1.0},
	},
	"coffee_untreated": {
		Establishment:    Limits{1.0, 1.0},
		VegetativeGrowth: Limits{1.0, 1.0},
		Flowering:        Limits{0.85, 0.9},
		Fruiting:         Limits{1.0, 1.0},
		Ripening:         Limits{1.0, 1.0},
	},
	"citrus": {
		Establishment:    Limits{1.0, 1.0},
		VegetativeGrowth: Limits{1.0, 1.0},
		Flowering:        Limits{0.65, 0.75},
		Fruiting:         Limits{1.0, 1.0},
		Ripening:         Limits{1.0, 1.0},
	},
	"citrus_untreated": {
		Establishment:    Limits{1.0, 1.0},
		VegetativeGrowth: Limits{1.0, 1.0},
		Flowering:        Limits{0.65, 0.75},
		Fruiting:         Limits{1.0, 1.0},
		Ripening:         Limits{1.0, 1.0},
	},
	"pea_grain": {
		Establishment:    Limits{0.4, 0.5},
		VegetativeGrowth: Limits{0.7, 0.85},
		Flowering:        Limits{1.05, 1.2},
		Fruiting:         Limits{1.0, 1.15},
		Ripening:         Limits{0.95, 1.1},
	},
	"pea_legume": {
		Establishment:    Limits{0.4, 0.5},
		VegetativeGrowth: Limits{0.7, 0.85},
		Flowering:        Limits{1.05, 1.2},
		Fruiting:         Limits{1.0, 1.15},
		Ripening:         Limits{0.95, 1.1},
	},
	"bean": {
		Establishment:    Limits{0.3, 0.4},
		VegetativeGrowth: Limits{0.7, 0.8},
		Flowering:        Limits{1.05, 1.2},
		Fruiting:         Limits{0.65, 0.75},
		Ripening:         Limits{0.25, 0.3},
	},
	"green_bean": {
		Establishment:    Limits{0.3, 0.4},
		VegetativeGrowth: Limits{0.65, 0.75},
		Flowering:        Limits{0.95, 1.05},
		Fruiting:         Limits{0.9, 0.95},
		Ripening:         Limits{0.85, 0.95},
	},
	"sunflower": {
		Establishment:    Limits{0.3, 0.4},
		VegetativeGrowth: Limits{0.7, 0.8},
		Flowering:        Limits{1.05, 1.2},
		Fruiting:         Limits{0.7, 0.8},
		Ripening:         Limits{0.35, 0.45},
	},
	"watermelon": {
		Establishment:    Limits{0.4, 0.5},
		VegetativeGrowth: Limits{0.7, 0.8},
		Flowering:        Limits{0.95, 1.05},
		Fruiting:         Limits{0.8, 0.9},
		Ripening:         Limits{0.65, 0.75},
	},
	"sweet_corn": {
		Establishment:    Limits{0.3, 0.5},
		VegetativeGrowth: Limits{0.7, 0.9},
		Flowering:        Limits{1.05, 1.2},
		Fruiting:         Limits{1.0, 1.15},
		Ripening:         Limits{0.9, 1.1},
	},
	"corn": {
		Establishment:    Limits{0.3, 0.5},
		VegetativeGrowth: Limits{0.7, 0.85},
		Flowering:        Limits{1.05, 1.2},
		Fruiting:         Limits{0.8, 0.95},
		Ripening:         Limits{0.55, 0.6},
	},
	"olive": {
		Establishment:    Limits{1.0, 1.0},
		VegetativeGrowth: Limits{1.0, 1.0},
		Flowering:        Limits{0.4, 0.6},
		Fruiting:         Limits{1.0, 1.0},
		Ripening:         Limits{1.0, 1.0},
	},
	"pepper": {
		Establishment:    Limits{0.3, 0.4},
		VegetativeGrowth: Limits{0.6, 0.75},
		Flowering:        Limits{0.95, 1.1},
		Fruiting:         Limits{0.85, 1.0},
		Ripening:         Limits{0.8, 0.9},
	},
	"pepper_green": {
		Establishment:    Limits{0.3, 0.4},
		VegetativeGrowth: Limits{0.6, 0.75},
		Flowering:        Limits{0.95, 1.1},
		Fruiting:         Limits{0.85, 1.0},
		Ripening:         Limits{0.8, 0.9},
	},
	"cabbage": {
		Establishment:    Limits{0.4, 0.5},
		VegetativeGrowth: Limits{0.7, 0.8},
		Flowering:        Limits{0.95, 1.1},
		Fruiting:         Limits{0.9, 1.0},
		Ripening:         Limits{0.8, 0.95},
	},
	"rubber_tree": {
		Establishment:    Limits{1.0, 1.0},
		VegetativeGrowth: Limits{1.0, 1.0},
		Flowering:        Limits{0.7, 1.2},
		Fruiting:         Limits{1.0, 1.0},
		Ripening:         Limits{1.0, 1.0},
	},
	"soy": {
		Establishment:    Limits{0.3, 0.4},
		VegetativeGrowth: Limits{0.7, 0.8},
		Flowering:        Limits{1.0, 1.15},
		Fruiting:         Limits{0.7, 0.8},
		Ripening:         Limits{0.4, 0.5},
	},
	"sorghum": {
		Establishment:    Limits{0.3, 0.4},
		VegetativeGrowth: Limits{0.7, 0.75},
		Flowering:        Limits{1.0, 1.15},
		Fruiting:         Limits{0.75, 0.8},
		Ripening:         Limits{0.5, 0.55},
	},
	"tobacco": {
		Establishment:    Limits{0.3, 0.4},
		VegetativeGrowth: Limits{0.7, 0.8},
		Flowering:        Limits{1.0, 1.2},
		Fruiting:         Limits{0.9, 1.0},
		Ripening:         Limits{0.75, 0.85},
	},
	"tomato": {
		Establishment:    Limits{0.4, 0.5},
		VegetativeGrowth: Limits{0.7, 0.8},
		Flowering:        Limits{1.05, 1.25},
		Fruiting:         Limits{0.8, 0.95},
		Ripening:         Limits{0.6, 0.65},
	},
	"wheat": {
		Establishment:    Limits{0.3, 0.4},
		VegetativeGrowth: Limits{0.7, 0.8},
		Flowering:        Limits{1.05, 1.2},
		Fruiting:         Limits{0.65, 0.75},
		Ripening:         Limits{0.2, 0.25},
	},
	"grape": {
		Establishment:    Limits{0.35, 0.55},
		VegetativeGrowth: Limits{0.6, 0.8},
		Flowering:        Limits{0.7, 0.9},
		Fruiting:         Limits{0.6, 0.8},
		Ripening:         Limits{0.55, 0.7},
	},
}
