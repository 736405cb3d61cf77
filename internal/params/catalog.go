package params

func numeric(path, label string, min, max float64) Descriptor {
	return Descriptor{Path: path, Label: label, Kind: KindNumeric, Range: &Range{Min: min, Max: max}}
}

func categorical(path, label string, options ...string) Descriptor {
	return Descriptor{Path: path, Label: label, Kind: KindCategorical, Options: options}
}

func color(path, label string) Descriptor {
	return Descriptor{Path: path, Label: label, Kind: KindColor}
}

func boolean(path, label string) Descriptor {
	return Descriptor{Path: path, Label: label, Kind: KindBoolean}
}

// builtin is the catalog of morphable fields in the structured generation
// configuration.
func builtin() []Descriptor {
	return []Descriptor{
		numeric("camera.focal_length", "Focal Length (mm)", 14, 200),
		numeric("camera.aperture", "Aperture (f-stop)", 1.4, 22),
		numeric("camera.tilt", "Camera Tilt", -45, 45),
		categorical("camera.angle", "Camera Angle",
			"eye level", "low angle", "high angle", "bird's eye", "dutch angle"),
		categorical("camera.shot", "Shot Type",
			"extreme close-up", "close-up", "medium shot", "wide shot", "establishing shot"),

		numeric("lighting.intensity", "Light Intensity", 0, 100),
		numeric("lighting.temperature", "Color Temperature (K)", 2000, 10000),
		categorical("lighting.conditions", "Lighting Conditions",
			"daylight", "golden hour", "blue hour", "overcast", "studio", "neon", "candlelight", "moonlight"),
		categorical("lighting.direction", "Light Direction",
			"front", "side", "back", "top", "rim"),

		categorical("style.medium", "Medium",
			"photograph", "oil painting", "watercolor", "3d render", "pencil sketch", "digital illustration"),
		categorical("style.mood", "Mood",
			"serene", "dramatic", "mysterious", "joyful", "melancholic", "tense"),
		numeric("style.detail", "Detail Level", 0, 1),

		color("color_palette.primary", "Primary Color"),
		color("color_palette.secondary", "Secondary Color"),
		color("color_palette.accent", "Accent Color"),
		color("background.color", "Background Color"),

		boolean("render.hdr", "HDR"),
		boolean("render.depth_of_field", "Depth of Field"),
		boolean("render.film_grain", "Film Grain"),

		numeric("generation.guidance_scale", "Guidance Scale", 1, 20),
		numeric("generation.steps", "Sampling Steps", 10, 100),
		numeric("generation.strength", "Strength", 0, 1),
	}
}

// Default returns the built-in registry.
func Default() *Registry {
	r, err := NewRegistry(builtin()...)
	if err != nil {
		panic("params: invalid builtin catalog: " + err.Error())
	}
	return r
}
