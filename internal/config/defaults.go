package config

func Default() *Config {
	return &Config{
		WakeWords: []string{"hey jarvis", "jarvis", "हे जार्विस", "જાર્વિસ"},
		Websites: map[string]string{
			"google":        "https://www.google.com",
			"youtube":       "https://www.youtube.com",
			"facebook":      "https://www.facebook.com",
			"twitter":       "https://www.twitter.com",
			"instagram":     "https://www.instagram.com",
			"linkedin":      "https://www.linkedin.com",
			"github":        "https://www.github.com",
			"amazon":        "https://www.amazon.com",
			"netflix":       "https://www.netflix.com",
			"wikipedia":     "https://www.wikipedia.org",
			"gmail":         "https://mail.google.com",
			"outlook":       "https://outlook.live.com",
			"reddit":        "https://www.reddit.com",
			"stackoverflow": "https://stackoverflow.com",
			"spotify":       "https://open.spotify.com",
			"discord":       "https://discord.com",
			"whatsapp":      "https://web.whatsapp.com",
			"telegram":      "https://web.telegram.org",
		},
		Search: map[string]string{
			"google":        "https://www.google.com/search?q={query}",
			"youtube":       "https://www.youtube.com/results?search_query={query}",
			"wikipedia":     "https://en.wikipedia.org/wiki/{query}",
			"amazon":        "https://www.amazon.com/s?k={query}",
			"reddit":        "https://www.reddit.com/search/?q={query}",
			"stackoverflow": "https://stackoverflow.com/search?q={query}",
			"github":        "https://github.com/search?q={query}",
		},
		Apps: map[string]map[string][]string{
			"linux": {
				"chrome":     {"google-chrome", "google-chrome-stable", "chromium-browser"},
				"firefox":    {"firefox"},
				"editor":     {"gedit", "kate", "mousepad"},
				"calculator": {"gnome-calculator", "kcalc", "galculator"},
				"spotify":    {"spotify"},
				"vscode":     {"code", "codium"},
				"steam":      {"steam"},
				"discord":    {"discord"},
				"telegram":   {"telegram-desktop", "telegram"},
				"files":      {"nautilus", "dolphin", "thunar"},
				"terminal":   {"gnome-terminal", "konsole", "xterm"},
			},
			"darwin": {
				"chrome":     {"open -a Google Chrome"},
				"safari":     {"open -a Safari"},
				"firefox":    {"open -a Firefox"},
				"textedit":   {"open -a TextEdit"},
				"calculator": {"open -a Calculator"},
				"spotify":    {"open -a Spotify"},
				"vscode":     {"open -a Visual Studio Code"},
				"finder":     {"open -a Finder"},
				"terminal":   {"open -a Terminal"},
				"notes":      {"open -a Notes"},
			},
			"windows": {
				"chrome":     {"chrome.exe"},
				"edge":       {"msedge.exe"},
				"firefox":    {"firefox.exe"},
				"notepad":    {"notepad.exe"},
				"calculator": {"calc.exe"},
				"paint":      {"mspaint.exe"},
				"explorer":   {"explorer.exe"},
				"cmd":        {"cmd.exe"},
				"powershell": {"powershell.exe"},
				"vscode":     {"code"},
			},
		},
		Knowledge: map[string]string{
			"python":                  "Python is a high-level programming language known for its simplicity and readability. It's widely used in web development, data science, AI, and automation.",
			"javascript":              "JavaScript is a programming language primarily used for web development. It enables interactive web pages and is essential for front-end development.",
			"artificial intelligence": "Artificial Intelligence (AI) refers to computer systems that can perform tasks typically requiring human intelligence, such as learning, reasoning, and problem-solving.",
			"machine learning":        "Machine Learning is a subset of AI that enables computers to learn and improve from experience without being explicitly programmed.",
			"blockchain":              "Blockchain is a distributed ledger technology that maintains a continuously growing list of records, called blocks, which are linked and secured using cryptography.",
			"photosynthesis":          "Photosynthesis is the process by which plants use sunlight, water, and carbon dioxide to produce glucose and oxygen. It's essential for life on Earth.",
			"gravity":                 "Gravity is a fundamental force that attracts objects with mass toward each other. On Earth, it gives weight to physical objects.",
			"dna":                     "DNA (Deoxyribonucleic Acid) is the hereditary material in humans and almost all other organisms. It contains genetic instructions for development and function.",
			"solar system":            "The Solar System consists of the Sun and the celestial objects that orbit it, including eight planets, moons, asteroids, and comets.",
			"internet":                "The Internet is a global network of interconnected computers that communicate using standardized protocols, enabling worldwide information sharing.",
			"climate change":          "Climate change refers to long-term shifts in global temperatures and weather patterns, primarily caused by human activities since the mid-20th century.",
			"meaning of life":         "The meaning of life is a philosophical question concerning the significance of living. Different cultures and individuals have various perspectives on this profound question.",
			"ocean":                   "Earth's oceans cover about 71% of the planet's surface and contain 97% of Earth's water. They play a crucial role in climate regulation and support diverse marine life.",
		},
		Songs: []Song{
			{Title: "shape of you", Artist: "Ed Sheeran", Keywords: []string{"shape", "love", "body", "crazy"}, Search: "Ed Sheeran Shape of You official video"},
			{Title: "blinding lights", Artist: "The Weeknd", Keywords: []string{"blinding", "lights", "feel", "touch"}, Search: "The Weeknd Blinding Lights official video"},
			{Title: "bad guy", Artist: "Billie Eilish", Keywords: []string{"bad", "guy", "might", "seduce"}, Search: "Billie Eilish bad guy official video"},
			{Title: "someone like you", Artist: "Adele", Keywords: []string{"someone", "find", "love"}, Search: "Adele Someone Like You official video"},
			{Title: "bohemian rhapsody", Artist: "Queen", Keywords: []string{"bohemian", "rhapsody", "mama", "killed", "man"}, Search: "Queen Bohemian Rhapsody official video"},
			{Title: "imagine", Artist: "John Lennon", Keywords: []string{"imagine", "heaven", "hell", "peace"}, Search: "John Lennon Imagine official video"},
			{Title: "hotel california", Artist: "Eagles", Keywords: []string{"hotel", "california", "dark", "highway"}, Search: "Eagles Hotel California official video"},
			{Title: "let it be", Artist: "The Beatles", Keywords: []string{"mother", "mary", "wisdom"}, Search: "The Beatles Let It Be official video"},
			{Title: "rolling in the deep", Artist: "Adele", Keywords: []string{"rolling", "deep", "fire", "heart"}, Search: "Adele Rolling in the Deep official video"},
			{Title: "perfect", Artist: "Ed Sheeran", Keywords: []string{"perfect", "tonight", "beautiful", "wonderful"}, Search: "Ed Sheeran Perfect official video"},
		},
		Assistant: Assistant{
			Model:       "llama-3.1-8b-instant",
			MaxTokens:   200,
			Temperature: 0.6,
			Timeout:     "10s",
			WikiURL:     "https://en.wikipedia.org/api/rest_v1/page/summary/",
		},
		Speech: Speech{
			Enabled: true,
			Rate:    170,
			Duck:    true,
		},
	}
}
