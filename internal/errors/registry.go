package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E001-E099)
	// ============================================

	"E001": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No catalyst.json was found in the working directory or any parent directory.",
		DocURL:   "https://catalyst.1mg.com/docs/errors/E001",
	},
	"E002": {
		Category: CategoryConfig,
		Message:  "Configuration file is not valid JSON",
		Detail:   "catalyst.json could not be parsed. Check for trailing commas or unquoted keys.",
		DocURL:   "https://catalyst.1mg.com/docs/errors/E002",
	},
	"E003": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration field has a value outside its allowed range.",
		DocURL:   "https://catalyst.1mg.com/docs/errors/E003",
	},

	// ============================================
	// Manifest Errors (E101-E199)
	// ============================================

	"E101": {
		Category: CategoryManifest,
		Message:  "Build manifest could not be read",
		Detail:   "The manifest source returned an error. The build output may be missing or the object store unreachable.",
		DocURL:   "https://catalyst.1mg.com/docs/errors/E101",
	},
	"E102": {
		Category: CategoryManifest,
		Message:  "Build manifest is not valid JSON",
		Detail:   "The manifest file exists but could not be parsed as the expected module map.",
		DocURL:   "https://catalyst.1mg.com/docs/errors/E102",
	},
	"E103": {
		Category: CategoryManifest,
		Message:  "Categorized asset file is not valid JSON",
		Detail:   "The essential/dynamic asset file could not be parsed.",
		DocURL:   "https://catalyst.1mg.com/docs/errors/E103",
	},
	"E104": {
		Category: CategoryManifest,
		Message:  "Unknown module identifier",
		Detail:   "A boundary referenced a module identifier that is not present in the build manifest.",
		DocURL:   "https://catalyst.1mg.com/docs/errors/E104",
	},

	// ============================================
	// Classification Errors (E201-E299)
	// ============================================

	"E201": {
		Category: CategoryClassify,
		Message:  "Module graph could not be read",
		Detail:   "The compiled module graph file is missing or unreadable.",
		DocURL:   "https://catalyst.1mg.com/docs/errors/E201",
	},
	"E202": {
		Category: CategoryClassify,
		Message:  "Module graph is not valid JSON",
		DocURL:   "https://catalyst.1mg.com/docs/errors/E202",
	},
	"E203": {
		Category: CategoryClassify,
		Message:  "Module graph references unknown chunk",
		Detail:   "An import edge points at a chunk identifier that has no definition in the graph.",
		DocURL:   "https://catalyst.1mg.com/docs/errors/E203",
	},
	"E204": {
		Category: CategoryClassify,
		Message:  "Module graph has no entry points",
		Detail:   "At least one entry chunk is required to seed the essential set.",
		DocURL:   "https://catalyst.1mg.com/docs/errors/E204",
	},

	// ============================================
	// Render Errors (E301-E399)
	// ============================================

	"E301": {
		Category: CategoryRender,
		Message:  "Prerender pass failed",
		Detail:   "The shell could not be produced. The request falls back to an uncached full render.",
		DocURL:   "https://catalyst.1mg.com/docs/errors/E301",
	},
	"E302": {
		Category: CategoryRender,
		Message:  "Unknown boundary identifier",
		Detail:   "A resume descriptor referenced a boundary that is not registered. The page tree may have changed without a restart.",
		DocURL:   "https://catalyst.1mg.com/docs/errors/E302",
	},
	"E303": {
		Category: CategoryRender,
		Message:  "Resume stream aborted",
		Detail:   "Writing the response failed mid-stream. The connection was closed without completing the document.",
		DocURL:   "https://catalyst.1mg.com/docs/errors/E303",
	},

	// ============================================
	// Server Errors (E401-E499)
	// ============================================

	"E401": {
		Category: CategoryServer,
		Message:  "No page registered for route",
		Detail:   "The path matched the route tree but no page function was registered for the pattern.",
		DocURL:   "https://catalyst.1mg.com/docs/errors/E401",
	},
	"E402": {
		Category: CategoryServer,
		Message:  "No fetcher registered for boundary",
		Detail:   "A boundary declared a fetcher identifier that is not in the fetcher registry.",
		DocURL:   "https://catalyst.1mg.com/docs/errors/E402",
	},

	// ============================================
	// CLI Errors (E501-E599)
	// ============================================

	"E501": {
		Category: CategoryCLI,
		Message:  "Output file could not be written",
		DocURL:   "https://catalyst.1mg.com/docs/errors/E501",
	},
}

// Register adds a template to the registry. Intended for tests.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
