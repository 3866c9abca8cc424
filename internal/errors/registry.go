package errors

import "sort"

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// Configuration (M100-M199)

	"M101": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "The configuration file does not exist. Run without --config to use defaults, or create one with 'mvi config init'.",
	},
	"M102": {
		Category: CategoryConfig,
		Message:  "Config file is not valid JSON",
		Detail:   "The configuration file could not be parsed.",
	},
	"M103": {
		Category: CategoryConfig,
		Message:  "Invalid inspector port",
		Detail:   "The inspector port must be a valid TCP port.",
	},
	"M104": {
		Category: CategoryConfig,
		Message:  "Invalid overflow policy",
		Detail:   "events.overflow must be \"drop-oldest\" or \"drop-newest\".",
	},
	"M105": {
		Category: CategoryConfig,
		Message:  "Invalid lifecycle state",
		Detail:   "lifecycle.minState must be one of created, started or resumed.",
	},
	"M106": {
		Category: CategoryConfig,
		Message:  "Invalid log level",
		Detail:   "log.level must be debug, info, warn or error.",
	},
	"M107": {
		Category: CategoryConfig,
		Message:  "Invalid log format",
		Detail:   "log.format must be text or json.",
	},
	"M108": {
		Category: CategoryConfig,
		Message:  "Invalid event capacity",
		Detail:   "events.capacity must be zero (unbounded) or positive.",
	},
	"M109": {
		Category: CategoryConfig,
		Message:  "Config file could not be written",
		Detail:   "Writing the configuration file failed.",
	},

	// CLI (M200-M299)

	"M201": {
		Category: CategoryCLI,
		Message:  "Inspector failed to start",
		Detail:   "The inspector HTTP server could not listen on the configured address.",
	},
	"M202": {
		Category: CategoryCLI,
		Message:  "Config file already exists",
		Detail:   "Refusing to overwrite an existing configuration file.",
	},

	// Runtime (M300-M399)

	"M301": {
		Category: CategoryRuntime,
		Message:  "Container name already registered",
		Detail:   "Every container exposed to the inspector needs a unique name. Pass mvi.WithName when creating it.",
	},
	"M302": {
		Category: CategoryRuntime,
		Message:  "Demo run failed",
		Detail:   "A demo screen returned an error before finishing.",
	},
}

// Codes returns all registered error codes in order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup returns the template for a code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds or replaces an error template.
func Register(code string, template Template) {
	registry[code] = template
}
