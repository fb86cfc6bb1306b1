package errors

import "slices"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://memodom.dev/docs/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Driver Errors (M001-M009)
	// ============================================

	"M001": {
		Category: CategoryDriver,
		Message:  "Driver poisoned",
		Detail:   "A previous change list failed to apply, so the surface no longer matches the retained tree. The driver refuses further cycles.",
		DocURL:   docBase + "M001",
	},
	"M002": {
		Category: CategoryDriver,
		Message:  "Driver closed",
		Detail:   "The driver was closed and its tree unmounted.",
		DocURL:   docBase + "M002",
	},
	"M003": {
		Category: CategoryDriver,
		Message:  "Root component type mismatch",
		Detail:   "WithComponent was asked for a type that differs from the current root component.",
		DocURL:   docBase + "M003",
	},
	"M004": {
		Category: CategoryDriver,
		Message:  "Event listener panicked",
		Detail:   "A listener attached to the tree panicked. The panic was recovered and the driver is still usable.",
		DocURL:   docBase + "M004",
	},
	"M005": {
		Category: CategoryDriver,
		Message:  "Driver gone",
		Detail:   "A handle was used after its driver was closed or collected.",
		DocURL:   docBase + "M005",
	},
	"M006": {
		Category: CategoryDriver,
		Message:  "Driver re-entered from a callback",
		Detail:   "A WithComponent callback or an event listener called WithComponent, Dispatch or Close on the driver that is running it. Render and SetComponent are queued instead.",
		DocURL:   docBase + "M006",
	},

	// ============================================
	// Surface Errors (M010-M019)
	// ============================================

	"M010": {
		Category: CategorySurface,
		Message:  "Change list rejected by surface",
		Detail:   "The surface could not apply an operation. The operation index is part of the wrapped error.",
		DocURL:   docBase + "M010",
	},
	"M011": {
		Category: CategorySurface,
		Message:  "Surface detached",
		Detail:   "The surface container was detached and no longer accepts change lists.",
		DocURL:   docBase + "M011",
	},

	// ============================================
	// Protocol Errors (M020-M029)
	// ============================================

	"M020": {
		Category: CategoryProtocol,
		Message:  "Invalid frame",
		Detail:   "A wire frame could not be decoded.",
		DocURL:   docBase + "M020",
	},
	"M021": {
		Category: CategoryProtocol,
		Message:  "Batch out of sequence",
		Detail:   "A change batch arrived with an unexpected sequence number. The mirror is out of sync and must reconnect.",
		DocURL:   docBase + "M021",
	},
	"M022": {
		Category: CategoryProtocol,
		Message:  "Remote session reported an error",
		Detail:   "The server side of the session sent an error frame.",
		DocURL:   docBase + "M022",
	},

	// ============================================
	// Journal Errors (M030-M039)
	// ============================================

	"M030": {
		Category: CategoryJournal,
		Message:  "Corrupt journal bundle",
		Detail:   "The bundle is truncated or contains a frame that is not a change batch.",
		DocURL:   docBase + "M030",
	},
	"M031": {
		Category: CategoryJournal,
		Message:  "Journal archive upload failed",
		Detail:   "The journal bundle could not be stored in the configured bucket.",
		DocURL:   docBase + "M031",
	},

	// ============================================
	// Config Errors (M040-M049)
	// ============================================

	"M040": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No memodom.json, memodom.yaml or memodom.yml was found in the directory.",
		DocURL:   docBase + "M040",
	},
	"M041": {
		Category: CategoryConfig,
		Message:  "Config file could not be parsed",
		Detail:   "The config file contains invalid JSON or YAML.",
		DocURL:   docBase + "M041",
	},
	"M042": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A config value is out of range.",
		DocURL:   docBase + "M042",
	},
	"M043": {
		Category: CategoryConfig,
		Message:  "Config file could not be written",
		DocURL:   docBase + "M043",
	},

	// ============================================
	// CLI Errors (M050-M059)
	// ============================================

	"M050": {
		Category: CategoryCLI,
		Message:  "Invalid argument",
		DocURL:   docBase + "M050",
	},
	"M051": {
		Category: CategoryCLI,
		Message:  "File not readable",
		DocURL:   docBase + "M051",
	},
}

// Codes returns the registered error codes in order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
