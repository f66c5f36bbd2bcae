// internal/workers/planning/deliver-package-proposals/schema.go
package deliverpackageproposals

import "event-package-workers/internal/common/validation"

var inputSchema = validation.MustCompileSchema(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["requestId", "recipientEmail", "packages"],
	"properties": {
		"requestId":      {"type": "string", "minLength": 1},
		"recipientEmail": {"type": "string", "format": "email"},
		"recipientPhone": {"type": "string", "pattern": "^(\\+[1-9][0-9]{6,14})?$"},
		"eventType":      {"type": "string"},
		"guestCount":     {"type": "integer", "minimum": 0},
		"packages": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["tierLabel", "totalCost", "matchScore"],
				"properties": {
					"tierLabel":  {"type": "string"},
					"totalCost":  {"type": "number"},
					"matchScore": {"type": "integer"},
					"selections": {"type": "array"},
					"features":   {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`)
