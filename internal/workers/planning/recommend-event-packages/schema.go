// internal/workers/planning/recommend-event-packages/schema.go
package recommendeventpackages

import "event-package-workers/internal/common/validation"

const inputSchemaJSON = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["requestId", "eventType", "budgetMin", "budgetMax", "guestCount"],
	"properties": {
		"requestId":  {"type": "string", "minLength": 1},
		"userId":     {"type": "string"},
		"eventType":  {"type": "string", "minLength": 1},
		"budgetMin":  {"type": "number", "minimum": 0},
		"budgetMax":  {"type": "number"},
		"guestCount": {"type": "integer", "minimum": 1},
		"catalog": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "category"],
				"properties": {
					"id":            {"type": "string", "minLength": 1},
					"name":          {"type": "string"},
					"category":      {"type": "string", "minLength": 1},
					"price":         {"type": ["number", "null"]},
					"capacity":      {"type": ["integer", "null"]},
					"sponsored":     {"type": "boolean"},
					"averageRating": {"type": ["number", "null"]},
					"seq":           {"type": "integer"}
				}
			}
		}
	}
}`

var inputSchema = validation.MustCompileSchema(inputSchemaJSON)
