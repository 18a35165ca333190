// Package schemas holds the JSON Schemas for the YAML file formats the CLI
// accepts.
package schemas

// RoutineSchemaJSON validates routine description files.
const RoutineSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "Routine",
  "type": "object",
  "required": ["name", "elements"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "elements": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "name", "start", "duration"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string", "minLength": 1},
          "start": {"type": "number", "minimum": 0},
          "duration": {"type": "number", "minimum": 0},
          "positions": {
            "type": "array",
            "items": {
              "type": "object",
              "properties": {
                "x": {"type": "number"},
                "y": {"type": "number"},
                "support": {"type": "string"}
              },
              "additionalProperties": false
            }
          },
          "form": {
            "type": "object",
            "properties": {
              "leg_position": {"type": "string", "enum": ["together", "split", "straddle"]},
              "extension_ratio": {"type": "number", "minimum": 0, "maximum": 1},
              "amplitude": {"type": "number", "minimum": 0, "maximum": 1},
              "legs_bent": {"type": "boolean"},
              "toes_flexed": {"type": "boolean"},
              "brushed": {"type": "boolean"},
              "hit": {"type": "boolean"}
            },
            "additionalProperties": false
          }
        },
        "additionalProperties": false
      }
    },
    "phase_markers": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "time"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "time": {"type": "number", "minimum": 0}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

// TaxonomySchemaJSON validates taxonomy definition files.
const TaxonomySchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "Taxonomy",
  "type": "object",
  "required": ["name", "concepts"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "concepts": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "axis"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "axis": {"type": "string", "enum": ["element_group", "zone", "temporal_quality", "form_descriptor"]},
          "label": {"type": "string"},
          "rules": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["id", "kind", "weight"],
              "properties": {
                "id": {"type": "string", "minLength": 1},
                "kind": {
                  "type": "string",
                  "enum": ["name", "zone_band", "support", "duration_range", "displacement", "extension_range", "amplitude_min", "leg_position"]
                },
                "weight": {"type": "number", "exclusiveMinimum": 0, "maximum": 1},
                "config": {"type": "object"}
              },
              "additionalProperties": false
            }
          }
        },
        "additionalProperties": false
      }
    },
    "relations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["from", "to", "kind"],
        "properties": {
          "from": {"type": "string", "minLength": 1},
          "to": {"type": "string", "minLength": 1},
          "kind": {"type": "string", "enum": ["implies", "excludes", "co-occurs-with"]}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`
