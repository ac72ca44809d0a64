package store

// taskSchema is the JSON Schema every loaded store file must satisfy.
// It pins the priority enum, the date formats, and the never-null tags
// array so a hand-edited file fails loudly instead of round-tripping
// garbage back to disk.
const taskSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["text", "completed", "priority", "tags", "due_date", "created_at"],
    "additionalProperties": false,
    "properties": {
      "text": {
        "type": "string",
        "minLength": 1
      },
      "completed": {
        "type": "boolean"
      },
      "priority": {
        "type": "string",
        "enum": ["high", "medium", "low"]
      },
      "tags": {
        "type": "array",
        "items": {
          "type": "string"
        }
      },
      "due_date": {
        "type": ["string", "null"],
        "pattern": "^\\d{4}-\\d{2}-\\d{2}$"
      },
      "created_at": {
        "type": "string",
        "pattern": "^\\d{4}-\\d{2}-\\d{2}$"
      }
    }
  }
}`
