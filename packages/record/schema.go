package record

// Version is the record document version this package reads and writes.
const Version = 1

// schemaJSON validates a session record document before it is decoded.
const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "slate session record",
  "type": "object",
  "required": ["version", "duration", "results"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "id": {"type": "string"},
    "started": {"type": "string"},
    "duration": {"type": "number", "minimum": 0},
    "results": {
      "type": "array",
      "items": {"$ref": "#/definitions/result"}
    }
  },
  "definitions": {
    "result": {
      "type": "object",
      "properties": {
        "test": {
          "type": ["object", "null"],
          "required": ["file"],
          "properties": {
            "file": {"type": "string"},
            "name": {"type": "string"}
          }
        },
        "duration": {"type": "number", "minimum": 0},
        "skipped": {"type": "boolean"},
        "skip_reason": {"type": "string"},
        "errors": {"type": "array", "items": {"$ref": "#/definitions/record"}},
        "failures": {"type": "array", "items": {"$ref": "#/definitions/record"}}
      }
    },
    "record": {
      "type": "object",
      "required": ["message"],
      "properties": {
        "message": {"type": "string"},
        "traceback": {
          "type": ["object", "null"],
          "properties": {
            "frames": {"type": "array", "items": {"$ref": "#/definitions/frame"}}
          }
        }
      }
    },
    "frame": {
      "type": "object",
      "required": ["filename", "lineno"],
      "properties": {
        "filename": {"type": "string"},
        "lineno": {"type": "integer", "minimum": 0},
        "code_string": {"type": "string"},
        "code_line": {"type": "string"},
        "locals": {"type": "array", "items": {"$ref": "#/definitions/variable"}},
        "globals": {"type": "array", "items": {"$ref": "#/definitions/variable"}}
      }
    },
    "variable": {
      "type": "object",
      "required": ["name"],
      "properties": {
        "name": {"type": "string"},
        "value": {"type": "string"}
      }
    }
  }
}`
