package consolelog

import "github.com/santhosh-tekuri/jsonschema/v5"

//	Only the batch envelope is strict, individual entries are decoded leniently
const payloadSchemaSource = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["entries"],
	"properties": {
		"sessionId": { "type": "string" },
		"entries": { "type": "array", "minItems": 1 }
	}
}`

var payloadSchema = jsonschema.MustCompileString("consolelog-payload.json", payloadSchemaSource)
