package facts

import _ "embed"

// personalInfoSchema is the JSON Schema every personal info file must
// satisfy before its contents are treated as verified facts.
//
//go:embed personal_info.schema.json
var personalInfoSchema string
