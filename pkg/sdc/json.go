package sdc

import "encoding/json"

// jsonMarshal is the shared entry point for this package's diagnostic JSON
// dumps ([MetaInfo.MarshalJSON], [Controller.DumpJSON]). These are
// debug-facing snapshots, not a wire protocol with versioning or schema
// evolution needs, so the standard library's encoding/json is the right
// tool here — none of the pack's third-party JSON libraries buy anything
// over it for a one-shot marshal of a plain map.
func jsonMarshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
