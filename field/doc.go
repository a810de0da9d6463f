// Package field defines field identities and the Registry that maps them to
// output data or derived-field recipes.
//
// A field is identified by its source type and name, for example
// ("telemetry", "1deamzt"). Both parts are case-insensitive and normalized to
// lower case. Names are unique only within a source, so the same name may
// exist under "telemetry" and "model" at once.
//
// Callers refer to fields with a Ref, either qualified with Of or bare with
// Named. A bare name resolves only when exactly one source registers it:
//
//	reg := field.NewRegistry()
//	_ = reg.RegisterOutput(field.NewID("telemetry", "x"), telemetryX)
//	_ = reg.RegisterOutput(field.NewID("model", "x"), modelX)
//
//	_, err := reg.Resolve(field.Named("x"))          // *errs.AmbiguousFieldError
//	id, _ := reg.Resolve(field.Of("model", "x"))     // model.x
package field
