// Package config holds the two documents that steer a quantization run:
// Parameters, the objective blend, solver limits and backend selection, and
// FlowConfig, the knobs of the flow network for paired sides.
//
// Both are YAML. Decoding starts from the defaults, so missing keys keep
// their default and unknown keys are skipped. Unreadable files, type
// mismatches and out-of-range values are reported as *Error carrying the
// document path and the offending field.
package config
