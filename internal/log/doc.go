// Package log provides logging that never dumps document payloads, built on
// top of the standard slog package.
//
// Decoded payloads and the documents they come from can be large and may
// hold personal data entered into web forms. The PayloadHandler replaces
// such values with a short preview before they reach the output:
//   - attributes whose key names a payload (payload, content, decoded,
//     document, base64, xml, embedded)
//   - long string values that look like Base64 regardless of their key
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Warn("failed to decode base64 payload",
//	    "payload", encoded, // logged as "PGZvcm0+PGlucHV0…(4096 bytes)"
//	)
//
//	slog.SetDefault(logger)
package log
