// Package logger wraps zap for the desk clock:
//   - a global sugared logger writing console-encoded lines to stderr,
//     leaving stdout to the terminal display,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level parsing and runtime level changes,
//   - leveled helpers (Infof, WarnKV, ...) that pull the logger from a context.
//
// The scheduler and the application pass a context around so that every
// line carries the component name it came from.
package logger
