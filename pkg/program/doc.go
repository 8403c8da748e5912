// Package program is the runtime imported by generated dispatchers: account
// handles, the per-call Context, instruction decoding and the error type
// reported back to the invoking environment.
package program
