// Package meta holds everything the analysis passes share: the discovery
// report produced by the scanner and the intermediate representation
// (resource types, condensed accounts, variants and call plans) that the
// backends render. It has no rendering code of its own.
package meta
