/*
	Package pgraph provides types, constants and functions that have no other dependencies
	and can be used by all packages within pgraph: logging, typed errors, property values,
	store configurations and payload serialization.
*/
package pgraph
