// Package domain defines core data models and interfaces shared across the relay
// and its clients. It contains plain types (wire/state) and contracts (interfaces) only.
//
// The subpackages split the two: types holds the wire records (Event, UserInfo,
// KeyBundle) and interfaces holds the store and channel contracts. This package
// re-exports both under short names.
package domain
