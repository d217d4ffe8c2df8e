// Package models defines the domain values shared by the calculator, storage
// and service layers.
//
// # Inputs
//
// Event, Participant, Expense, ExpenseSplit and Payment are created by the
// application and persisted by the storage layer. The calculator treats them
// as immutable snapshots.
//
// # Outputs
//
// Balance and Settlement are computed on every query and never persisted.
// Their amounts are integer minor units (see package money); inputs carry
// decimal major units because that is what users type and what is stored.
//
// Relationships use ID strings rather than pointers.
package models
