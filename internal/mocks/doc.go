// Package mocks provides test doubles for the store interfaces, including an
// in-memory store that mirrors the relational constraints of the real one
// (unique email, foreign key with cascade delete, creation-time ordering).
package mocks
