// Package sqlite provides the SQLite-backed storefront store.
//
// One database file holds catalog, accounts, orders and settings so order
// placement and review aggregation can share transactions.
package sqlite
