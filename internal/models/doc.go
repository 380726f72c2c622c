// Package models defines the domain types shared by the topten client, controller, and backend.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): values that cross the HTTP boundary
//   - [Song] : a track with its position (rank) in a user's top ten
//   - [Identity] : the (name, artist) pair that decides whether two songs are the same
//   - [Ranking] : a song's aggregate standing across every user's list
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [User] : a person who has saved a ranked list
//
// Persistent entities implement the [Model] interface providing ID, timestamps and validation.
// The [Repository] interface defines standard CRUD operations for database access.
package models
