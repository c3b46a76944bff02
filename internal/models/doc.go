// Package models defines the data types exchanged with the atlas backend and the entities persisted locally.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): JSON shapes of the backend API
//   - [FixtureResponse] : Envelope returned by the upcoming fixtures endpoint
//   - [Fixture] : A single match with league, teams, goals and score
//   - [User] : Signed-in user as carried by the user_info cookie
//   - [MetricEvent] : Telemetry event posted to the metrics endpoint
//
// 2. Persistent Entities: Database-backed models
//   - [StoredCookie] : A session cookie saved so credentials survive restarts
//
// Persistent entities implement the [Model] interface providing ID, timestamps and validation.
// The [Repository] interface defines standard CRUD operations for database access.
package models
