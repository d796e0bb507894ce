// Package domain contains the core business entities, value objects, and
// domain logic of the application: the user identity and the learning-progress
// aggregate (level, experience, accuracy, study time, streak and per-category
// statistics). All value objects are immutable and every state transition
// returns a new instance, so the package has no shared mutable state and is
// independent of any specific infrastructure or delivery mechanism.
package domain
