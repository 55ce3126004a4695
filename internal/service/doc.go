// Package service contains the application use cases of Taskify. It
// orchestrates domain objects and the store interfaces (defined in
// internal/store) to implement sessions, user profiles, password reset, lists
// and tasks.
//
// Services receive their dependencies through constructor injection and run
// every check-then-act sequence inside one store.TxRunner transaction.
//
// Error handling:
//   - Expected conditions (not found, validation, forbidden, credential
//     failures) are returned as sentinel errors or errors wrapping them, so
//     the API layer can map them with errors.Is.
//   - Anything else is wrapped in a ServiceError naming the failed operation
//     and logged through internal/redact.
//
// Subpackage auth holds token issuing/verification and password hashing.
package service
