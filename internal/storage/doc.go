// Package storage provides survey storage abstractions and implementations.
//
// Key types:
//
//   - SurveyStore: Interface defining the contract for survey storage backends
//   - InMemorySurveyStore: Thread-safe in-memory implementation of SurveyStore
//
// Stores hand out copies, so a caller holding a *survey.Survey never sees
// later writes and cannot change stored data by mutating it.
package storage
