// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentStore: Persists documents and metadata
//   - Extractor / ExtractorRegistry: Converts stored files to plain text
//   - SettingsStore: Supplies hot-swappable retrieval tunables
//
// # Optional Interfaces
//
//   - AnswerGenerator: External completion step fed by retrieved context
package driven
