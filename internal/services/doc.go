// Package services holds the application service layer between the HTTP
// transport and the dataset core. Services own orchestration only; the
// data transformations live in dataset, query and stats.
package services
