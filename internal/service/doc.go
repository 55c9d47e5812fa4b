// Package service composes the data access layer into the account and
// workout use-cases. Handlers stay thin; every business rule about
// credentials, privileges and ownership lives here.
package service
