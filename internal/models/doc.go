// Package models defines the data model for the stepmuse library utilities.
package models
