// Package model defines the data types flowing through the labour-demand
// planning pipeline: raw demand records, derived feature rows, forecast and
// labour-hours rows, productivity index points and the error taxonomy shared
// by every stage.
package model
