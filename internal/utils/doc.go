// Package utils provides small helpers shared by the wfextract packages.
// Raw model output can be arbitrarily long, so error messages and log
// attributes carry a length-capped copy of it.
package utils
