// Package utils provides loose and strict value conversion helpers shared by
// the ETL extract step and the stream validator.
package utils
