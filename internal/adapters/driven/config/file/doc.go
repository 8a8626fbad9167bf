// Package file implements the settings store on a TOML file.
//
// The file is watched for changes; edited tunables apply on the next
// index rebuild without a restart.
package file
