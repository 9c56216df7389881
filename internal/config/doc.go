// Package config loads the command line configuration file. The file is YAML and can be read from any location
// supported by github.com/viant/afs (local path, file://, mem://, s3://, gs://...).
package config
