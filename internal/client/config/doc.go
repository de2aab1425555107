// Package config loads runtime configuration for the meetups CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional YAML file selected with -c or -config.
//  3. Environment variables prefixed with MEETUPS_ (nested S3 settings use
//     MEETUPS_S3_*).
//  4. Command-line flags (see parseFlags).
//
// # YAML schema
//
//	backend: rtdb
//	rtdb_url: https://example-default-rtdb.firebaseio.com
//	api_key: AIza...
//	s3:
//	  bucket: meetups-media
//	  region: eu-central-1
//	  presign_expiry: 168h
//	refresh_cron: "*/5 * * * *"
//	request_timeout: 15s
//	log_level: debug
package config
