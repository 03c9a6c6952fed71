// Package config manages user-level settings stored at ~/.bulkren/config.yaml.
// Values can be overridden with BULKREN_-prefixed environment variables. It
// covers the manifest file name, extra ignored entry names, the session
// state file, logging, the editor used to open manifests, and the watch
// debounce interval.
package config
