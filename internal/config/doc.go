// Package config manages user-level settings stored at ~/.expaper/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the default paper template and the author name stamped into new projects.
package config
