// Package config assembles the noten configuration.
//
// Values come from four sources, merged in increasing priority:
//
//  1. Built-in defaults
//  2. A JSON file (--config, NOTEN_CONFIG, or ~/.notenrc.json when present)
//  3. Environment variables with the NOTEN_ prefix
//  4. Command-line flags that were explicitly set
//
// Boolean settings are pointers so that an explicit false in a later source
// overrides a true from an earlier one.
package config
