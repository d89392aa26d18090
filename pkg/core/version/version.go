// ============================================================================
// grab - scraping script interpreter
// ============================================================================
//
// Package:     version
// Description: Product and language version information
// Author:      msto63
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants
const (
	// Product is the version of the grab tool
	Product = "0.1.0"

	// Language is the GrabLang version the interpreter implements
	Language = "0.1.0"

	// Name is the language name shown by --version
	Name = "GrabLang"
)

// Set at build time with -ldflags "-X github.com/msto63/grab/pkg/core/version.Commit=..."
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info describes the running binary
type Info struct {
	Product   string `json:"product"`
	Language  string `json:"language"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the version information of the running binary
func Get() Info {
	return Info{
		Product:   Product,
		Language:  Language,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Short returns the one-line form printed by --version
func Short() string {
	return Name + " " + Language
}

// String formats all fields, one per line
func (i Info) String() string {
	return fmt.Sprintf("grab %s\nlanguage:   %s %s\ncommit:     %s\nbuilt:      %s\ngo:         %s\nplatform:   %s",
		i.Product, Name, i.Language, i.Commit, i.BuildDate, i.GoVersion, i.Platform)
}
